package api

import (
	"log"
	"net/http"
	"time"

	"runam-backend/internal/middleware"
	"runam-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development - customize for production
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MyChatsHandler handles GET /api/chats/my-chats
func (h *Handlers) MyChatsHandler(c *gin.Context) {
	chats := h.chatGate.MyChats(middleware.GetUserID(c))
	if chats == nil {
		chats = []models.Chat{}
	}
	c.JSON(http.StatusOK, chats)
}

// ChatForTaskHandler handles GET /api/chats/task/:taskId
// Creates the task's chat on first access.
func (h *Handlers) ChatForTaskHandler(c *gin.Context) {
	chat, err := h.chatGate.ChatForTask(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// ListMessagesHandler handles GET /api/chats/:chatId/messages
func (h *Handlers) ListMessagesHandler(c *gin.Context) {
	messages, err := h.chatGate.Messages(c.Param("chatId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessageHandler handles POST /api/chats/:chatId/messages
func (h *Handlers) SendMessageHandler(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": err.Error()})
		return
	}

	msg, err := h.chatGate.SendMessage(c.Param("chatId"), middleware.GetUserID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// StreamMessagesHandler handles GET /api/chats/:chatId/stream
// Pushes new messages over a WebSocket instead of making the client poll.
// Polling GET /messages remains the baseline contract; this is additive.
func (h *Handlers) StreamMessagesHandler(c *gin.Context) {
	chatID := c.Param("chatId")
	userID := middleware.GetUserID(c)

	// Authorize before upgrading; read access is enough for a stream.
	if _, err := h.chatGate.Messages(chatID, userID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WEBSOCKET] failed to upgrade connection for chat %s: %v", chatID, err)
		return
	}
	defer conn.Close()
	log.Printf("[WEBSOCKET] chat %s stream opened for user %s", chatID, userID)

	// Reader goroutine: its only job is to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sent := 0
	for {
		select {
		case <-done:
			log.Printf("[WEBSOCKET] chat %s stream closed by user %s", chatID, userID)
			return
		case <-ticker.C:
			messages, err := h.chatGate.Messages(chatID, userID)
			if err != nil {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "access revoked"),
					time.Now().Add(5*time.Second))
				return
			}
			for ; sent < len(messages); sent++ {
				if err := conn.WriteJSON(messages[sent]); err != nil {
					log.Printf("[WEBSOCKET] chat %s write failed: %v", chatID, err)
					return
				}
			}
		}
	}
}
