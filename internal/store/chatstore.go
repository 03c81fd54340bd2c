package store

import (
	"sort"
	"sync"

	"runam-backend/internal/models"
	"runam-backend/internal/utils"
)

// ChatStore owns chats and their append-only message logs. A task's chat is
// created lazily the first time anyone asks for it.
type ChatStore struct {
	mu       sync.RWMutex
	chats    map[string]*models.Chat   // chat ID -> chat
	byTask   map[string]string         // task ID -> chat ID
	messages map[string][]models.ChatMessage
}

// NewChatStore creates an empty chat store
func NewChatStore() *ChatStore {
	return &ChatStore{
		chats:    make(map[string]*models.Chat),
		byTask:   make(map[string]string),
		messages: make(map[string][]models.ChatMessage),
	}
}

// GetOrCreateByTask returns the chat for a task, creating it on first access
func (s *ChatStore) GetOrCreateByTask(taskID string, participants []string) *models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chatID, exists := s.byTask[taskID]; exists {
		copied := *s.chats[chatID]
		return &copied
	}

	now := utils.NowUTC()
	chat := &models.Chat{
		ID:           utils.GenerateUUID(),
		TaskID:       taskID,
		Participants: append([]string(nil), participants...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.chats[chat.ID] = chat
	s.byTask[taskID] = chat.ID

	copied := *chat
	return &copied
}

// Get returns a copy of the chat, or a NotFound error
func (s *ChatStore) Get(chatID string) (*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, exists := s.chats[chatID]
	if !exists {
		return nil, models.NewError(models.ErrNotFound, "chat not found: %s", chatID)
	}
	copied := *chat
	return &copied, nil
}

// AppendMessage appends a message to the chat log and bumps the chat preview
func (s *ChatStore) AppendMessage(chatID, senderID, text string) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, exists := s.chats[chatID]
	if !exists {
		return nil, models.NewError(models.ErrNotFound, "chat not found: %s", chatID)
	}

	msg := models.ChatMessage{
		ID:        utils.GenerateUUID(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: utils.NowUTC(),
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	chat.LastMessage = text
	chat.UpdatedAt = msg.CreatedAt
	return &msg, nil
}

// Messages returns the ordered message log of a chat
func (s *ChatStore) Messages(chatID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.chats[chatID]; !exists {
		return nil, models.NewError(models.ErrNotFound, "chat not found: %s", chatID)
	}
	msgs := make([]models.ChatMessage, len(s.messages[chatID]))
	copy(msgs, s.messages[chatID])
	return msgs, nil
}

// ListByParticipant returns the user's chats, most recently active first
func (s *ChatStore) ListByParticipant(userID string) []models.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chats []models.Chat
	for _, chat := range s.chats {
		for _, p := range chat.Participants {
			if p == userID {
				chats = append(chats, *chat)
				break
			}
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})
	return chats
}
