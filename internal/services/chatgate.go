package services

import (
	"strings"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// ChatGate authorizes chat access against the current task state and fronts
// the chat store. Reading history is always allowed to participants, even
// after closure or freezing; writing requires an active, unfrozen task.
type ChatGate struct {
	tasks *store.TaskStore
	chats *store.ChatStore
}

// NewChatGate creates the chat gate over the task and chat stores
func NewChatGate(tasks *store.TaskStore, chats *store.ChatStore) *ChatGate {
	return &ChatGate{tasks: tasks, chats: chats}
}

// Authorize checks whether sender may perform action on the task's chat.
// Denials carry the reason: TaskClosed for a completed task, UnderReview for
// a frozen one, NotAParticipant otherwise.
func (g *ChatGate) Authorize(taskID, senderID string, action models.ChatAction) error {
	task, err := g.tasks.Get(taskID)
	if err != nil {
		return err
	}
	if !task.IsParticipant(senderID) {
		return models.NewError(models.ErrForbidden, "you are not a participant of this task")
	}
	if action == models.ChatActionRead {
		return nil
	}
	if task.Frozen {
		return models.NewError(models.ErrUnderReview, "this chat is locked while the task is under review")
	}
	if task.Status == models.TaskStatusDone {
		return models.NewError(models.ErrTaskClosed, "task completed, chat is closed")
	}
	if task.Status != models.TaskStatusAccepted {
		return models.NewTransitionError(string(task.Status), "chat opens once the task is accepted")
	}
	return nil
}

// ChatForTask returns the task's chat, creating it lazily on first access.
// There is no chat before acceptance: a chat is 1:1 with a task that has a
// runner, so every chat carries both participants from the moment it exists.
func (g *ChatGate) ChatForTask(taskID, userID string) (*models.Chat, error) {
	task, err := g.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsParticipant(userID) {
		return nil, models.NewError(models.ErrForbidden, "you are not a participant of this task")
	}
	if task.Status == models.TaskStatusOpen {
		return nil, models.NewTransitionError(string(task.Status), "chat opens once the task is accepted")
	}
	return g.chats.GetOrCreateByTask(taskID, []string{task.PosterID, task.RunnerID}), nil
}

// Messages returns the chat history for a participant
func (g *ChatGate) Messages(chatID, userID string) ([]models.ChatMessage, error) {
	chat, err := g.chats.Get(chatID)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(chat.TaskID, userID, models.ChatActionRead); err != nil {
		return nil, err
	}
	return g.chats.Messages(chatID)
}

// SendMessage appends a message after write authorization passes
func (g *ChatGate) SendMessage(chatID, senderID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewError(models.ErrValidation, "message text is required")
	}
	chat, err := g.chats.Get(chatID)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(chat.TaskID, senderID, models.ChatActionWrite); err != nil {
		return nil, err
	}
	return g.chats.AppendMessage(chatID, senderID, text)
}

// MyChats lists the user's chats, most recently active first
func (g *ChatGate) MyChats(userID string) []models.Chat {
	return g.chats.ListByParticipant(userID)
}
