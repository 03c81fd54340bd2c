package models

import "time"

// Chat is the 1:1 conversation attached to an accepted task. It is created
// lazily on first access and survives task closure and freezing.
type Chat struct {
	ID           string    `json:"id" bson:"_id"`
	TaskID       string    `json:"taskId" bson:"taskId"`
	Participants []string  `json:"participants" bson:"participants"`
	LastMessage  string    `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ChatMessage is a single append-only message in a chat
type ChatMessage struct {
	ID        string    `json:"id" bson:"_id"`
	ChatID    string    `json:"chatId" bson:"chatId"`
	SenderID  string    `json:"senderId" bson:"senderId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// ChatAction is the kind of chat access being authorized
type ChatAction string

const (
	ChatActionRead  ChatAction = "read"
	ChatActionWrite ChatAction = "write"
)
