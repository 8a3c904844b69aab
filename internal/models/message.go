package models

import "time"

// Message captures one conversation turn stored in the history.

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Attachment is the persisted summary of a file carried by a turn.
// Extraction output itself is never stored.
type Attachment struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Category string `json:"category"`
	SizeKB   string `json:"size_kb"`
}

type Message struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	BotID       int64        `json:"bot_id"`
	ThreadID    int64        `json:"thread_id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
