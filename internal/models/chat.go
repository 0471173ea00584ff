package models

import "time"

// MaxChatHistory caps the number of persisted chat messages per user.
// History is trimmed to the newest MaxChatHistory messages on every append.
const MaxChatHistory = 50

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn in the AI assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistory holds a user's persisted conversation with the assistant.
type ChatHistory struct {
	UserID    string        `json:"user_id" badgerhold:"key"`
	Messages  []ChatMessage `json:"messages"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChatResponse is the API response for a chat turn.
type ChatResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"` // true when the keyword responder answered
}
