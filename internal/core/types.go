package core

import "time"

const (
	AppName    = "Coworker"
	AppVersion = "0.1.0"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message within a chat.
type Turn struct {
	ID        int64     `json:"id,omitempty"`
	ChatID    string    `json:"chat_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Chat owns an ordered sequence of turns. Deleting a chat cascades to its turns.
type Chat struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastMessage string    `json:"last_message,omitempty"`
	LastAt      time.Time `json:"last_message_time,omitempty"`
}

// Classification tags a model response. It is computed per response and never
// persisted.
type Classification string

const (
	TagOK                Classification = "ok"
	TagBlockedSafety     Classification = "blocked_safety"
	TagBlockedRecitation Classification = "blocked_recitation"
	TagBlockedOther      Classification = "blocked_other"
	TagEmpty             Classification = "empty"
	TagError             Classification = "error"
)

// Blocked reports whether the tag indicates the provider withheld the response.
func (c Classification) Blocked() bool {
	switch c {
	case TagBlockedSafety, TagBlockedRecitation, TagBlockedOther:
		return true
	}
	return false
}

// Reply is a classified model response.
type Reply struct {
	Text string
	Tag  Classification
}
