package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a session's ordered thread.
//
// A pending message is an unresolved assistant placeholder shown while a
// response is being generated. Pending is not settable from outside the
// package: the only way to obtain a pending message is NewPendingMessage,
// so a finalized message can never carry the flag.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
	Sources   []Source

	pending bool
}

// NewUserMessage creates a finalized user message.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates a finalized assistant message.
func NewAssistantMessage(content string, sources []Source) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
		Sources:   sources,
	}
}

// NewPendingMessage creates an assistant placeholder with empty content.
// The placeholder is resolved by removing it (matched by ID) and appending
// a finalized assistant message in its place.
func NewPendingMessage() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
		pending:   true,
	}
}

// Restore rebuilds a finalized message from persisted fields. Used when
// decoding history from the store; restored messages are never pending.
func Restore(id string, role Role, content string, at time.Time, sources []Source) Message {
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: at,
		Sources:   sources,
	}
}

// Pending reports whether this message is an unresolved assistant placeholder.
func (m Message) Pending() bool {
	return m.pending
}
