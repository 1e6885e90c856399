package tavus

import (
	"context"
	"time"
)

// Service is the video session contract the agents depend on. A
// conversation is a live avatar session: the therapy agent creates one
// when a user asks for a face-to-face session, hands back the join URL,
// and ends it when the session completes.
type Service interface {
	// CreateConversation starts a new video session.
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error)

	// GetConversation fetches a session's current state.
	GetConversation(ctx context.Context, conversationID string) (*Conversation, error)

	// EndConversation ends a live session. Ending an already ended
	// session is not an error.
	EndConversation(ctx context.Context, conversationID string) error
}

// CreateConversationRequest describes a new video session. Empty
// ReplicaID and PersonaID fall back to the configured defaults.
type CreateConversationRequest struct {
	// ReplicaID selects the avatar
	ReplicaID string `json:"replica_id,omitempty"`

	// PersonaID selects the conversational persona
	PersonaID string `json:"persona_id,omitempty"`

	// ConversationName labels the session
	ConversationName string `json:"conversation_name,omitempty"`

	// ConversationalContext primes the avatar with user context
	ConversationalContext string `json:"conversational_context,omitempty"`

	// CallbackURL receives session lifecycle webhooks when set
	CallbackURL string `json:"callback_url,omitempty"`
}

// Conversation is a video session's state.
type Conversation struct {
	ConversationID   string    `json:"conversation_id"`
	ConversationName string    `json:"conversation_name,omitempty"`
	ConversationURL  string    `json:"conversation_url,omitempty"`
	Status           string    `json:"status"`
	ReplicaID        string    `json:"replica_id,omitempty"`
	PersonaID        string    `json:"persona_id,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// Conversation statuses reported by the API.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)
