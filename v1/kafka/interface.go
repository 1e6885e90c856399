package kafka

import (
	"context"
	"fmt"
	"time"
)

// Client is the interface for the wellness event stream.
//
// This interface is implemented by the concrete *KafkaClient type.
type Client interface {
	// PublishEvent appends an event to the stream. The event is keyed
	// by user so one user's events stay ordered within a partition.
	PublishEvent(ctx context.Context, event *Event) error

	// Consume reads events from the stream and hands each to the
	// handler. Offsets are committed after the handler returns nil.
	// The call blocks until the context is cancelled.
	Consume(ctx context.Context, handler func(ctx context.Context, event *Event) error) error

	// GracefulShutdown closes the writer and reader cleanly.
	GracefulShutdown() error
}

// Event is one entry on the append-only wellness event stream. Agents
// publish events as facts about what happened (a journal entry was
// created, a therapy session completed); downstream analytics consume
// them.
type Event struct {
	// ID is a unique identifier for deduplication downstream
	ID string `json:"id"`

	// Type is one of the Event* constants
	Type string `json:"type"`

	// UserID identifies the user the event concerns
	UserID string `json:"user_id"`

	// Source names the agent that produced the event
	Source string `json:"source,omitempty"`

	// Payload carries event-specific data
	Payload map[string]interface{} `json:"payload,omitempty"`

	// OccurredAt is when the event happened
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks the event carries the fields every stream entry needs.
func (e *Event) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	if e.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidEvent)
	}
	switch e.Type {
	case EventJournalCreated, EventSessionCompleted, EventInsightGenerated, EventPlanUpdated:
		return nil
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, e.Type)
	}
}
