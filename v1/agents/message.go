package agents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType classifies an envelope.
type MessageType string

const (
	TypeRequest      MessageType = "request"
	TypeResponse     MessageType = "response"
	TypeNotification MessageType = "notification"
	TypeError        MessageType = "error"
)

// Priority orders messages by urgency. Crisis escalations are the only
// producers of PriorityUrgent.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// priorityRank orders priorities for comparison; unknown values rank
// below low.
var priorityRank = map[Priority]int{
	PriorityLow:    1,
	PriorityNormal: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// Rank returns the numeric ordering of the priority, higher is more
// urgent. Unknown priorities rank 0.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Registered agent names. These double as bus routing keys.
const (
	AgentTherapy        = "therapy"
	AgentJournaling     = "journaling"
	AgentFitness        = "fitness"
	AgentNutrition      = "nutrition"
	AgentScheduling     = "scheduling"
	AgentMentalExercise = "mental-exercise"
	AgentOrchestrator   = "mental-orchestrator"
)

// Message is the envelope exchanged between agents, as JSON on the wire.
type Message struct {
	// ID uniquely identifies the message
	ID string `json:"id"`

	// Type is one of request, response, notification, error
	Type MessageType `json:"type"`

	// Priority defaults to normal
	Priority Priority `json:"priority"`

	// Sender and Recipient are agent names; Sender may also be an
	// external producer ("api", "cli")
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`

	// CorrelationID links a response to the request it answers
	CorrelationID string `json:"correlation_id,omitempty"`

	// Payload carries the message-specific data
	Payload map[string]any `json:"payload,omitempty"`

	// CreatedAt is when the message was produced
	CreatedAt time.Time `json:"created_at"`
}

// NewRequest builds a request envelope with a fresh ID and normal
// priority.
func NewRequest(sender, recipient string, payload map[string]any) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Type:      TypeRequest,
		Priority:  PriorityNormal,
		Sender:    sender,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// NewNotification builds a one-way notification envelope.
func NewNotification(sender, recipient string, priority Priority, payload map[string]any) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Type:      TypeNotification,
		Priority:  priority,
		Sender:    sender,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Respond builds a response envelope addressed back to the sender of m,
// carrying m's ID as the correlation ID. The response inherits the
// request priority so urgent requests get urgent answers.
func (m *Message) Respond(payload map[string]any) *Message {
	return &Message{
		ID:            uuid.NewString(),
		Type:          TypeResponse,
		Priority:      m.Priority,
		Sender:        m.Recipient,
		Recipient:     m.Sender,
		CorrelationID: m.ID,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

// RespondUrgent is Respond with the priority forced to urgent,
// regardless of the request priority.
func (m *Message) RespondUrgent(payload map[string]any) *Message {
	resp := m.Respond(payload)
	resp.Priority = PriorityUrgent
	return resp
}

// RespondError builds an error envelope carrying the failure reason.
func (m *Message) RespondError(err error) *Message {
	resp := m.Respond(map[string]any{"error": err.Error()})
	resp.Type = TypeError
	return resp
}

// Validate checks the envelope invariants. A zero Priority is filled
// with normal rather than rejected.
func (m *Message) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil message", ErrInvalidMessage)
	}
	if m.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidMessage)
	}
	switch m.Type {
	case TypeRequest, TypeResponse, TypeNotification, TypeError:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	if m.Priority == "" {
		m.Priority = PriorityNormal
	}
	if _, ok := priorityRank[m.Priority]; !ok {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidMessage, m.Priority)
	}
	if m.Sender == "" {
		return fmt.Errorf("%w: empty sender", ErrInvalidMessage)
	}
	if m.Recipient == "" {
		return fmt.Errorf("%w: empty recipient", ErrInvalidMessage)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Encode marshals the envelope for the wire.
func (m *Message) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// DecodeMessage unmarshals and validates a wire envelope.
func DecodeMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// StringField reads a required string payload field.
func (m *Message) StringField(key string) (string, error) {
	value, ok := m.Payload[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	return value, nil
}

// OptionalString reads a string payload field, empty when absent.
func (m *Message) OptionalString(key string) string {
	value, _ := m.Payload[key].(string)
	return value
}

// BoolField reads a boolean payload field, false when absent.
func (m *Message) BoolField(key string) bool {
	value, _ := m.Payload[key].(bool)
	return value
}

// IntField reads a numeric payload field, accepting the types JSON
// decoding produces. Returns fallback when absent or non-numeric.
func (m *Message) IntField(key string, fallback int) int {
	switch v := m.Payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
