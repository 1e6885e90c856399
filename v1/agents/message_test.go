package agents

import (
	"errors"
	"testing"
	"time"
)

func TestMessageValidate(t *testing.T) {
	valid := NewRequest("api", AgentTherapy, map[string]any{"user_id": "u1"})
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid message, got %v", err)
	}

	tests := []struct {
		name string
		msg  *Message
	}{
		{"nil", nil},
		{"empty id", &Message{Type: TypeRequest, Sender: "a", Recipient: "b"}},
		{"bad type", &Message{ID: "1", Type: "ping", Sender: "a", Recipient: "b"}},
		{"bad priority", &Message{ID: "1", Type: TypeRequest, Priority: "asap", Sender: "a", Recipient: "b"}},
		{"no sender", &Message{ID: "1", Type: TypeRequest, Recipient: "b"}},
		{"no recipient", &Message{ID: "1", Type: TypeRequest, Sender: "a"}},
	}
	for _, tt := range tests {
		if err := tt.msg.Validate(); !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("%s: expected ErrInvalidMessage, got %v", tt.name, err)
		}
	}
}

func TestMessageValidateFillsDefaults(t *testing.T) {
	msg := &Message{ID: "1", Type: TypeRequest, Sender: "a", Recipient: "b"}
	if err := msg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Priority != PriorityNormal {
		t.Errorf("expected normal priority, got %q", msg.Priority)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be filled")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	original := NewRequest("api", AgentJournaling, map[string]any{
		"user_id": "u1",
		"text":    "today was calm",
	})
	original.Priority = PriorityHigh

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ID != original.ID || decoded.Type != TypeRequest || decoded.Priority != PriorityHigh {
		t.Errorf("unexpected envelope: %+v", decoded)
	}
	if decoded.Payload["text"] != "today was calm" {
		t.Errorf("unexpected payload: %v", decoded.Payload)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestPriorityOrdering(t *testing.T) {
	order := []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("expected %s to outrank %s", order[i], order[i-1])
		}
	}
	if Priority("asap").Rank() != 0 {
		t.Error("unknown priorities must rank lowest")
	}
}

func TestRespond(t *testing.T) {
	req := NewRequest("api", AgentTherapy, nil)
	req.Priority = PriorityHigh

	resp := req.Respond(map[string]any{"reply": "hello"})
	if resp.Type != TypeResponse {
		t.Errorf("expected response type, got %q", resp.Type)
	}
	if resp.Sender != AgentTherapy || resp.Recipient != "api" {
		t.Errorf("response not addressed back to sender: %+v", resp)
	}
	if resp.CorrelationID != req.ID {
		t.Error("expected correlation with the request")
	}
	if resp.Priority != PriorityHigh {
		t.Error("response should inherit request priority")
	}

	urgent := req.RespondUrgent(nil)
	if urgent.Priority != PriorityUrgent {
		t.Error("expected urgent priority")
	}

	errResp := req.RespondError(ErrUnroutable)
	if errResp.Type != TypeError {
		t.Errorf("expected error type, got %q", errResp.Type)
	}
	if errResp.Payload["error"] == "" {
		t.Error("expected error payload")
	}
}

func TestPayloadFieldHelpers(t *testing.T) {
	msg := &Message{Payload: map[string]any{
		"user_id": "u1",
		"flag":    true,
		"count":   float64(7),
	}}

	if v, err := msg.StringField("user_id"); err != nil || v != "u1" {
		t.Errorf("StringField = (%q, %v)", v, err)
	}
	if _, err := msg.StringField("missing"); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
	if !msg.BoolField("flag") || msg.BoolField("missing") {
		t.Error("unexpected BoolField results")
	}
	if msg.IntField("count", 0) != 7 || msg.IntField("missing", 42) != 42 {
		t.Error("unexpected IntField results")
	}
	if msg.OptionalString("missing") != "" {
		t.Error("expected empty optional string")
	}
}

func TestMessageCreatedAtIsUTC(t *testing.T) {
	msg := NewRequest("api", AgentTherapy, nil)
	if msg.CreatedAt.Location() != time.UTC {
		t.Error("expected UTC timestamps")
	}
}
