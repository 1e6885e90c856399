package agents

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubAgent answers with a fixed payload or error.
type stubAgent struct {
	name    string
	handled []*Message
	reply   map[string]any
	err     error
}

func (s *stubAgent) Name() string        { return s.name }
func (s *stubAgent) Description() string { return "stub" }

func (s *stubAgent) Handle(_ context.Context, msg *Message) (*Message, error) {
	s.handled = append(s.handled, msg)
	if s.err != nil {
		return nil, s.err
	}
	return msg.Respond(s.reply), nil
}

func TestDispatcherRegisterAndDispatch(t *testing.T) {
	dispatcher := NewDispatcher()
	stub := &stubAgent{name: AgentFitness, reply: map[string]any{"plan": "x"}}

	if err := dispatcher.Register(stub); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := dispatcher.Dispatch(context.Background(), NewRequest("api", AgentFitness, map[string]any{"user_id": "u1"}))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if resp.Payload["plan"] != "x" {
		t.Errorf("unexpected response payload: %v", resp.Payload)
	}
	if len(stub.handled) != 1 {
		t.Errorf("expected one handled message, got %d", len(stub.handled))
	}
}

func TestDispatcherRejectsDuplicates(t *testing.T) {
	dispatcher := NewDispatcher()
	if err := dispatcher.Register(&stubAgent{name: AgentTherapy}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := dispatcher.Register(&stubAgent{name: AgentTherapy}); !errors.Is(err, ErrDuplicateAgent) {
		t.Errorf("expected ErrDuplicateAgent, got %v", err)
	}
}

func TestDispatcherUnknownRecipient(t *testing.T) {
	dispatcher := NewDispatcher()
	_, err := dispatcher.Dispatch(context.Background(), NewRequest("api", "nobody", nil))
	if !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestDispatcherValidatesBeforeRouting(t *testing.T) {
	dispatcher := NewDispatcher()
	stub := &stubAgent{name: AgentTherapy}
	if err := dispatcher.Register(stub); err != nil {
		t.Fatal(err)
	}

	_, err := dispatcher.Dispatch(context.Background(), &Message{Recipient: AgentTherapy})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
	if len(stub.handled) != 0 {
		t.Error("invalid messages must not reach agents")
	}
}

func TestDispatcherNames(t *testing.T) {
	dispatcher := NewDispatcher()
	for _, name := range []string{AgentTherapy, AgentFitness, AgentJournaling} {
		if err := dispatcher.Register(&stubAgent{name: name}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{AgentFitness, AgentJournaling, AgentTherapy}
	if got := dispatcher.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
