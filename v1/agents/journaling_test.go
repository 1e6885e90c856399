package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/vectordb"
)

func journalRequest(text string) *Message {
	return NewRequest("api", AgentJournaling, map[string]any{
		"user_id": "u1",
		"text":    text,
	})
}

func TestJournalingStoresEntry(t *testing.T) {
	llm := &fakeLLM{reply: "Thank you for sharing."}
	vectors := newFakeVectors()
	events := &fakeEvents{}
	agent := &JournalingAgent{llm: llm, vectors: vectors, events: events}

	resp, err := agent.Handle(context.Background(), journalRequest(
		"I felt anxious because of work but a walk helped and I feel better now."))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	stored := vectors.upserts[vectordb.CollectionJournalEntries]
	if len(stored) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(stored))
	}
	metadata := stored[0].Metadata
	if metadata["dominant_emotion"] != "anxiety" {
		t.Errorf("unexpected dominant emotion: %v", metadata["dominant_emotion"])
	}
	if metadata["mood_score"] != 1.0 {
		t.Errorf("unexpected mood score: %v", metadata["mood_score"])
	}

	if resp.Payload["point_id"] != stored[0].ID {
		t.Error("response must reference the stored point")
	}
	if resp.Payload["reflection"] != llm.reply {
		t.Errorf("unexpected reflection: %v", resp.Payload["reflection"])
	}

	if len(events.published) != 1 || events.published[0].Type != kafka.EventJournalCreated {
		t.Errorf("expected a journal.created event, got %+v", events.published)
	}
}

func TestJournalingCrisisEscalates(t *testing.T) {
	vectors := newFakeVectors()
	agent := &JournalingAgent{llm: &fakeLLM{}, vectors: vectors}

	resp, err := agent.Handle(context.Background(), journalRequest(
		"Lately I keep thinking I'd be better off dead."))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if resp.Priority != PriorityUrgent {
		t.Errorf("expected urgent priority, got %q", resp.Priority)
	}
	if resp.Payload["crisis"] != true {
		t.Error("expected crisis flag")
	}
	// The entry is stored even when it escalates.
	if len(vectors.upserts[vectordb.CollectionJournalEntries]) != 1 {
		t.Error("crisis entries must still be stored")
	}
}

func TestJournalingEmbedFailureFailsMessage(t *testing.T) {
	agent := &JournalingAgent{
		llm:     &fakeLLM{embedErr: errors.New("embedding down")},
		vectors: newFakeVectors(),
	}

	if _, err := agent.Handle(context.Background(), journalRequest("a quiet day")); err == nil {
		t.Error("a lost entry must surface as an error for redelivery")
	}
}

func TestJournalingReflectionFallback(t *testing.T) {
	agent := &JournalingAgent{
		llm:     &fakeLLM{generErr: errors.New("model down")},
		vectors: newFakeVectors(),
	}

	resp, err := agent.Handle(context.Background(), journalRequest("a quiet day"))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if resp.Payload["reflection"] == "" {
		t.Error("expected a fallback reflection")
	}
}
