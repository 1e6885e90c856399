package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/vectordb"
)

func newOrchestrator(dispatcher *Dispatcher, llm *fakeLLM, vectors *fakeVectors, events *fakeEvents) *OrchestratorAgent {
	agent := &OrchestratorAgent{
		dispatcher:    dispatcher,
		llm:           llm,
		vectors:       vectors,
		clusterWindow: vectordb.DefaultClusterWindow * 24 * time.Hour,
		clusterFetch:  vectordb.DefaultClusterFetch,
	}
	if events != nil {
		agent.events = events
	}
	return agent
}

func orchestratorRequest(payload map[string]any) *Message {
	payload["user_id"] = "u1"
	return NewRequest("api", AgentOrchestrator, payload)
}

func TestRouteFor(t *testing.T) {
	cases := map[string]string{
		"therapy":    AgentTherapy,
		"journal":    AgentJournaling,
		"journaling": AgentJournaling,
		"fitness":    AgentFitness,
		"nutrition":  AgentNutrition,
		"schedule":   AgentScheduling,
		"exercise":   AgentMentalExercise,
	}
	for topic, want := range cases {
		got, err := RouteFor(topic)
		if err != nil || got != want {
			t.Errorf("RouteFor(%q) = %q, %v; want %q", topic, got, err, want)
		}
	}

	if _, err := RouteFor("astrology"); !errors.Is(err, ErrUnroutable) {
		t.Errorf("expected ErrUnroutable, got %v", err)
	}
}

func TestOrchestratorForwardsToSpecialist(t *testing.T) {
	dispatcher := NewDispatcher()
	stub := &stubAgent{name: AgentFitness, reply: map[string]any{"plan": "week 1"}}
	if err := dispatcher.Register(stub); err != nil {
		t.Fatal(err)
	}
	agent := newOrchestrator(dispatcher, &fakeLLM{}, newFakeVectors(), nil)

	resp, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{
		"topic": "fitness",
		"goals": "run a 5k",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(stub.handled) != 1 {
		t.Fatalf("expected one forwarded message, got %d", len(stub.handled))
	}
	if stub.handled[0].Recipient != AgentFitness {
		t.Errorf("forwarded recipient = %q, want %q", stub.handled[0].Recipient, AgentFitness)
	}
	if stub.handled[0].Payload["goals"] != "run a 5k" {
		t.Error("forwarded message must keep the original payload")
	}
	if resp.Payload["plan"] != "week 1" {
		t.Errorf("unexpected response payload: %v", resp.Payload)
	}
}

func TestOrchestratorUnroutableTopic(t *testing.T) {
	agent := newOrchestrator(NewDispatcher(), &fakeLLM{}, newFakeVectors(), nil)

	_, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{"topic": "astrology"}))
	if !errors.Is(err, ErrUnroutable) {
		t.Errorf("expected ErrUnroutable, got %v", err)
	}
}

// urgentStub always escalates its reply.
type urgentStub struct {
	name string
}

func (s *urgentStub) Name() string        { return s.name }
func (s *urgentStub) Description() string { return "urgent stub" }

func (s *urgentStub) Handle(_ context.Context, msg *Message) (*Message, error) {
	return msg.RespondUrgent(map[string]any{"crisis": true}), nil
}

func TestOrchestratorUrgentResponseRefreshesProfile(t *testing.T) {
	dispatcher := NewDispatcher()
	if err := dispatcher.Register(&urgentStub{name: AgentTherapy}); err != nil {
		t.Fatal(err)
	}
	vectors := newFakeVectors()
	agent := newOrchestrator(dispatcher, &fakeLLM{}, vectors, nil)

	resp, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{
		"topic": "therapy",
		"text":  "hello",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if resp.Priority != PriorityUrgent {
		t.Errorf("expected the urgent priority to pass through, got %q", resp.Priority)
	}

	profiles := vectors.upserts[vectordb.CollectionUserMentalProfiles]
	if len(profiles) != 1 {
		t.Fatalf("expected a profile refresh, got %d upserts", len(profiles))
	}
	if profiles[0].ID != profilePointID("u1") {
		t.Error("profile refreshes must reuse the stable per-user point")
	}
}

func TestOrchestratorInsights(t *testing.T) {
	vectors := newFakeVectors()
	vectors.scrolls[vectordb.CollectionJournalEntries] = []vectordb.Record{
		{
			ID: "r1", UserID: "u1", Vector: []float32{1, 0},
			Metadata: map[string]any{"mood_score": -0.5, "triggers": []string{"work"}, "themes": []string{"anxiety"}},
		},
		{
			ID: "r2", UserID: "u1", Vector: []float32{0, 1},
			Metadata: map[string]any{"mood_score": 0.5, "triggers": []string{"sleep"}, "themes": []string{"stress"}},
		},
	}
	events := &fakeEvents{}
	agent := newOrchestrator(NewDispatcher(), &fakeLLM{}, vectors, events)

	resp, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{"topic": "insights"}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	summary, _ := resp.Payload["summary"].(string)
	if summary == "" {
		t.Error("expected a non-empty insight summary")
	}
	insights, ok := resp.Payload["insights"].([]vectordb.PatternInsight)
	if !ok || len(insights) == 0 {
		t.Fatalf("unexpected insights: %v", resp.Payload["insights"])
	}

	if len(events.published) != 1 || events.published[0].Type != kafka.EventInsightGenerated {
		t.Errorf("expected an insight.generated event, got %+v", events.published)
	}

	profiles := vectors.upserts[vectordb.CollectionUserMentalProfiles]
	if len(profiles) != 1 || profiles[0].Metadata["summary"] != summary {
		t.Errorf("expected the profile refreshed with the summary, got %+v", profiles)
	}
}

func TestOrchestratorInsightsWithoutHistory(t *testing.T) {
	agent := newOrchestrator(NewDispatcher(), &fakeLLM{}, newFakeVectors(), nil)

	_, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{"topic": "insights"}))
	if !errors.Is(err, vectordb.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestOrchestratorTimeline(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	vectors := newFakeVectors()
	vectors.scrolls[vectordb.CollectionJournalEntries] = []vectordb.Record{
		{ID: "j1", UserID: "u1", CreatedAt: base.Add(time.Hour)},
	}
	vectors.scrolls[vectordb.CollectionTherapySessions] = []vectordb.Record{
		{ID: "t1", UserID: "u1", CreatedAt: base.Add(3 * time.Hour)},
	}
	vectors.scrolls[vectordb.CollectionProgressTracking] = []vectordb.Record{
		{ID: "p1", UserID: "u1", CreatedAt: base.Add(2 * time.Hour)},
	}
	agent := newOrchestrator(NewDispatcher(), &fakeLLM{}, vectors, nil)

	resp, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{"topic": "timeline"}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	items, ok := resp.Payload["timeline"].([]map[string]any)
	if !ok || len(items) != 3 {
		t.Fatalf("unexpected timeline: %v", resp.Payload["timeline"])
	}

	// Newest first across all three sources.
	wantOrder := []string{"t1", "p1", "j1"}
	for i, want := range wantOrder {
		if items[i]["point_id"] != want {
			t.Errorf("timeline[%d] = %v, want %s", i, items[i]["point_id"], want)
		}
	}
	if items[0]["source"] != vectordb.CollectionTherapySessions {
		t.Errorf("unexpected source: %v", items[0]["source"])
	}
}

func TestOrchestratorMissingTopic(t *testing.T) {
	agent := newOrchestrator(NewDispatcher(), &fakeLLM{}, newFakeVectors(), nil)

	_, err := agent.Handle(context.Background(), orchestratorRequest(map[string]any{}))
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}
