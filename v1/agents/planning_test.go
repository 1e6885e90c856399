package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/profile"
	"github.com/mindloft/wellness/v1/vectordb"
)

func TestFitnessPlanGeneration(t *testing.T) {
	llm := &fakeLLM{reply: `{"summary":"low impact week","days":[]}`}
	plans := &fakePlans{}
	vectors := newFakeVectors()
	events := &fakeEvents{}
	agent := &FitnessAgent{llm: llm, plans: plans, vectors: vectors, events: events}

	msg := NewRequest("api", AgentFitness, map[string]any{
		"user_id": "u1",
		"goals":   "build stamina",
		"level":   "beginner",
	})
	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(plans.saved) != 1 || plans.saved[0].Kind != profile.PlanKindFitness {
		t.Errorf("unexpected plans: %+v", plans.saved)
	}
	if resp.Payload["plan_id"] != plans.saved[0].ID {
		t.Error("response must reference the saved plan")
	}
	if !llm.generated[0].JSONResponse {
		t.Error("plan generation must request JSON output")
	}

	if len(vectors.upserts[vectordb.CollectionProgressTracking]) != 1 {
		t.Error("expected a progress snapshot")
	}
	if len(events.published) != 1 || events.published[0].Type != kafka.EventPlanUpdated {
		t.Errorf("expected a plan.updated event, got %+v", events.published)
	}
}

func TestFitnessModelFailure(t *testing.T) {
	agent := &FitnessAgent{
		llm:     &fakeLLM{generErr: errors.New("model down")},
		plans:   &fakePlans{},
		vectors: newFakeVectors(),
	}

	msg := NewRequest("api", AgentFitness, map[string]any{"user_id": "u1", "goals": "run"})
	if _, err := agent.Handle(context.Background(), msg); err == nil {
		t.Error("expected the model error to surface")
	}
}

func TestNutritionPlanSupersedesActive(t *testing.T) {
	plans := &fakePlans{active: []profile.WellnessPlan{
		{ID: "old-1", UserID: "u1", Kind: profile.PlanKindNutrition, Status: profile.PlanStatusActive},
	}}
	agent := &NutritionAgent{
		llm:   &fakeLLM{reply: `{"summary":"vegetarian week"}`},
		plans: plans,
	}

	msg := NewRequest("api", AgentNutrition, map[string]any{
		"user_id":      "u1",
		"goals":        "eat more greens",
		"restrictions": "vegetarian, no nuts",
	})
	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	// The old plan is archived and the new one saved.
	if len(plans.saved) != 2 {
		t.Fatalf("expected archive + save, got %d saves", len(plans.saved))
	}
	if plans.saved[0].ID != "old-1" || plans.saved[0].Status != profile.PlanStatusArchived {
		t.Errorf("expected old plan archived, got %+v", plans.saved[0])
	}
	if plans.saved[1].Kind != profile.PlanKindNutrition {
		t.Errorf("unexpected new plan: %+v", plans.saved[1])
	}

	restrictions, ok := resp.Payload["restrictions"].([]string)
	if !ok || len(restrictions) != 2 || restrictions[1] != "no nuts" {
		t.Errorf("unexpected restrictions: %v", resp.Payload["restrictions"])
	}
}

func TestParseRestrictions(t *testing.T) {
	if got := parseRestrictions(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	got := parseRestrictions(" vegan ,, gluten-free ")
	if len(got) != 2 || got[0] != "vegan" || got[1] != "gluten-free" {
		t.Errorf("unexpected restrictions: %v", got)
	}
}
