package agents

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/profile"
	"github.com/mindloft/wellness/v1/vectordb"
)

// PlanStore is the slice of the profile store the planning agents
// write through.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *profile.WellnessPlan) error
	ActivePlans(ctx context.Context, userID, kind string) ([]profile.WellnessPlan, error)
}

// FitnessAgent generates workout plans and tracks progress snapshots.
type FitnessAgent struct {
	llm     gemini.Service
	plans   PlanStore
	vectors vectordb.Service
	events  kafka.Client
	log     *logger.Logger
}

// FitnessParams defines the dependencies for the fitness agent.
type FitnessParams struct {
	fx.In

	LLM     gemini.Service
	Plans   *profile.Store
	Vectors vectordb.Service
	Events  kafka.Client   `optional:"true"`
	Logger  *logger.Logger `optional:"true"`
}

// NewFitnessAgent constructs the fitness agent.
func NewFitnessAgent(p FitnessParams) *FitnessAgent {
	return &FitnessAgent{
		llm:     p.LLM,
		plans:   p.Plans,
		vectors: p.Vectors,
		events:  p.Events,
		log:     p.Logger,
	}
}

func (a *FitnessAgent) Name() string { return AgentFitness }

func (a *FitnessAgent) Description() string {
	return "Workout plan generation and fitness progress tracking"
}

// Handle generates a plan. Payload: user_id, goals; optional level.
func (a *FitnessAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	goals, err := msg.StringField("goals")
	if err != nil {
		return nil, err
	}

	prompt := "Goals: " + goals
	if level := msg.OptionalString("level"); level != "" {
		prompt += "\nFitness level: " + level
	}

	content, err := a.llm.GenerateContent(ctx, gemini.GenerateRequest{
		SystemPrompt: fitnessPrompt,
		Prompt:       prompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	plan := &profile.WellnessPlan{
		UserID:  userID,
		Kind:    profile.PlanKindFitness,
		Content: content,
	}
	if err := a.plans.SavePlan(ctx, plan); err != nil {
		return nil, err
	}

	a.trackProgress(ctx, userID, goals, plan.ID)

	if a.events != nil {
		err := a.events.PublishEvent(ctx, &kafka.Event{
			Type:    kafka.EventPlanUpdated,
			UserID:  userID,
			Source:  AgentFitness,
			Payload: map[string]interface{}{"plan_id": plan.ID, "kind": plan.Kind},
		})
		if err != nil && a.log != nil {
			a.log.Warn("Plan event publish failed", err, map[string]interface{}{"user_id": userID})
		}
	}

	return msg.Respond(map[string]any{
		"plan_id": plan.ID,
		"plan":    content,
	}), nil
}

// trackProgress stores a compact snapshot in the progress collection so
// the orchestrator's timeline sees plan activity. Best effort.
func (a *FitnessAgent) trackProgress(ctx context.Context, userID, goals, planID string) {
	vector, err := a.llm.EmbedText(ctx, goals, vectordb.DimensionCompact)
	if err != nil {
		if a.log != nil {
			a.log.Warn("Progress embedding failed", err, map[string]interface{}{"user_id": userID})
		}
		return
	}

	record := vectordb.Record{
		ID:     uuid.NewString(),
		UserID: userID,
		Vector: vector,
		Metadata: map[string]any{
			"plan_id":   planID,
			"plan_kind": profile.PlanKindFitness,
			"goals":     goals,
		},
	}
	if err := a.vectors.Upsert(ctx, vectordb.CollectionProgressTracking, []vectordb.Record{record}); err != nil && a.log != nil {
		a.log.Warn("Progress upsert failed", err, map[string]interface{}{"user_id": userID})
	}
}
