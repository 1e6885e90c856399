package agents

import (
	"context"
	"strings"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/profile"
)

// NutritionAgent generates meal plans honoring dietary restrictions.
type NutritionAgent struct {
	llm    gemini.Service
	plans  PlanStore
	events kafka.Client
	log    *logger.Logger
}

// NutritionParams defines the dependencies for the nutrition agent.
type NutritionParams struct {
	fx.In

	LLM    gemini.Service
	Plans  *profile.Store
	Events kafka.Client   `optional:"true"`
	Logger *logger.Logger `optional:"true"`
}

// NewNutritionAgent constructs the nutrition agent.
func NewNutritionAgent(p NutritionParams) *NutritionAgent {
	return &NutritionAgent{
		llm:    p.LLM,
		plans:  p.Plans,
		events: p.Events,
		log:    p.Logger,
	}
}

func (a *NutritionAgent) Name() string { return AgentNutrition }

func (a *NutritionAgent) Description() string {
	return "Meal plan generation with dietary restriction tracking"
}

// Handle generates a meal plan. Payload: user_id, goals; optional
// restrictions (comma-separated).
func (a *NutritionAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	goals, err := msg.StringField("goals")
	if err != nil {
		return nil, err
	}

	restrictions := parseRestrictions(msg.OptionalString("restrictions"))

	prompt := "Goals: " + goals
	if len(restrictions) > 0 {
		prompt += "\nDietary restrictions: " + strings.Join(restrictions, ", ")
	}

	content, err := a.llm.GenerateContent(ctx, gemini.GenerateRequest{
		SystemPrompt: nutritionPrompt,
		Prompt:       prompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	// A new plan supersedes previous active nutrition plans so the user
	// always has exactly one current meal plan.
	if existing, err := a.plans.ActivePlans(ctx, userID, profile.PlanKindNutrition); err == nil {
		for _, old := range existing {
			a.archive(ctx, old)
		}
	}

	plan := &profile.WellnessPlan{
		UserID:  userID,
		Kind:    profile.PlanKindNutrition,
		Content: content,
	}
	if err := a.plans.SavePlan(ctx, plan); err != nil {
		return nil, err
	}

	if a.events != nil {
		err := a.events.PublishEvent(ctx, &kafka.Event{
			Type:    kafka.EventPlanUpdated,
			UserID:  userID,
			Source:  AgentNutrition,
			Payload: map[string]interface{}{"plan_id": plan.ID, "kind": plan.Kind},
		})
		if err != nil && a.log != nil {
			a.log.Warn("Plan event publish failed", err, map[string]interface{}{"user_id": userID})
		}
	}

	return msg.Respond(map[string]any{
		"plan_id":      plan.ID,
		"plan":         content,
		"restrictions": restrictions,
	}), nil
}

func (a *NutritionAgent) archive(ctx context.Context, old profile.WellnessPlan) {
	old.Status = profile.PlanStatusArchived
	if err := a.plans.SavePlan(ctx, &old); err != nil && a.log != nil {
		a.log.Warn("Plan archive failed", err, map[string]interface{}{"plan_id": old.ID})
	}
}

func parseRestrictions(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
