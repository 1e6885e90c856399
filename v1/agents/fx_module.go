package agents

import (
	"context"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/rabbit"
)

// BusParams defines the dependencies for the agent bus.
type BusParams struct {
	fx.In

	Transport  rabbit.Client
	Dispatcher *Dispatcher
	Logger     *logger.Logger `optional:"true"`
}

// NewBusWithDI constructs the bus from FX-provided dependencies.
func NewBusWithDI(p BusParams) *Bus {
	return NewBus(p.Transport, p.Dispatcher, p.Logger)
}

// RegisterAgents wires every specialist and the orchestrator into the
// dispatcher. Registration order is not significant; names must be
// unique.
func RegisterAgents(
	dispatcher *Dispatcher,
	therapy *TherapyAgent,
	journaling *JournalingAgent,
	fitness *FitnessAgent,
	nutrition *NutritionAgent,
	scheduling *SchedulingAgent,
	exercise *MentalExerciseAgent,
	orchestrator *OrchestratorAgent,
) error {
	for _, agent := range []Agent{
		therapy, journaling, fitness, nutrition, scheduling, exercise, orchestrator,
	} {
		if err := dispatcher.Register(agent); err != nil {
			return err
		}
	}
	return nil
}

// LifecycleParams defines the dependencies for the agent lifecycle
// hooks.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Bus       *Bus
	Exercise  *MentalExerciseAgent
	Logger    *logger.Logger `optional:"true"`
}

// RegisterAgentLifecycle starts the bus consumers on application start
// and seeds the exercise catalog. Seeding is best effort at boot; the
// agent falls back to its built-in catalog until the next start.
func RegisterAgentLifecycle(p LifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Exercise.SeedCatalog(ctx); err != nil && p.Logger != nil {
				p.Logger.Warn("Exercise catalog seeding failed", err, nil)
			}
			// Consumers outlive the start hook's context.
			return p.Bus.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			p.Bus.Stop()
			return nil
		},
	})
}

// FXModule wires the agent layer into Fx.
//
// It provides:
//   - *Dispatcher (NewDispatcher)
//   - the seven agents
//   - *Bus (NewBusWithDI)
//
// and invokes agent registration plus the bus lifecycle. The
// integrations (LLM, vector store, profile store, cache, media, voice,
// video, calendar, event stream, transport) are expected from the
// enclosing application.
var FXModule = fx.Module(
	"agents",

	fx.Provide(
		NewDispatcher,
		NewTherapyAgent,
		NewJournalingAgent,
		NewFitnessAgent,
		NewNutritionAgent,
		NewSchedulingAgent,
		NewMentalExerciseAgent,
		NewOrchestratorAgent,
		NewBusWithDI,
	),

	fx.Invoke(
		RegisterAgents,
		RegisterAgentLifecycle,
	),
)
