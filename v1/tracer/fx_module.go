package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule integrates distributed tracing into an fx-based application.
//
// The module:
//  1. Provides the tracer client through the NewClient constructor
//  2. Registers shutdown hooks so tracer resources are released and buffered
//     spans are flushed to exporters on application termination
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(tracer.NewConfig),
//	    // other modules...
//	)
//	app.Run()
//
// Dependencies required by this module:
//   - A tracer.Config instance must be available in the container
//   - A Logger implementation (e.g. *logger.Logger)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers shutdown hooks for the tracer with the
// fx lifecycle. The OnStop hook gracefully shuts down the tracer provider,
// flushing any pending spans, and handles the case where the provider is nil.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.tracer == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
