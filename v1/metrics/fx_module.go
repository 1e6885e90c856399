package metrics

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/observability"
)

// FXModule integrates the Prometheus metrics server into an fx-based application.
//
// The module:
//  1. Provides the NewMetrics factory to the dependency injection container,
//     making the *Metrics instance available to other components.
//  2. Provides the Prometheus-backed observability.Observer so infrastructure
//     clients in the same container report operation metrics automatically.
//  3. Invokes RegisterMetricsLifecycle to manage startup and graceful shutdown
//     of the Prometheus HTTP server.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(metrics.NewConfig),
//	    // other modules...
//	)
//
// Dependencies required by this module:
//   - A metrics.Config instance must be available in the container
//   - A *logger.Logger is optional; lifecycle events are logged when present
var FXModule = fx.Module("metrics",
	fx.Provide(NewMetrics),
	fx.Provide(fx.Annotate(NewObserver, fx.As(new(observability.Observer)))),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies for metrics lifecycle management.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle manages the startup and shutdown lifecycle
// of the Prometheus metrics HTTP server.
//
// The lifecycle hook:
//   - OnStart: Launches the Prometheus HTTP server in a background goroutine.
//   - OnStop: Gracefully shuts down the metrics server.
func RegisterMetricsLifecycle(params MetricsLifecycleParams) {
	m := params.Metrics
	log := params.Logger

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if log != nil {
					log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
						"address": m.Server.Addr,
					})
				}

				if err := m.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					if log != nil {
						log.Error("Error starting Prometheus metrics server", err, nil)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if log != nil {
				log.Info("Shutting down Prometheus metrics server", nil, nil)
			}
			return m.Server.Shutdown(ctx)
		},
	})
}
