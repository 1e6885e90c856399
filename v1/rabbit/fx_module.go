package rabbit

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/observability"
)

// FXModule provides the bus transport to the Fx dependency injection
// framework.
//
// The module provides:
// 1. *RabbitClient (concrete type) for direct use
// 2. Client interface for dependency injection
// 3. Lifecycle management: the reconnection loop on start, graceful
//    shutdown on stop
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(rabbit.NewConfig),
//	    rabbit.FXModule,
//	)
var FXModule = fx.Module("rabbit",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(r *RabbitClient) Client { return r },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRabbitLifecycle),
)

// RabbitParams groups the dependencies needed to create the bus transport.
type RabbitParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new client using dependency injection,
// wiring the optional logger and observer when they are present in the
// container.
func NewClientWithDI(params RabbitParams) (*RabbitClient, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		client.logger = params.Logger
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}

	return client, nil
}

// RabbitLifecycleParams groups the dependencies needed for lifecycle
// management.
type RabbitLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RabbitClient
	Config    Config
}

// RegisterRabbitLifecycle registers the bus transport with the fx
// lifecycle system:
//  1. On application start: launches the background goroutine that
//     monitors the connection and reconnects when the broker drops it.
//  2. On application stop: triggers graceful shutdown, closing channels
//     and connections cleanly.
func RegisterRabbitLifecycle(params RabbitLifecycleParams) {
	wg := &sync.WaitGroup{}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)

			go func(cfg Config) {
				defer wg.Done()
				params.Client.RetryConnection(cfg)
			}(params.Config)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.GracefulShutdown()

			wg.Wait()
			return nil
		},
	})
}

// GracefulShutdown closes the client's channel and connection cleanly.
//
// The shutdown process:
// 1. Signals all goroutines to stop by closing the shutdown channel
// 2. Closes the AMQP channel if it exists
// 3. Closes the AMQP connection if it exists and is not already closed
//
// Errors during shutdown are logged but not propagated; nothing can be
// done about them at this stage.
func (rb *RabbitClient) GracefulShutdown() {
	rb.closeShutdownOnce.Do(func() {
		close(rb.shutdownSignal)
	})

	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.logInfo(context.Background(), "Shutting down RabbitMQ client", nil)

	if rb.Channel != nil {
		if err := rb.Channel.Close(); err != nil {
			rb.logWarn(context.Background(), "Failed to close rabbit channel", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if rb.conn != nil && !rb.conn.IsClosed() {
		if err := rb.conn.Close(); err != nil {
			rb.logWarn(context.Background(), "Failed to close rabbit connection", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// GetChannel returns the underlying AMQP channel for direct operations
// when needed.
func (rb *RabbitClient) GetChannel() *amqp.Channel {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.Channel
}
