package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/observability"
)

// FXModule provides the wellness event stream client to the Fx
// dependency injection framework.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(kafka.NewConfig),
//	    kafka.FXModule,
//	)
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(k *KafkaClient) Client { return k },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create the event stream
// client.
type KafkaParams struct {
	fx.In

	Config   Config
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new client using dependency injection,
// wiring the optional observer when present in the container.
func NewClientWithDI(params KafkaParams) (*KafkaClient, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Observer != nil {
		client.observer = params.Observer
	}

	return client, nil
}

// KafkaLifecycleParams groups the dependencies for lifecycle management.
type KafkaLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *KafkaClient
}

// RegisterKafkaLifecycle closes the stream client on application stop.
// Closing the writer flushes any pending async batch.
func RegisterKafkaLifecycle(params KafkaLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.Client.GracefulShutdown()
		},
	})
}
