package redis

import (
	"context"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/observability"
)

// FXModule provides the conversation cache client to the Fx dependency
// injection framework.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(redis.NewConfig),
//	    redis.FXModule,
//	)
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(r *RedisClient) Client { return r },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// RedisParams groups the dependencies needed to create the client.
type RedisParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new client using dependency injection,
// wiring the optional logger and observer when present.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}

	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Observer != nil {
		client.observer = params.Observer
	}

	return client, nil
}

// RedisLifecycleParams groups the dependencies for lifecycle management.
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle verifies the connection on application start
// and closes the client on application stop.
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Client.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return params.Client.Close()
		},
	})
}
