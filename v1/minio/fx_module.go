package minio

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/observability"
)

// FXModule provides the media storage client to the Fx dependency
// injection framework.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(minio.NewConfig),
//	    minio.FXModule,
//	)
var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(m *MinioClient) Client { return m },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterMinioLifecycle),
)

// MinioParams groups the dependencies needed to create the media storage
// client.
type MinioParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new client using dependency injection,
// wiring the optional logger and observer when present.
func NewClientWithDI(params MinioParams) (*MinioClient, error) {
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

// MinioLifecycleParams groups the dependencies for lifecycle management.
type MinioLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *MinioClient
}

// RegisterMinioLifecycle starts the connection monitor and retry
// goroutines on application start and stops them on application stop.
func RegisterMinioLifecycle(params MinioLifecycleParams) {
	wg := &sync.WaitGroup{}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Client.monitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Client.retryConnection(context.Background())
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
