package profile

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides the profile Store and wires its lifecycle:
// schema migration and connection monitoring on start, graceful shutdown
// of the connection on stop.
var FXModule = fx.Module("profile",
	fx.Provide(
		NewStoreWithDI,
	),
	fx.Invoke(RegisterProfileLifecycle),
)

// StoreParams groups the dependencies needed to create a Store via
// dependency injection.
type StoreParams struct {
	fx.In

	Config Config
}

// NewStoreWithDI creates a new Store using dependency injection.
func NewStoreWithDI(params StoreParams) (*Store, error) {
	return NewStore(params.Config)
}

// ProfileLifecycleParams groups the dependencies for lifecycle management.
type ProfileLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Store     *Store
}

// RegisterProfileLifecycle registers lifecycle hooks for the profile store:
// 1. Schema migration on application start
// 2. Connection monitoring and automatic reconnection on application start
// 3. Graceful shutdown of database connections on application stop
func RegisterProfileLifecycle(params ProfileLifecycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Store.Migrate(ctx); err != nil {
				return err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Store.MonitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Store.RetryConnection(context.Background())
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := params.Store.GracefulShutdown()
			wg.Wait()
			return err
		},
	})
}
