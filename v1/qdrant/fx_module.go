package qdrant

import (
	"context"
	"log"

	"github.com/mindloft/wellness/v1/observability"
	"github.com/mindloft/wellness/v1/vectordb"
	"go.uber.org/fx"
)

// QdrantParams defines the dependencies needed to construct a QdrantClient.
type QdrantParams struct {
	fx.In

	Config   *Config
	Observer observability.Observer `optional:"true"`
}

// NewService builds the vectordb.Service implementation from the wrapped
// client, attaching the observer when one is provided.
func NewService(p QdrantParams, client *QdrantClient) vectordb.Service {
	adapter := NewAdapter(client.Client())
	if p.Observer != nil {
		adapter = adapter.WithObserver(p.Observer)
	}
	return adapter
}

// QdrantLifecycleParams defines the dependencies for lifecycle registration.
type QdrantLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *QdrantClient
	Service   vectordb.Service
}

// RegisterQdrantLifecycle bootstraps every schema collection on startup and
// closes the client on shutdown.
func RegisterQdrantLifecycle(p QdrantLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, schema := range vectordb.AllSchemas() {
				if err := p.Service.EnsureCollection(ctx, schema.Name); err != nil {
					return err
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down Qdrant client...")
			return p.Client.Close()
		},
	})
}

// FXModule provides the Qdrant-backed vectordb.Service to the Fx graph.
//
// Example:
//
//	app := fx.New(
//	    fx.Provide(qdrant.NewConfig),
//	    qdrant.FXModule,
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		NewService,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)
