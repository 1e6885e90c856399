// Package qdrant provides a modular, dependency-injected client for the Qdrant vector database.
//
// The qdrant package backs the platform's mental-health vector subsystem: it stores
// user profile embeddings, journal entries, therapy sessions, exercises, and progress
// snapshots in five fixed collections, and exposes them through the database-agnostic
// [vectordb.Service] interface. It integrates with the fx dependency injection
// framework and supports builder-style configuration.
//
// # Core Features
//
//   - Managed Qdrant client lifecycle with Fx integration
//   - Config struct supporting environment and YAML loading
//   - Automatic health checks on client initialization
//   - Schema-driven collection creation (dimension and metric come from vectordb.SchemaFor)
//   - Safe, batched record upserts with dimension validation before any network call
//   - Per-user scoping: SearchRequest.UserID becomes a mandatory payload filter
//   - Filtered bulk Scroll with stored vectors for the clustering pipeline
//   - Database-agnostic interface via vectordb.Service
//
// # VectorDB Interface
//
// This package includes [Adapter] which implements the database-agnostic
// [vectordb.Service] interface. Application code depends on the interface,
// never on the SDK:
//
//	import (
//	    "github.com/mindloft/wellness/v1/qdrant"
//	    "github.com/mindloft/wellness/v1/vectordb"
//	)
//
//	// Create the client
//	qc, _ := qdrant.NewQdrantClient(qdrant.QdrantParams{
//	    Config: &qdrant.Config{
//	        Endpoint: "localhost",
//	        Port:     6334,
//	    },
//	})
//
//	// Create adapter for DB-agnostic usage
//	var db vectordb.Service = qdrant.NewAdapter(qc.Client())
//
// This allows switching between vector databases (Qdrant, pgVector) without
// changing application code.
//
// # Basic Usage
//
//	// Ensure a collection exists (dimension comes from the schema)
//	if err := db.EnsureCollection(ctx, vectordb.CollectionJournalEntries); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Upsert records
//	records := []vectordb.Record{
//	    {
//	        UserID: "user-123",
//	        Vector: embedding, // 768 floats for journal-entries
//	        Metadata: map[string]any{
//	            "mood_score": 7.5,
//	            "triggers":   []string{"work"},
//	        },
//	    },
//	}
//	if err := db.Upsert(ctx, vectordb.CollectionJournalEntries, records); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Perform similarity search scoped to one user
//	results, err := db.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: vectordb.CollectionJournalEntries,
//	    Vector:         queryVector,
//	    TopK:           5,
//	    UserID:         "user-123",
//	})
//	for _, res := range results[0] {
//	    fmt.Printf("ID=%s Score=%.4f\n", res.ID, res.Score)
//	}
//
// # FX Module Integration
//
// The package exposes an Fx module for automatic dependency injection. On
// startup the lifecycle hook creates every schema collection that does not
// exist yet:
//
//	app := fx.New(
//	    fx.Provide(qdrant.NewConfig),
//	    qdrant.FXModule,
//	    // other modules...
//	)
//	app.Run()
//
// # Scrolling
//
// Scroll is the bulk data path used by the clustering pipeline. It returns
// full [vectordb.Record] values with stored vectors, scoped by user and
// time window:
//
//	records, err := db.Scroll(ctx, vectordb.ScrollRequest{
//	    CollectionName: vectordb.CollectionJournalEntries,
//	    UserID:         "user-123",
//	    TimeWindow:     &vectordb.TimeRange{Gte: &thirtyDaysAgo},
//	    Limit:          1000,
//	})
//
// # Filtering
//
// Filters are defined in the [vectordb] package and support boolean logic (AND, OR, NOT).
// The qdrant adapter converts these to native Qdrant filters automatically, and
// ANDs them with the request's UserID and TimeWindow scope.
//
// Condition Types (all in vectordb package):
//
//   - MatchCondition: Exact match (string, bool, int64)
//   - MatchAnyCondition: IN operator (match any of values)
//   - MatchExceptCondition: NOT IN operator
//   - NumericRangeCondition: Numeric range filter (gt, gte, lt, lte)
//   - TimeRangeCondition: DateTime range filter
//
// Conditions address payload fields by their stored key. Upsert flattens
// record metadata next to the system fields (user_id, created_at,
// updated_at), so system fields and metadata keys filter the same way.
//
// Filter example using the convenience constructors:
//
//	// Filter: entry_type = "gratitude" AND mood_score >= 5
//	gte := float64(5)
//	results, err := db.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: vectordb.CollectionJournalEntries,
//	    Vector:         queryVector,
//	    TopK:           10,
//	    UserID:         "user-123",
//	    Filters: vectordb.NewFilterSet(
//	        vectordb.Must(
//	            vectordb.NewMatch("entry_type", "gratitude"),
//	            vectordb.NewNumericRange("mood_score", vectordb.NumericRange{Gte: &gte}),
//	        ),
//	    ),
//	})
//
// # Configuration
//
// Qdrant can be configured via environment variables or YAML:
//
//	QDRANT_ENDPOINT=localhost
//	QDRANT_PORT=6334
//	QDRANT_API_KEY=your-api-key
//
// # Performance Considerations
//
// Upsert automatically splits large record batches into smaller upserts
// (default batch size = 200). This minimizes memory usage and avoids timeouts
// when ingesting large datasets.
//
// # Thread Safety
//
// All exported methods on the Adapter are safe for concurrent use by multiple goroutines.
//
// # Testing
//
// For testing and mocking, depend on the [vectordb.Service] interface:
//
//	type MockVectorDB struct{}
//
//	func (m *MockVectorDB) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
//	    return [][]vectordb.SearchResult{
//	        {{ID: "entry-1", Score: 0.95, Payload: map[string]any{"mood_score": 7.0}}},
//	    }, nil
//	}
//
//	// Use in tests:
//	var db vectordb.Service = &MockVectorDB{}
//
// # Package Layout
//
//	qdrant/
//	├── client.go        // Qdrant client wrapper and health check
//	├── operations.go    // Service implementation (Adapter)
//	├── converter.go     // vectordb ↔ Qdrant type conversion
//	├── observer.go      // Operation notifications
//	├── utils.go         // Qdrant-specific helper functions
//	├── configs.go       // Configuration struct
//	└── fx_module.go     // Fx dependency injection module
//
// # Related Packages
//
//   - [vectordb]: Database-agnostic types, schemas, filters, and clustering
//   - [vectordb.FilterSet]: Filter structures for search queries
//   - [vectordb.SearchResult]: Search result type
//   - [vectordb.Record]: Point model for upserts and scrolls
package qdrant
