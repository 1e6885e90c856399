// Package vectordb provides a database-agnostic abstraction for the
// platform's mental-health vector subsystem.
//
// # Overview
//
// This package defines the common interface [Service] implemented by vector
// database adapters (Qdrant today; others can follow), the five fixed-schema
// collections, the payload flattening rules, the filter model, and the
// k-means clustering used to derive pattern insights. Application code
// depends only on this package and never imports a database driver.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                     Agents / Orchestrator                   │
//	│        (use vectordb.Service - no DB-specific imports)      │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                      vectordb.Service                       │
//	│    (schemas, Record model, filters, clustering, timeline)   │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	                  ┌───────────────┐
//	                  │ qdrant.Adapter│
//	                  │  (implements) │
//	                  └───────────────┘
//
// # Collections
//
//	| Collection           | Dim | Content                          |
//	|----------------------|-----|----------------------------------|
//	| user-mental-profiles | 768 | aggregated per-user mental state |
//	| journal-entries      | 768 | journal entry embeddings         |
//	| therapy-sessions     | 768 | therapy session summaries        |
//	| mental-exercises     | 384 | exercise catalog                 |
//	| progress-tracking    | 384 | progress snapshots               |
//
// Every upsert and search validates vector length against the collection
// schema before any network call (ErrDimensionMismatch).
//
// # Usage
//
//	results, err := db.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: vectordb.CollectionJournalEntries,
//	    Vector:         queryVector,
//	    TopK:           10,
//	    UserID:         userID,
//	    TimeWindow:     &vectordb.TimeRange{Gte: &since},
//	})
//
// # Filter Types
//
// The package provides DB-agnostic filter conditions:
//
//	| Type                  | Description                  | SQL Equivalent                     |
//	|-----------------------|------------------------------|------------------------------------|
//	| MatchCondition        | Exact value match            | WHERE field = value                |
//	| MatchAnyCondition     | Value in set                 | WHERE field IN (...)               |
//	| MatchExceptCondition  | Value not in set             | WHERE field NOT IN (...)           |
//	| NumericRangeCondition | Numeric range                | WHERE field >= min AND field <= max|
//	| TimeRangeCondition    | Datetime range               | WHERE created_at BETWEEN ...       |
//
// Conditions address fields by the payload key they are stored under.
// FlattenPayload puts record metadata at the top level next to the system
// fields, so metadata keys filter directly:
//
//	// system field and metadata key, both top-level
//	vectordb.NewMatch("crisis_flagged", false)
//	vectordb.NewMatch("dominant_emotion", "anxiety")
//
//	// Range conditions with NumericRange/TimeRange structs
//	vectordb.NewNumericRange("mood_score", vectordb.NumericRange{Gte: &min, Lt: &max})
//	vectordb.NewTimeRange("created_at", vectordb.TimeRange{Gte: &start, Lt: &end})
//
// # Clustering
//
// KMeans + AnalyzeClusters implement the pattern-insight pipeline: fetch a
// user's recent vectors via Scroll, cluster them (k-means++ seeding, cosine
// distance, convergence by centroid shift), then summarize each cluster's
// mood scores, triggers, and themes into PatternInsight values.
//
// # Package Layout
//
//	vectordb/
//	├── interface.go      # Service interface
//	├── schemas.go        # collection schemas + dimension validation
//	├── types.go          # SearchRequest, SearchResult, Record, ScrollRequest
//	├── record.go         # payload flattening / reconstruction
//	├── filters.go        # FilterSet, FilterCondition, and condition types
//	├── utils.go          # convenience constructors (New*) and JSON helpers
//	├── cluster.go        # k-means + pattern insights
//	├── timeline.go       # merged wellness history
//	└── errors.go         # sentinel errors
package vectordb
