package vectordb

import "context"

// Service is the common interface for all vector databases.
// It provides a database-agnostic abstraction over the platform's five
// mental-health collections, allowing the agents to switch between vector
// databases (Qdrant, pgVector, ...) without changing application code.
//
// Example usage:
//
//	func NewRetriever(db vectordb.Service) *Retriever {
//	    return &Retriever{db: db}
//	}
type Service interface {
	// Search performs similarity search across one or more requests.
	// Each request can target a different collection with different filters.
	// Returns:
	//   - results: slice of result slices—one []SearchResult per request
	//   - err: combined error (per-request errors and systemic errors joined)
	//
	// Example:
	//   results, err := db.Search(ctx,
	//       SearchRequest{CollectionName: CollectionJournalEntries, Vector: vec, TopK: 10, UserID: uid},
	//       SearchRequest{CollectionName: CollectionTherapySessions, Vector: vec, TopK: 5, UserID: uid},
	//   )
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Upsert inserts or updates records in their collection.
	// Vector dimensions are validated against the collection schema before
	// any network call; a mismatch fails the whole batch with
	// ErrDimensionMismatch.
	Upsert(ctx context.Context, collectionName string, records []Record) error

	// Scroll pages through points matching the request filters, returning
	// stored vectors. Used by the clustering pipeline to fetch a user's
	// recent history in bulk.
	Scroll(ctx context.Context, request ScrollRequest) ([]Record, error)

	// Delete removes points by their IDs from a collection.
	Delete(ctx context.Context, collection string, ids []string) error

	// EnsureCollection creates a collection if it doesn't exist, using the
	// dimension and distance metric from the collection's schema.
	// Safe to call multiple times—no-op if the collection already exists.
	EnsureCollection(ctx context.Context, name string) error

	// GetCollection retrieves metadata about a collection.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
