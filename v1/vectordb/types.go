package vectordb

import "time"

// SearchRequest represents a single similarity search query.
// Use with Service.Search() for single or batch queries.
type SearchRequest struct {
	// CollectionName is the target collection to search in
	CollectionName string `json:"collectionName"`

	// Vector is the query embedding to find similar vectors for
	Vector []float32 `json:"vector"`

	// TopK is the maximum number of results to return
	TopK int `json:"maxResults"`

	// UserID scopes the search to one user's points. Mental-health data is
	// strictly per-user: adapters add a mandatory user_id equality filter
	// whenever this is set.
	UserID string `json:"userId,omitempty"`

	// TimeWindow restricts results by their created_at payload field
	TimeWindow *TimeRange `json:"timeWindow,omitempty"`

	// Filters is optional additional metadata filtering (AND/OR/NOT logic)
	Filters *FilterSet `json:"filters,omitempty"`

	// WithVectors requests stored embeddings in the results
	WithVectors bool `json:"withVectors,omitempty"`
}

// SearchResult represents a single search result with its similarity score.
// This is database-agnostic—payload is converted to map[string]any.
type SearchResult struct {
	// ID is the unique identifier of the matched point
	ID string `json:"id"`

	// Score is the similarity score (higher = more similar for cosine)
	Score float32 `json:"score"`

	// Payload contains the metadata stored with the vector
	Payload map[string]any `json:"payload"`

	// Vector is the stored embedding (only populated if requested)
	Vector []float32 `json:"vector,omitempty"`

	// CollectionName identifies which collection this result came from
	CollectionName string `json:"collectionName,omitempty"`
}

// Record is a point in one of the platform's collections.
type Record struct {
	// ID is the unique point identifier (UUID). Generated on upsert when empty.
	ID string `json:"id"`

	// UserID is the owning user. Always stored as a top-level payload field.
	UserID string `json:"userId"`

	// Vector is the dense embedding. Must match the collection's dimension.
	Vector []float32 `json:"vector"`

	// Metadata is arbitrary per-record data. Flattened into the payload on
	// upsert: reserved keys are skipped, compound values are JSON-stringified.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt / UpdatedAt are stored as RFC3339 payload fields for
	// time-window filtering. Zero values are filled with now() on upsert.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScrollRequest pages through a collection's points with filters.
// Unlike Search, Scroll has no query vector—it is a filtered bulk fetch
// that returns stored vectors, used by the clustering pipeline.
type ScrollRequest struct {
	// CollectionName is the collection to scroll
	CollectionName string `json:"collectionName"`

	// UserID scopes the scroll to one user's points
	UserID string `json:"userId,omitempty"`

	// TimeWindow restricts points by their created_at payload field
	TimeWindow *TimeRange `json:"timeWindow,omitempty"`

	// Filters is optional additional metadata filtering
	Filters *FilterSet `json:"filters,omitempty"`

	// Limit caps the total number of points returned
	Limit int `json:"limit"`
}

// Collection contains metadata about a vector collection.
type Collection struct {
	// Name is the unique identifier of the collection
	Name string `json:"name"`

	// Status indicates the operational state (e.g., "Green", "Yellow")
	Status string `json:"status"`

	// VectorSize is the dimension of vectors in this collection
	VectorSize int `json:"vectorSize"`

	// Distance is the similarity metric (e.g., "Cosine", "Dot", "Euclid")
	Distance string `json:"distance"`

	// VectorCount is the number of indexed vectors
	VectorCount uint64 `json:"vectorCount"`

	// PointCount is the number of stored points/documents
	PointCount uint64 `json:"pointCount"`
}
