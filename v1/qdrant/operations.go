package qdrant

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/mindloft/wellness/v1/observability"
	"github.com/mindloft/wellness/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT ADAPTER
// ──────────────────────────────────────────────────────────────
//
// The Adapter implements vectordb.Service on top of a QdrantClient.
// It owns the mapping between the database-agnostic vectordb types
// (Record, SearchRequest, FilterSet) and the Qdrant SDK's protobuf
// structures, so the agents never see SDK internals.
//

// Adapter implements vectordb.Service for Qdrant.
type Adapter struct {
	api      *qdrant.Client
	observer observability.Observer
}

// NewAdapter wraps a raw SDK client in the vectordb.Service adapter.
func NewAdapter(api *qdrant.Client) *Adapter {
	return &Adapter{
		api:      api,
		observer: observability.NoopObserver{},
	}
}

// WithObserver returns a copy of the adapter that reports operations
// to the given observer.
func (a *Adapter) WithObserver(observer observability.Observer) *Adapter {
	if observer == nil {
		return a
	}
	clone := *a
	clone.observer = observer
	return &clone
}

var _ vectordb.Service = (*Adapter)(nil)

// ──────────────────────────────────────────────────────────────
// EnsureCollection
// ──────────────────────────────────────────────────────────────
//
// EnsureCollection verifies if a given collection exists, and creates it
// if missing. Dimension and distance metric come from the collection's
// schema — callers cannot create collections outside the fixed set.
//
// It's safe to call this multiple times — if the collection already exists,
// the function exits early. This pattern simplifies startup logic: the Fx
// lifecycle bootstraps every schema collection before the agents start.
func (a *Adapter) EnsureCollection(ctx context.Context, name string) error {
	start := time.Now()

	schema, err := vectordb.SchemaFor(name)
	if err != nil {
		return err
	}

	collections, err := a.api.ListCollections(ctx)
	if err != nil {
		a.observeOperation(ctx, "ensure_collection", name, start, err, 0)
		return fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	if slices.Contains(collections, name) {
		log.Printf("[Qdrant] Collection '%s' already exists", name)
		a.observeOperation(ctx, "ensure_collection", name, start, nil, 0)
		return nil
	}

	log.Printf("[Qdrant] Collection '%s' not found, creating it (dim=%d, distance=%s)...",
		name, schema.Dimension, schema.Distance)

	req := &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(schema.Dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := a.api.CreateCollection(ctx, req); err != nil {
		a.observeOperation(ctx, "ensure_collection", name, start, err, 0)
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	log.Printf("[Qdrant] Created collection '%s' successfully", name)
	a.observeOperation(ctx, "ensure_collection", name, start, nil, 0)
	return nil
}

// ──────────────────────────────────────────────────────────────
// Upsert
// ──────────────────────────────────────────────────────────────
//
// Upsert inserts or updates records in their collection.
//
// Every vector is validated against the collection schema before any
// network call, so a single malformed record fails the whole batch
// without partial writes. Records without an ID get a fresh UUID;
// zero timestamps are filled with the current time.
//
// This method is safe to call for large datasets — it will automatically
// split inserts into smaller chunks (`defaultBatchSize`) and perform
// multiple upserts sequentially.
func (a *Adapter) Upsert(ctx context.Context, collectionName string, records []vectordb.Record) error {
	if len(records) == 0 {
		return nil
	}

	start := time.Now()

	for i, record := range records {
		if err := vectordb.ValidateVector(collectionName, record.Vector); err != nil {
			return fmt.Errorf("record [%d]: %w", i, err)
		}
	}

	now := time.Now().UTC()
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, record := range records {
		points = append(points, buildPoint(record, now))
	}

	for batchStart := 0; batchStart < len(points); batchStart += defaultBatchSize {
		batchEnd := batchStart + defaultBatchSize
		if batchEnd > len(points) {
			batchEnd = len(points)
		}

		if err := a.upsertBatch(ctx, collectionName, points[batchStart:batchEnd]); err != nil {
			a.observeOperation(ctx, "upsert", collectionName, start, err, batchStart)
			return fmt.Errorf("[Qdrant] batch upsert failed at [%d:%d]: %w", batchStart, batchEnd, err)
		}
		log.Printf("[Qdrant] Upserted batch [%d:%d] (collection=%s)", batchStart, batchEnd, collectionName)
	}

	a.observeOperation(ctx, "upsert", collectionName, start, nil, len(points))
	return nil
}

// ──────────────────────────────────────────────────────────────
// upsertBatch
// ──────────────────────────────────────────────────────────────
//
// upsertBatch sends a single `Upsert` request for a slice of points and
// triggers a blocking insert (`Wait=true`) to ensure data persistence
// before returning.
func (a *Adapter) upsertBatch(ctx context.Context, collectionName string, points []*qdrant.PointStruct) error {
	wait := true
	req := &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           &wait,
	}

	if _, err := a.api.Upsert(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────
//
// Search performs one similarity search per request and returns results
// in request order. Each request can target a different collection with
// its own scope: the UserID and TimeWindow fields become mandatory
// conditions ANDed with the request's FilterSet.
//
// Example:
//
//	results, err := adapter.Search(ctx,
//	    vectordb.SearchRequest{CollectionName: vectordb.CollectionJournalEntries, Vector: vec, TopK: 10, UserID: uid},
//	    vectordb.SearchRequest{CollectionName: vectordb.CollectionTherapySessions, Vector: vec, TopK: 5, UserID: uid},
//	)
//	// results[0] = results for first request
//	// results[1] = results for second request
func (a *Adapter) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("at least one search request is required")
	}

	start := time.Now()
	results := make([][]vectordb.SearchResult, 0, len(requests))

	for i, searchReq := range requests {
		if err := validateSearchInput(searchReq.CollectionName, searchReq.Vector, searchReq.TopK); err != nil {
			return nil, fmt.Errorf("request [%d]: %w", i, err)
		}
		if err := vectordb.ValidateVector(searchReq.CollectionName, searchReq.Vector); err != nil {
			return nil, fmt.Errorf("request [%d]: %w", i, err)
		}

		limit := uint64(searchReq.TopK)
		req := &qdrant.QueryPoints{
			CollectionName: searchReq.CollectionName,
			Query:          qdrant.NewQuery(searchReq.Vector...),
			Limit:          &limit,
			WithPayload:    qdrant.NewWithPayload(true),
			Filter:         scopeFilter(searchReq.UserID, searchReq.TimeWindow, searchReq.Filters),
		}
		if searchReq.WithVectors {
			req.WithVectors = qdrant.NewWithVectors(true)
		}

		resp, err := a.api.Query(ctx, req)
		if err != nil {
			a.observeOperation(ctx, "search", searchReq.CollectionName, start, err, 0)
			return nil, fmt.Errorf("request [%d] search failed: %w", i, err)
		}

		res, err := parseSearchResults(searchReq.CollectionName, resp)
		if err != nil {
			return nil, fmt.Errorf("request [%d] parse failed: %w", i, err)
		}

		results = append(results, res)
		log.Printf("[Qdrant] Search request [%d] returned %d results (collection=%s)",
			i, len(res), searchReq.CollectionName)
	}

	a.observeOperation(ctx, "search", requests[0].CollectionName, start, nil, len(results))
	return results, nil
}

// ──────────────────────────────────────────────────────────────
// Scroll
// ──────────────────────────────────────────────────────────────
//
// Scroll fetches points matching the request's filters in bulk, with
// stored vectors. Unlike Search there is no query vector — this is the
// data path for the clustering pipeline, which needs a user's raw
// history rather than nearest neighbours.
func (a *Adapter) Scroll(ctx context.Context, request vectordb.ScrollRequest) ([]vectordb.Record, error) {
	if request.CollectionName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	start := time.Now()

	limit := uint32(request.Limit)
	if limit == 0 {
		limit = vectordb.DefaultClusterFetch
	}

	req := &qdrant.ScrollPoints{
		CollectionName: request.CollectionName,
		Filter:         scopeFilter(request.UserID, request.TimeWindow, request.Filters),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}

	resp, err := a.api.Scroll(ctx, req)
	if err != nil {
		a.observeOperation(ctx, "scroll", request.CollectionName, start, err, 0)
		return nil, fmt.Errorf("[Qdrant] scroll failed: %w", err)
	}

	records, err := parseScrolledPoints(resp)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] scroll parse failed: %w", err)
	}

	log.Printf("[Qdrant] Scroll returned %d points (collection=%s)", len(records), request.CollectionName)
	a.observeOperation(ctx, "scroll", request.CollectionName, start, nil, len(records))
	return records, nil
}

// ──────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────
//
// Delete removes points from a collection by their IDs.
//
// It constructs a `DeletePoints` request containing a list of `PointId`s,
// waits synchronously for completion, and logs the operation status.
func (a *Adapter) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	start := time.Now()

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: qdrantIDs},
			},
		},
		Wait: &wait,
	}

	resp, err := a.api.Delete(ctx, req)
	if err != nil {
		a.observeOperation(ctx, "delete", collection, start, err, 0)
		return fmt.Errorf("[Qdrant] delete failed: %w", err)
	}

	log.Printf("[Qdrant] Delete completed (status=%s, collection=%s)", resp.Status.String(), collection)
	a.observeOperation(ctx, "delete", collection, start, nil, len(ids))
	return nil
}

// ──────────────────────────────────────────────────────────────
// GetCollection
// ──────────────────────────────────────────────────────────────
//
// GetCollection retrieves detailed metadata about a specific collection
// from the connected Qdrant instance.
//
// It returns a high-level, decoupled `vectordb.Collection` struct containing
// core details such as:
//   • Collection name
//   • Status (e.g., "Green", "Yellow")
//   • Total vectors and points
//   • Vector size (embedding dimension)
//   • Distance metric (e.g., "Cosine", "Dot", "Euclid")
//
// This abstraction intentionally hides Qdrant SDK internals (`qdrant.CollectionInfo`)
// so that the application layer remains independent of Qdrant's client library.
func (a *Adapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if a.api == nil {
		return nil, fmt.Errorf("[Qdrant] client not initialized")
	}

	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	info, err := a.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection '%s': %w", name, err)
	}

	size, distance := extractVectorDetails(info)

	collection := &vectordb.Collection{
		Name:        name,
		Status:      info.Status.String(),
		VectorCount: derefUint64(info.IndexedVectorsCount),
		PointCount:  derefUint64(info.PointsCount),
		VectorSize:  size,
		Distance:    distance,
	}

	return collection, nil
}

// ──────────────────────────────────────────────────────────────
// ListCollections
// ──────────────────────────────────────────────────────────────
//
// ListCollections retrieves all existing collections from Qdrant and returns
// their names as a string slice.
//
// Example:
//
//	names, err := adapter.ListCollections(ctx)
//	if err != nil {
//	    log.Fatalf("failed to list collections: %v", err)
//	}
//	log.Printf("Found collections: %v", names)
func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	if a.api == nil {
		return nil, fmt.Errorf("[Qdrant] client not initialized")
	}

	names, err := a.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	log.Printf("[Qdrant] Found %d collections", len(names))
	return names, nil
}
