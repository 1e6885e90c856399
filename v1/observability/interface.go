// Package observability defines the observer contract shared by all
// infrastructure clients (qdrant, rabbit, redis, kafka, minio, gemini, ...).
//
// Clients emit one OperationContext per operation; an Observer implementation
// fans the data out to metrics, tracing, or logging. Clients never depend on
// a concrete observability backend.
package observability

import "time"

// Observer receives operation notifications from infrastructure clients.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component identifies the emitting client ("qdrant", "rabbit", "redis", ...)
	Component string

	// Operation is the verb performed ("upsert", "publish", "get", ...)
	Operation string

	// Resource is the primary target (collection, queue, key, bucket)
	Resource string

	// SubResource carries additional addressing (field, routing key, object name)
	SubResource string

	// Duration is the wall-clock time the operation took
	Duration time.Duration

	// Error is the operation error, nil on success
	Error error

	// Size is the payload size in bytes or item count, 0 when not applicable
	Size int64

	// Metadata carries operation-specific context
	Metadata map[string]interface{}
}

// Succeeded reports whether the operation completed without error.
func (oc OperationContext) Succeeded() bool {
	return oc.Error == nil
}

// NoopObserver discards all notifications. Useful as a default in tests.
type NoopObserver struct{}

func (NoopObserver) ObserveOperation(OperationContext) {}
