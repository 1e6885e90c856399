package qdrant

import (
	"context"
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// componentName identifies this client in operation notifications.
const componentName = "qdrant"

// observeOperation reports a completed operation to the configured observer.
// The context parameter is accepted for signature symmetry with other
// clients; the observer contract is synchronous and does not block.
func (a *Adapter) observeOperation(_ context.Context, operation, collection string, start time.Time, err error, size int) {
	if a.observer == nil {
		return
	}

	a.observer.ObserveOperation(observability.OperationContext{
		Component: componentName,
		Operation: operation,
		Resource:  collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      int64(size),
	})
}
