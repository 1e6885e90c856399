package metrics

import (
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// Observer bridges infrastructure clients to Prometheus. Every client
// that accepts an observability.Observer can be pointed at one of these
// to get operation latency and outcome counts for free.
type Observer struct {
	metrics *Metrics
}

// NewObserver wraps a Metrics instance as an observability.Observer.
func NewObserver(m *Metrics) *Observer {
	return &Observer{metrics: m}
}

// ObserveOperation records one completed infrastructure operation.
func (o *Observer) ObserveOperation(ctx observability.OperationContext) {
	o.metrics.RecordOperationDuration(time.Now().Add(-ctx.Duration), ctx.Component, ctx.Operation)

	status := "success"
	if !ctx.Succeeded() {
		status = "error"
	}
	o.metrics.IncrementOperations(ctx.Component, ctx.Operation, status)
}
