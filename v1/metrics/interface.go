package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing platform metrics.
// It abstracts Prometheus metric operations with support for counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// Default metric methods

	// IncrementAgentMessages increments the agent message counter for an agent/status pair.
	IncrementAgentMessages(agent, status string)

	// IncrementOperations increments the infrastructure operation counter.
	IncrementOperations(component, operation, status string)

	// RecordOperationDuration records the duration (in seconds) of an infrastructure operation.
	RecordOperationDuration(start time.Time, component, operation string)

	// SetActiveSessions sets the active session gauge for a given agent.
	SetActiveSessions(agent string, value float64)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
