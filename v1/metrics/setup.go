package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing platform metrics.
//
// Each service maintains its own isolated registry to prevent metric name
// collisions when multiple services run in the same process.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	// Core built-in metrics
	agentMessagesTotal *prometheus.CounterVec
	operationsTotal    *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	activeSessions     *prometheus.GaugeVec
}

// NewMetrics initializes and returns a new instance of the Metrics struct.
// It sets up a dedicated Prometheus registry, registers default system
// collectors, wraps all metrics with a constant `service` label, and creates
// an HTTP server exposing the /metrics endpoint.
//
// The built-in metrics cover the platform's hot paths:
//   - agent_messages_total{agent,status}: messages handled per agent
//   - operations_total{component,operation,status}: infra operation outcomes
//   - operation_duration_seconds{component,operation}: infra operation latency
//   - active_sessions{agent}: currently open conversation sessions
//
// Example:
//
//	cfg := metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "wellness-platform",
//	    EnableDefaultCollectors: true,
//	}
//	m := metrics.NewMetrics(cfg)
//	go m.Server.ListenAndServe()
//
// Access metrics at: http://localhost:9090/metrics
func NewMetrics(cfg Config) *Metrics {
	// Isolated registry per service.
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically include the label:
	//   service="<cfg.ServiceName>"
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.agentMessagesTotal = createCounterVec("agent_messages_total", "Total number of agent messages handled", []string{"agent", "status"})
	m.operationsTotal = createCounterVec("operations_total", "Total number of infrastructure operations by outcome", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec("operation_duration_seconds", "Duration of infrastructure operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.activeSessions = createGaugeVec("active_sessions", "Number of currently active conversation sessions", []string{"agent"})

	wrappedRegistry.MustRegister(
		m.agentMessagesTotal,
		m.operationsTotal,
		m.operationDuration,
		m.activeSessions,
	)

	// Standard runtime collectors:
	//   - GoCollector: memory usage, goroutines, GC stats
	//   - ProcessCollector: CPU, file descriptors, memory stats
	//   - BuildInfoCollector: binary version/build info
	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	m.Server = server
	return m
}
