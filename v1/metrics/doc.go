// Package metrics provides Prometheus-based monitoring for the wellness platform.
//
// It exposes a configurable /metrics endpoint, registers runtime collectors,
// ships built-in metrics for the platform's hot paths (agent message handling,
// infrastructure operation latency, active sessions), and integrates with the
// fx dependency injection framework for lifecycle management.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: Defines the contract for metrics operations
//   - Metrics struct: Concrete implementation of the MetricsCollector interface
//   - NewMetrics constructor: Returns *Metrics (concrete type)
//
// # Direct Usage (Without FX)
//
//	import "github.com/mindloft/wellness/v1/metrics"
//
//	cfg := metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "wellness-platform",
//	}
//
//	m := metrics.NewMetrics(cfg)
//	go m.Server.ListenAndServe()
//
//	// Use built-in metrics
//	m.IncrementAgentMessages("therapy", "success")
//	defer m.RecordOperationDuration(time.Now(), "qdrant", "search")
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Provide(metrics.NewConfig),
//		fx.Invoke(func(m *metrics.Metrics) {
//			m.IncrementAgentMessages("journaling", "success")
//		}),
//	)
//	app.Run()
//
// # Configuration
//
// The metrics server can be configured via environment variables:
//
//	METRICS_ADDRESS=:9090                      # Port and address for /metrics endpoint
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true     # Enable runtime and process metrics
//	METRICS_SERVICE_NAME=wellness-platform     # Adds service label to all metrics
//
// # Custom Metrics
//
// Applications can register additional Prometheus metrics through the Create*
// factories or directly on the exposed Registry:
//
//	insights := m.CreateCounter("pattern_insights_total",
//	    "Total pattern insights generated", []string{"user_tier"})
//	insights.WithLabelValues("standard").Inc()
//
// All methods on the Metrics struct are safe for concurrent use by multiple
// goroutines. Avoid unbounded label values to keep cardinality in check.
package metrics
