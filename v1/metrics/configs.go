package metrics

import "os"

// Config holds configuration for the Prometheus metrics server.
type Config struct {
	// Address is the listen address for the /metrics endpoint (e.g. ":9090")
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// ServiceName is applied as a constant "service" label to all metrics
	ServiceName string `yaml:"serviceName" envconfig:"METRICS_SERVICE_NAME"`

	// EnableDefaultCollectors registers the Go, process, and build info collectors
	EnableDefaultCollectors bool `yaml:"enableDefaultCollectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}

// DefaultConfig returns a Config suitable for local development.
func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		ServiceName:             "wellness",
		EnableDefaultCollectors: true,
	}
}

// NewConfig builds a Config from environment variables, falling back to defaults.
func NewConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("METRICS_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS") == "false" {
		cfg.EnableDefaultCollectors = false
	}
	return cfg
}
