package tracer

import "os"

// Config holds configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName identifies this service in trace backends
	ServiceName string `yaml:"serviceName" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is the deployment environment (production, staging, development)
	AppEnv string `yaml:"appEnv" envconfig:"APP_ENV"`

	// EnableExport controls whether spans are exported over OTLP HTTP.
	// Exporter endpoint and headers come from the standard OTEL_EXPORTER_* variables.
	EnableExport bool `yaml:"enableExport" envconfig:"TRACER_ENABLE_EXPORT"`
}

// DefaultConfig returns a Config suitable for local development.
// Export is disabled by default so tests and local runs need no collector.
func DefaultConfig() Config {
	return Config{
		ServiceName:  "wellness",
		AppEnv:       "development",
		EnableExport: false,
	}
}

// NewConfig builds a Config from environment variables, falling back to defaults.
func NewConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("TRACER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if os.Getenv("TRACER_ENABLE_EXPORT") == "true" {
		cfg.EnableExport = true
	}
	return cfg
}
