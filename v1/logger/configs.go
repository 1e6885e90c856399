package logger

import "os"

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level sets the minimum log level (debug, info, warning, error)
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every log entry as the "service" field
	ServiceName string `yaml:"serviceName" envconfig:"LOGGER_SERVICE_NAME"`

	// EnableTracing controls whether *WithContext methods extract
	// trace/span IDs from the context and attach them to entries
	EnableTracing bool `yaml:"enableTracing" envconfig:"LOGGER_ENABLE_TRACING"`
}

// DefaultConfig returns a Config suitable for local development.
func DefaultConfig() Config {
	return Config{
		Level:         Info,
		ServiceName:   "wellness",
		EnableTracing: false,
	}
}

// NewConfig builds a Config from environment variables, falling back to defaults.
func NewConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ZAP_LOGGER_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOGGER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if os.Getenv("LOGGER_ENABLE_TRACING") == "true" {
		cfg.EnableTracing = true
	}
	return cfg
}
