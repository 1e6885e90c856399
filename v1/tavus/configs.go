package tavus

import (
	"fmt"
	"os"
	"time"
)

// Config holds the settings for the video session client.
type Config struct {
	// APIKey authenticates against the Tavus API
	APIKey string `yaml:"api_key" env:"TAVUS_API_KEY"`

	// BaseURL is the API root, overridable for tests
	BaseURL string `yaml:"base_url" env:"TAVUS_BASE_URL"`

	// ReplicaID is the default avatar replica used for sessions
	ReplicaID string `yaml:"replica_id" env:"TAVUS_REPLICA_ID"`

	// PersonaID is the default conversational persona
	PersonaID string `yaml:"persona_id" env:"TAVUS_PERSONA_ID"`

	// HTTPTimeout bounds each API call
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// DefaultConfig provides the production API endpoint.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://tavusapi.com/v2",
		HTTPTimeout: 30 * time.Second,
	}
}

// NewConfig reads from environment variables, falling back to defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	cfg.APIKey = os.Getenv("TAVUS_API_KEY")
	if base := os.Getenv("TAVUS_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	cfg.ReplicaID = os.Getenv("TAVUS_REPLICA_ID")
	cfg.PersonaID = os.Getenv("TAVUS_PERSONA_ID")

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("tavus: missing TAVUS_API_KEY")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("tavus: missing base URL")
	}
	return nil
}
