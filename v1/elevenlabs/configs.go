package elevenlabs

import (
	"fmt"
	"os"
	"time"
)

// Config holds the settings for the speech synthesis client.
type Config struct {
	// APIKey authenticates against the ElevenLabs API
	APIKey string `yaml:"api_key" env:"ELEVENLABS_API_KEY"`

	// BaseURL is the API root, overridable for tests
	BaseURL string `yaml:"base_url" env:"ELEVENLABS_BASE_URL"`

	// ModelID is the synthesis model used for all requests
	ModelID string `yaml:"model_id" env:"ELEVENLABS_MODEL_ID"`

	// HTTPTimeout bounds each API call. Synthesis of long therapy
	// responses can take tens of seconds.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// DefaultConfig provides the production API endpoint and model.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.elevenlabs.io/v1",
		ModelID:     "eleven_multilingual_v2",
		HTTPTimeout: 60 * time.Second,
	}
}

// NewConfig reads from environment variables, falling back to defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	cfg.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	if base := os.Getenv("ELEVENLABS_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	if model := os.Getenv("ELEVENLABS_MODEL_ID"); model != "" {
		cfg.ModelID = model
	}

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("elevenlabs: missing ELEVENLABS_API_KEY")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("elevenlabs: missing base URL")
	}
	if c.ModelID == "" {
		return fmt.Errorf("elevenlabs: missing model ID")
	}
	return nil
}
