package gemini

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// APIKey authenticates against the Gemini API
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`

	// ChatModel is the model used for agent conversations
	ChatModel string `yaml:"chat_model" env:"GEMINI_CHAT_MODEL"`

	// EmbeddingModel is the model used for text embeddings
	EmbeddingModel string `yaml:"embedding_model" env:"GEMINI_EMBEDDING_MODEL"`

	// MaxRetries bounds retry attempts for rate-limited or unavailable calls
	MaxRetries int `yaml:"max_retries" env:"GEMINI_MAX_RETRIES"`

	// RetryBaseDelay is the initial backoff delay, doubled per attempt
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" env:"GEMINI_RETRY_BASE_DELAY"`

	// Temperature is the default sampling temperature for chat calls
	Temperature float32 `yaml:"temperature" env:"GEMINI_TEMPERATURE"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		ChatModel:      "gemini-2.0-flash",
		EmbeddingModel: "text-embedding-004",
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
		Temperature:    0.7,
	}
}

// NewConfig reads from environment variables, falling back to defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	if model := os.Getenv("GEMINI_CHAT_MODEL"); model != "" {
		cfg.ChatModel = model
	}
	if model := os.Getenv("GEMINI_EMBEDDING_MODEL"); model != "" {
		cfg.EmbeddingModel = model
	}
	if retries := os.Getenv("GEMINI_MAX_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("gemini: missing GEMINI_API_KEY")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("gemini: missing chat model")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("gemini: missing embedding model")
	}
	return nil
}
