package redis

import (
	"os"
	"strconv"
	"time"
)

// Config defines the configuration for the conversation cache client.
type Config struct {
	// Host is the Redis server hostname or IP address
	Host string `yaml:"host" env:"REDIS_HOST"`

	// Port is the Redis server port
	Port int `yaml:"port" env:"REDIS_PORT"`

	// Username is the username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username" env:"REDIS_USERNAME"`

	// Password is the password for authentication
	Password string `yaml:"password" env:"REDIS_PASSWORD"`

	// DB is the database number to use
	DB int `yaml:"db" env:"REDIS_DB"`

	// PoolSize is the maximum number of socket connections.
	// Zero lets the driver pick 10 per CPU.
	PoolSize int `yaml:"pool_size"`

	// MinIdleConns is the minimum number of idle connections to maintain
	MinIdleConns int `yaml:"min_idle_conns"`

	// MaxRetries is the maximum number of command retries before giving up
	MaxRetries int `yaml:"max_retries"`

	// MinRetryBackoff is the minimum backoff between retries
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff"`

	// MaxRetryBackoff is the maximum backoff between retries
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff"`

	// DialTimeout is the timeout for establishing new connections
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the timeout for socket writes.
	// Zero means ReadTimeout.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the duration after which idle connections are closed
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// Cache tunes conversation context retention
	Cache CacheConfig `yaml:"cache"`

	// RateLimit tunes the per-user sliding window limiter
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger from v1/logger
	Logger Logger `yaml:"-"`
}

// CacheConfig tunes how much conversation context is kept per user and
// agent, and for how long.
type CacheConfig struct {
	// ConversationTTL is how long a conversation survives without new
	// turns. Every appended turn resets the clock.
	ConversationTTL time.Duration `yaml:"conversation_ttl"`

	// MaxTurns caps the number of turns retained per conversation.
	// Oldest turns are trimmed first.
	MaxTurns int `yaml:"max_turns"`
}

// RateLimitConfig tunes the default sliding window applied to user
// requests. AllowN accepts explicit limits for callers that need
// different budgets.
type RateLimitConfig struct {
	// Limit is the maximum number of requests per window
	Limit int64 `yaml:"limit"`

	// Window is the sliding window length
	Window time.Duration `yaml:"window"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path"`

	// InsecureSkipVerify skips verification of the server certificate.
	// Testing only.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// ServerName is used to verify the hostname on the returned
	// certificates. If empty, Host is used.
	ServerName string `yaml:"server_name"`
}

// Logger is an interface that matches the v1/logger.Logger interface.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute

	// DefaultConversationTTL keeps an idle conversation for a day; the
	// durable record lives in the profile store, this is working
	// context only.
	DefaultConversationTTL = 24 * time.Hour

	// DefaultMaxTurns bounds the context window handed to the language
	// model.
	DefaultMaxTurns = 50

	// DefaultRateLimit / DefaultRateLimitWindow allow 30 requests per
	// user per minute.
	DefaultRateLimit       = 30
	DefaultRateLimitWindow = time.Minute
)

// DefaultConfig returns a configuration for a local Redis instance with
// the platform's cache and rate limit defaults.
func DefaultConfig() Config {
	return Config{
		Host: DefaultHost,
		Port: DefaultPort,
		Cache: CacheConfig{
			ConversationTTL: DefaultConversationTTL,
			MaxTurns:        DefaultMaxTurns,
		},
		RateLimit: RateLimitConfig{
			Limit:  DefaultRateLimit,
			Window: DefaultRateLimitWindow,
		},
	}
}

// NewConfig builds a Config from the environment, falling back to
// DefaultConfig values for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("REDIS_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			cfg.DB = d
		}
	}

	return cfg
}
