package profile

import (
	"os"
	"strconv"
	"time"
)

// Connection holds the PostgreSQL connection parameters.
type Connection struct {
	Host     string `yaml:"host" env:"PROFILE_DB_HOST"`
	Port     string `yaml:"port" env:"PROFILE_DB_PORT"`
	User     string `yaml:"user" env:"PROFILE_DB_USER"`
	Password string `yaml:"password" env:"PROFILE_DB_PASSWORD"`
	DbName   string `yaml:"db_name" env:"PROFILE_DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"PROFILE_DB_SSL_MODE"`
}

// Pool holds connection pool tuning parameters.
type Pool struct {
	MaxOpenConns    int           `yaml:"max_open_conns" env:"PROFILE_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"PROFILE_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PROFILE_DB_CONN_MAX_LIFETIME"`
}

// Config configures the profile store.
type Config struct {
	Connection Connection `yaml:"connection"`
	Pool       Pool       `yaml:"pool"`
}

// DefaultConfig provides sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Connection: Connection{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DbName:  "wellness",
			SSLMode: "disable",
		},
		Pool: Pool{
			MaxOpenConns:    50,
			MaxIdleConns:    25,
			ConnMaxLifetime: time.Minute,
		},
	}
}

// NewConfig reads from environment variables, falling back to defaults.
func NewConfig() Config {
	cfg := DefaultConfig()

	if host := os.Getenv("PROFILE_DB_HOST"); host != "" {
		cfg.Connection.Host = host
	}
	if port := os.Getenv("PROFILE_DB_PORT"); port != "" {
		cfg.Connection.Port = port
	}
	if user := os.Getenv("PROFILE_DB_USER"); user != "" {
		cfg.Connection.User = user
	}
	if password := os.Getenv("PROFILE_DB_PASSWORD"); password != "" {
		cfg.Connection.Password = password
	}
	if name := os.Getenv("PROFILE_DB_NAME"); name != "" {
		cfg.Connection.DbName = name
	}
	if mode := os.Getenv("PROFILE_DB_SSL_MODE"); mode != "" {
		cfg.Connection.SSLMode = mode
	}
	if maxOpen := os.Getenv("PROFILE_DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if n, err := strconv.Atoi(maxOpen); err == nil && n > 0 {
			cfg.Pool.MaxOpenConns = n
		}
	}

	return cfg
}
