package rabbit

import (
	"context"
	"os"
	"strconv"
)

// Default topology for the agent bus. Agents publish to a single direct
// exchange; each agent owns one durable queue bound with its own name as
// routing key. Poison messages land on the shared dead-letter queue.
const (
	DefaultExchangeName = "wellness.agents"
	DefaultExchangeType = "direct"

	DefaultDeadLetterExchange   = "wellness.agents.dlx"
	DefaultDeadLetterQueue      = "wellness.agents.dlq"
	DefaultDeadLetterRoutingKey = "dead-letter"
)

// Config defines the top-level configuration for the agent message bus.
type Config struct {
	// Connection contains the settings needed to reach the RabbitMQ server
	Connection Connection

	// Channel contains exchange, queue, and delivery settings
	Channel Channel

	// DeadLetter configures the dead-letter exchange and queue that
	// receive rejected or expired agent messages
	DeadLetter DeadLetter
}

// Connection contains the parameters needed to establish a connection to
// a RabbitMQ server, including authentication and TLS settings.
type Connection struct {
	// Host is the RabbitMQ server hostname or IP address
	Host string `yaml:"host" env:"RABBIT_HOST"`

	// Port is the RabbitMQ server port (5672 for plain AMQP, 5671 for TLS)
	Port uint `yaml:"port" env:"RABBIT_PORT"`

	// User is the RabbitMQ username for authentication
	User string `yaml:"user" env:"RABBIT_USER"`

	// Password is the RabbitMQ password for authentication
	Password string `yaml:"password" env:"RABBIT_PASSWORD"`

	// IsSSLEnabled switches the connection to the amqps protocol
	IsSSLEnabled bool `yaml:"ssl_enabled" env:"RABBIT_SSL_ENABLED"`

	// UseCert enables mutual TLS with a client certificate
	UseCert bool `yaml:"use_cert" env:"RABBIT_USE_CERT"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path" env:"RABBIT_CA_CERT_PATH"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path" env:"RABBIT_CLIENT_CERT_PATH"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path" env:"RABBIT_CLIENT_KEY_PATH"`

	// ServerName is the server name used for TLS verification
	ServerName string `yaml:"server_name" env:"RABBIT_SERVER_NAME"`
}

// Channel contains exchange and delivery configuration for the bus.
type Channel struct {
	// ExchangeName is the exchange all agent messages flow through
	ExchangeName string `yaml:"exchange_name" env:"RABBIT_EXCHANGE"`

	// ExchangeType defines the routing behavior of the exchange.
	// The agent bus uses "direct": routing key == recipient agent name.
	ExchangeType string `yaml:"exchange_type" env:"RABBIT_EXCHANGE_TYPE"`

	// QueueName is an optional default queue declared and bound at
	// connect time. Per-agent queues are declared through DeclareQueue.
	QueueName string `yaml:"queue_name" env:"RABBIT_QUEUE"`

	// RoutingKey is the binding key for the default queue and the
	// routing key used by Publish when no explicit key is given
	RoutingKey string `yaml:"routing_key" env:"RABBIT_ROUTING_KEY"`

	// DelayToReconnect is the time in milliseconds between reconnection attempts
	DelayToReconnect int `yaml:"delay_to_reconnect"`

	// PrefetchCount limits unacknowledged deliveries per consumer.
	// Zero means no limit.
	PrefetchCount int `yaml:"prefetch_count"`

	// IsConsumer determines whether this client declares topology on
	// connect. Publishers that rely on existing topology set it false.
	IsConsumer bool `yaml:"is_consumer"`

	// ContentType is the MIME type stamped on published messages
	ContentType string `yaml:"content_type"`
}

// DeadLetter configures dead-letter handling for agent queues. Messages
// that are rejected without requeue or exceed the TTL are routed here so
// poison messages never block an agent's queue.
type DeadLetter struct {
	// ExchangeName is the name of the dead-letter exchange
	ExchangeName string `yaml:"exchange_name"`

	// QueueName is the queue bound to the dead-letter exchange
	QueueName string `yaml:"queue_name"`

	// RoutingKey is the key used when dead-lettering messages
	RoutingKey string `yaml:"routing_key"`

	// Ttl is the time-to-live for queued messages in seconds.
	// Zero disables the TTL.
	Ttl int `yaml:"ttl"`
}

// DefaultConfig returns a Config wired for the agent bus topology against
// a local broker.
func DefaultConfig() Config {
	return Config{
		Connection: Connection{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		Channel: Channel{
			ExchangeName:     DefaultExchangeName,
			ExchangeType:     DefaultExchangeType,
			DelayToReconnect: 1000,
			PrefetchCount:    10,
			IsConsumer:       true,
			ContentType:      "application/json",
		},
		DeadLetter: DeadLetter{
			ExchangeName: DefaultDeadLetterExchange,
			QueueName:    DefaultDeadLetterQueue,
			RoutingKey:   DefaultDeadLetterRoutingKey,
			Ttl:          3600,
		},
	}
}

// NewConfig builds a Config from the environment, falling back to
// DefaultConfig values for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if host := os.Getenv("RABBIT_HOST"); host != "" {
		cfg.Connection.Host = host
	}
	if port := os.Getenv("RABBIT_PORT"); port != "" {
		if p, err := strconv.ParseUint(port, 10, 16); err == nil {
			cfg.Connection.Port = uint(p)
		}
	}
	if user := os.Getenv("RABBIT_USER"); user != "" {
		cfg.Connection.User = user
	}
	if password := os.Getenv("RABBIT_PASSWORD"); password != "" {
		cfg.Connection.Password = password
	}
	if exchange := os.Getenv("RABBIT_EXCHANGE"); exchange != "" {
		cfg.Channel.ExchangeName = exchange
	}

	return cfg
}

// Logger is an interface that matches the v1/logger.Logger interface.
// It provides context-aware structured logging with optional error and
// field parameters.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
