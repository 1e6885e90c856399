package kafka

import (
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Wellness event types published on the stream. Downstream analytics
// consumers key off these.
const (
	EventJournalCreated   = "journal.created"
	EventSessionCompleted = "session.completed"
	EventInsightGenerated = "insight.generated"
	EventPlanUpdated      = "plan.updated"
)

// DefaultTopic is the append-only wellness event stream.
const DefaultTopic = "wellness.events"

// Defaults applied by NewClient when the corresponding Config field is
// zero.
const (
	DefaultMinBytes       = 10e3 // 10KB
	DefaultMaxBytes       = 10e6 // 10MB
	DefaultMaxWait        = 500 * time.Millisecond
	DefaultCommitInterval = time.Second
	DefaultStartOffset    = kafka.FirstOffset
	DefaultPartition      = -1
	DefaultRequiredAcks   = 1
	DefaultBatchSize      = 100
	DefaultBatchTimeout   = time.Second
	DefaultMaxAttempts    = 3
	DefaultWriteTimeout   = 10 * time.Second
)

// Logger matches the subset of v1/logger.Logger the client needs for
// driver-internal error reporting.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
}

// Config defines the configuration for the wellness event stream client.
type Config struct {
	// Brokers is the list of Kafka broker addresses
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`

	// Topic is the event stream topic
	Topic string `yaml:"topic" env:"KAFKA_TOPIC"`

	// GroupID is the consumer group for downstream consumers
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID"`

	// IsConsumer selects reader setup instead of writer setup
	IsConsumer bool `yaml:"is_consumer"`

	// Consumer tuning

	// MinBytes is the minimum batch size the broker should return
	MinBytes int `yaml:"min_bytes"`

	// MaxBytes is the maximum batch size the broker should return
	MaxBytes int `yaml:"max_bytes"`

	// MaxWait is how long the broker may wait to fill MinBytes
	MaxWait time.Duration `yaml:"max_wait"`

	// EnableAutoCommit enables periodic offset commits
	EnableAutoCommit bool `yaml:"enable_auto_commit"`

	// CommitInterval is the auto-commit period
	CommitInterval time.Duration `yaml:"commit_interval"`

	// StartOffset is where a new consumer group starts
	// (kafka.FirstOffset or kafka.LastOffset)
	StartOffset int64 `yaml:"start_offset"`

	// Partition pins the reader to one partition; -1 uses the group
	Partition int `yaml:"partition"`

	// Producer tuning

	// RequiredAcks is the number of broker acknowledgments required
	RequiredAcks int `yaml:"required_acks"`

	// Async enables fire-and-forget batched writes
	Async bool `yaml:"async"`

	// BatchSize is the number of messages per async batch
	BatchSize int `yaml:"batch_size"`

	// BatchTimeout flushes a partial async batch after this period
	BatchTimeout time.Duration `yaml:"batch_timeout"`

	// MaxAttempts is the number of write attempts before giving up
	MaxAttempts int `yaml:"max_attempts"`

	// WriteTimeout bounds a single write operation
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// CompressionCodec selects message compression:
	// "gzip", "snappy", "lz4", "zstd", or empty for none
	CompressionCodec string `yaml:"compression_codec"`

	// TLS contains transport security settings
	TLS TLSConfig `yaml:"tls"`

	// SASL contains authentication settings
	SASL SASLConfig `yaml:"sasl"`

	// Logger receives driver-internal errors when set
	Logger Logger `yaml:"-"`
}

// TLSConfig contains transport security settings for broker connections.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	CACertPath         string `yaml:"ca_cert_path"`
	ClientCertPath     string `yaml:"client_cert_path"`
	ClientKeyPath      string `yaml:"client_key_path"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// SASLConfig contains authentication settings for broker connections.
type SASLConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Mechanism string `yaml:"mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// DefaultConfig returns a producer configuration for the wellness event
// stream against a local broker.
func DefaultConfig() Config {
	return Config{
		Brokers: []string{"localhost:9092"},
		Topic:   DefaultTopic,
	}
}

// NewConfig builds a Config from the environment, falling back to
// DefaultConfig values for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Brokers = strings.Split(brokers, ",")
	}
	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		cfg.Topic = topic
	}
	if group := os.Getenv("KAFKA_GROUP_ID"); group != "" {
		cfg.GroupID = group
	}

	return cfg
}
