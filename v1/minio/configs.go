package minio

import (
	"context"
	"os"
	"time"
)

// connectionHealthCheckInterval is how often the background monitor
// validates the connection.
const connectionHealthCheckInterval = 30 * time.Second

// DefaultBucketName holds the generated media artifacts: TTS audio from
// therapy responses and recorded video sessions.
const DefaultBucketName = "wellness-media"

// Config defines the configuration for the media storage client.
type Config struct {
	// Connection contains the settings needed to reach the storage server
	Connection Connection

	// PresignExpiry is how long presigned media URLs stay valid
	PresignExpiry time.Duration `yaml:"presign_expiry"`
}

// Connection contains the parameters for an S3-compatible endpoint.
type Connection struct {
	// Endpoint is the storage server address (host:port)
	Endpoint string `yaml:"endpoint" env:"MINIO_ENDPOINT"`

	// AccessKeyID is the access key for authentication
	AccessKeyID string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY"`

	// SecretAccessKey is the secret key for authentication
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_KEY"`

	// UseSSL enables TLS for the connection
	UseSSL bool `yaml:"use_ssl" env:"MINIO_USE_SSL"`

	// Region is the bucket region
	Region string `yaml:"region" env:"MINIO_REGION"`

	// BucketName is the media bucket
	BucketName string `yaml:"bucket_name" env:"MINIO_BUCKET"`

	// AccessBucketCreation allows the client to create the bucket when
	// it does not exist. Disable when credentials are read-mostly.
	AccessBucketCreation bool `yaml:"access_bucket_creation"`
}

// DefaultConfig returns a configuration for a local storage server and
// the media bucket.
func DefaultConfig() Config {
	return Config{
		Connection: Connection{
			Endpoint:             "localhost:9000",
			AccessKeyID:          "minioadmin",
			SecretAccessKey:      "minioadmin",
			BucketName:           DefaultBucketName,
			AccessBucketCreation: true,
		},
		PresignExpiry: 15 * time.Minute,
	}
}

// NewConfig builds a Config from the environment, falling back to
// DefaultConfig values for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		cfg.Connection.Endpoint = endpoint
	}
	if accessKey := os.Getenv("MINIO_ACCESS_KEY"); accessKey != "" {
		cfg.Connection.AccessKeyID = accessKey
	}
	if secretKey := os.Getenv("MINIO_SECRET_KEY"); secretKey != "" {
		cfg.Connection.SecretAccessKey = secretKey
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		cfg.Connection.BucketName = bucket
	}
	if os.Getenv("MINIO_USE_SSL") == "true" {
		cfg.Connection.UseSSL = true
	}

	return cfg
}

// Logger is an interface that matches the v1/logger.Logger interface.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
