package kafka

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors for the event stream client.
var (
	// ErrInvalidEvent is returned when an event fails validation
	ErrInvalidEvent = errors.New("[Kafka] invalid event")

	// ErrInvalidConfig is returned when the client configuration is unusable
	ErrInvalidConfig = errors.New("[Kafka] invalid config")

	// ErrNotProducer is returned when a publish is attempted on a
	// consumer-configured client
	ErrNotProducer = errors.New("[Kafka] client is not configured as a producer")

	// ErrNotConsumer is returned when a consume is attempted on a
	// producer-configured client
	ErrNotConsumer = errors.New("[Kafka] client is not configured as a consumer")

	// ErrPublishFailed is returned when an event cannot be written
	ErrPublishFailed = errors.New("[Kafka] publish failed")

	// ErrDecodeFailed is returned when a consumed message is not a
	// valid event
	ErrDecodeFailed = errors.New("[Kafka] decode failed")

	// ErrShutdown is returned when the client is shutting down
	ErrShutdown = errors.New("[Kafka] shutdown")
)

// IsRetryable returns true when the operation may succeed on retry.
// Network failures and broker unavailability are retryable; validation
// and decode failures are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidEvent) || errors.Is(err, ErrDecodeFailed) ||
		errors.Is(err, ErrNotProducer) || errors.Is(err, ErrNotConsumer) ||
		errors.Is(err, ErrShutdown) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, ErrPublishFailed)
}

// IsPermanent returns true for errors that will not resolve on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrDecodeFailed) ||
		errors.Is(err, ErrNotProducer) ||
		errors.Is(err, ErrNotConsumer)
}
