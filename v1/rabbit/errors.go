package rabbit

import (
	"errors"
	"net"
	"strings"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sentinel errors for the agent bus. They abstract away the underlying
// AMQP error details so callers can classify failures without importing
// the driver.
var (
	// ErrConnectionFailed is returned when the broker cannot be reached
	ErrConnectionFailed = errors.New("[Rabbit] connection failed")

	// ErrConnectionLost is returned when an established connection drops
	ErrConnectionLost = errors.New("[Rabbit] connection lost")

	// ErrConnectionClosed is returned when the connection is closed
	ErrConnectionClosed = errors.New("[Rabbit] connection closed")

	// ErrChannelClosed is returned when the channel is closed
	ErrChannelClosed = errors.New("[Rabbit] channel closed")

	// ErrAccessDenied is returned on authentication or authorization failure
	ErrAccessDenied = errors.New("[Rabbit] access denied")

	// ErrExchangeNotFound is returned when the exchange doesn't exist
	ErrExchangeNotFound = errors.New("[Rabbit] exchange not found")

	// ErrQueueNotFound is returned when the queue doesn't exist
	ErrQueueNotFound = errors.New("[Rabbit] queue not found")

	// ErrPreconditionFailed is returned when a declare conflicts with
	// existing topology (e.g. a queue redeclared with different arguments)
	ErrPreconditionFailed = errors.New("[Rabbit] precondition failed")

	// ErrResourceLocked is returned when a queue is locked by another consumer
	ErrResourceLocked = errors.New("[Rabbit] resource locked")

	// ErrMessageTooLarge is returned when a message exceeds broker limits
	ErrMessageTooLarge = errors.New("[Rabbit] message too large")

	// ErrPublishFailed is returned when a message cannot be routed
	ErrPublishFailed = errors.New("[Rabbit] publish failed")

	// ErrInvalidArgument is returned for invalid topology or publish arguments
	ErrInvalidArgument = errors.New("[Rabbit] invalid argument")

	// ErrTimeout is returned when an operation times out
	ErrTimeout = errors.New("[Rabbit] timeout")

	// ErrNetworkError is returned for network-level failures
	ErrNetworkError = errors.New("[Rabbit] network error")

	// ErrInternalError is returned for broker-internal failures
	ErrInternalError = errors.New("[Rabbit] internal error")

	// ErrShutdown is returned when the client is shutting down
	ErrShutdown = errors.New("[Rabbit] shutdown")
)

// TranslateError converts AMQP driver errors into the package sentinels.
// Errors that don't match any known pattern are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		return translateAMQPError(amqpErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkError
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		return translateSyscallError(syscallErr)
	}

	return translateByErrorMessage(err)
}

// translateAMQPError maps AMQP reply codes to the package sentinels.
func translateAMQPError(amqpErr *amqp.Error) error {
	switch amqpErr.Code {
	case amqp.ConnectionForced:
		return ErrConnectionClosed
	case amqp.AccessRefused:
		return ErrAccessDenied
	case amqp.NotFound:
		reason := strings.ToLower(amqpErr.Reason)
		if strings.Contains(reason, "exchange") {
			return ErrExchangeNotFound
		}
		return ErrQueueNotFound
	case amqp.ResourceLocked:
		return ErrResourceLocked
	case amqp.PreconditionFailed:
		return ErrPreconditionFailed
	case amqp.ContentTooLarge:
		return ErrMessageTooLarge
	case amqp.NoRoute, amqp.NoConsumers:
		return ErrPublishFailed
	case amqp.ChannelError:
		return ErrChannelClosed
	case amqp.InternalError, amqp.ResourceError:
		return ErrInternalError
	case amqp.InvalidPath, amqp.SyntaxError, amqp.CommandInvalid, amqp.NotAllowed, amqp.NotImplemented:
		return ErrInvalidArgument
	default:
		return translateByErrorMessage(amqpErr)
	}
}

// translateSyscallError maps syscall errors to the package sentinels.
func translateSyscallError(errno syscall.Errno) error {
	switch errno {
	case syscall.ECONNREFUSED:
		return ErrConnectionFailed
	case syscall.ECONNRESET, syscall.ECONNABORTED, syscall.EPIPE, syscall.ENOTCONN:
		return ErrConnectionLost
	case syscall.ETIMEDOUT:
		return ErrTimeout
	case syscall.EACCES, syscall.EPERM:
		return ErrAccessDenied
	case syscall.EINVAL:
		return ErrInvalidArgument
	default:
		return ErrNetworkError
	}
}

// translateByErrorMessage is the string-matching fallback for errors that
// carry no typed information.
func translateByErrorMessage(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(msg, "connection reset"), strings.Contains(msg, "connection lost"):
		return ErrConnectionLost
	case strings.Contains(msg, "connection closed"):
		return ErrConnectionClosed
	case strings.Contains(msg, "channel/connection is not open"), strings.Contains(msg, "channel closed"):
		return ErrChannelClosed
	case strings.Contains(msg, "access refused"), strings.Contains(msg, "access denied"),
		strings.Contains(msg, "authentication failed"), strings.Contains(msg, "login refused"):
		return ErrAccessDenied
	case strings.Contains(msg, "exchange") && strings.Contains(msg, "not found"):
		return ErrExchangeNotFound
	case strings.Contains(msg, "queue") && strings.Contains(msg, "not found"):
		return ErrQueueNotFound
	case strings.Contains(msg, "precondition failed"):
		return ErrPreconditionFailed
	case strings.Contains(msg, "resource locked"):
		return ErrResourceLocked
	case strings.Contains(msg, "too large"):
		return ErrMessageTooLarge
	case strings.Contains(msg, "no route"), strings.Contains(msg, "no consumers"):
		return ErrPublishFailed
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return ErrTimeout
	case strings.Contains(msg, "shutdown"):
		return ErrShutdown
	case strings.Contains(msg, "internal error"):
		return ErrInternalError
	default:
		return err
	}
}

// IsRetryable returns true when the operation may succeed on retry,
// typically after the connection has been re-established.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrConnectionLost),
		errors.Is(err, ErrConnectionClosed),
		errors.Is(err, ErrChannelClosed),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrNetworkError),
		errors.Is(err, ErrInternalError):
		return true
	default:
		return false
	}
}

// IsTemporary returns true for transient conditions that usually resolve
// without intervention.
func IsTemporary(err error) bool {
	return IsRetryable(err) ||
		errors.Is(err, ErrResourceLocked) ||
		errors.Is(err, ErrPublishFailed)
}

// IsPermanent returns true for errors that will not resolve on retry,
// such as authorization failures and topology mismatches.
func IsPermanent(err error) bool {
	switch {
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrExchangeNotFound),
		errors.Is(err, ErrQueueNotFound),
		errors.Is(err, ErrPreconditionFailed),
		errors.Is(err, ErrMessageTooLarge),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrShutdown):
		return true
	default:
		return false
	}
}
