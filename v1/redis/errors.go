package redis

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for the conversation cache client.
var (
	// ErrNotFound is returned when a key or conversation does not exist
	ErrNotFound = errors.New("[Redis] key not found")

	// ErrConnectionFailed is returned when the server cannot be reached
	ErrConnectionFailed = errors.New("[Redis] connection failed")

	// ErrClosed is returned when the client has been closed
	ErrClosed = errors.New("[Redis] client is closed")

	// ErrRateLimited is returned when a user's sliding window budget is spent
	ErrRateLimited = errors.New("[Redis] rate limit exceeded")

	// ErrInvalidKey is returned for empty user or conversation identifiers
	ErrInvalidKey = errors.New("[Redis] invalid key")

	// ErrEncodingFailed is returned when a cached value cannot be
	// marshalled or unmarshalled
	ErrEncodingFailed = errors.New("[Redis] encoding failed")
)

// TranslateError converts driver errors into the package sentinels.
// Errors that don't match are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrConnectionFailed
	}

	return err
}

// IsRetryable returns true when the operation may succeed on retry.
// Rate limit rejections are retryable once the window slides.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrRateLimited)
}

// IsPermanent returns true for errors that will not resolve on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrEncodingFailed) ||
		errors.Is(err, ErrClosed)
}
