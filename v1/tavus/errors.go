package tavus

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for video session failures.
var (
	// ErrUnauthorized - invalid or missing API key (HTTP 401/403)
	ErrUnauthorized = errors.New("[Tavus] unauthorized")

	// ErrNotFound - unknown conversation or replica (HTTP 404)
	ErrNotFound = errors.New("[Tavus] not found")

	// ErrRateLimited - quota exceeded (HTTP 429)
	ErrRateLimited = errors.New("[Tavus] rate limited")

	// ErrUnavailable - provider-side failure (HTTP 5xx)
	ErrUnavailable = errors.New("[Tavus] service unavailable")

	// ErrMissingReplica - no replica configured or supplied
	ErrMissingReplica = errors.New("[Tavus] missing replica ID")
)

// translateStatus maps an HTTP status code onto the package sentinels.
func translateStatus(status int, body string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", ErrUnauthorized, status, body)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: http %d: %s", ErrNotFound, status, body)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http %d: %s", ErrRateLimited, status, body)
	case status >= 500:
		return fmt.Errorf("%w: http %d: %s", ErrUnavailable, status, body)
	default:
		return fmt.Errorf("[Tavus] http %d: %s", status, body)
	}
}

// IsRetryable reports whether the operation may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}

// IsTemporary reports whether the failure is expected to clear on its own.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsPermanent reports whether retrying cannot help.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingReplica)
}
