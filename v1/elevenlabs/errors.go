package elevenlabs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for speech synthesis failures. Callers match with
// errors.Is and decide between retrying, surfacing, or degrading to a
// text-only response.
var (
	// ErrUnauthorized - invalid or missing API key (HTTP 401/403)
	ErrUnauthorized = errors.New("[ElevenLabs] unauthorized")

	// ErrNotFound - unknown voice or resource (HTTP 404)
	ErrNotFound = errors.New("[ElevenLabs] not found")

	// ErrRateLimited - quota exceeded (HTTP 429)
	ErrRateLimited = errors.New("[ElevenLabs] rate limited")

	// ErrUnavailable - provider-side failure (HTTP 5xx)
	ErrUnavailable = errors.New("[ElevenLabs] service unavailable")

	// ErrEmptyText - nothing to synthesize
	ErrEmptyText = errors.New("[ElevenLabs] empty text")

	// ErrEmptyAudio - the API returned no audio payload
	ErrEmptyAudio = errors.New("[ElevenLabs] empty audio response")
)

// translateStatus maps an HTTP status code onto the package sentinels.
// 2xx returns nil; unmapped codes become a plain error carrying the
// status.
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
		return fmt.Errorf("[ElevenLabs] http %d: %s", status, body)
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
		errors.Is(err, ErrEmptyText)
}
