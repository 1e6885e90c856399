package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Sentinel errors for Gemini API failures. Callers match with errors.Is
// and decide between retrying, surfacing, or failing over.
var (
	// ErrUnauthorized - invalid or missing API key (HTTP 401/403)
	ErrUnauthorized = errors.New("[Gemini] unauthorized")

	// ErrNotFound - unknown model or resource (HTTP 404)
	ErrNotFound = errors.New("[Gemini] not found")

	// ErrRateLimited - quota exceeded (HTTP 429)
	ErrRateLimited = errors.New("[Gemini] rate limited")

	// ErrUnavailable - provider-side failure (HTTP 5xx)
	ErrUnavailable = errors.New("[Gemini] service unavailable")

	// ErrEmptyResponse - the model returned no usable candidates
	ErrEmptyResponse = errors.New("[Gemini] empty response")
)

// TranslateError maps SDK errors onto the package sentinels, preserving the
// original error in the chain. Non-API errors pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case apiErr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case apiErr.Code >= 500:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}

// IsRetryable reports whether the operation may succeed on retry.
// Rate limits and provider outages are retryable; auth and not-found are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}

// IsTemporary reports whether the failure is expected to clear on its own.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsPermanent reports whether retrying cannot help.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound)
}
