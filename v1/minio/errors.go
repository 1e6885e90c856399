package minio

import (
	"context"
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// Sentinel errors for the media storage client.
var (
	// ErrConnectionFailed is returned when the storage server cannot be reached
	ErrConnectionFailed = errors.New("[Minio] connection failed")

	// ErrInvalidConfig is returned when the client configuration is unusable
	ErrInvalidConfig = errors.New("[Minio] invalid config")

	// ErrBucketNotFound is returned when the media bucket does not exist
	ErrBucketNotFound = errors.New("[Minio] bucket not found")

	// ErrObjectNotFound is returned when a media object does not exist
	ErrObjectNotFound = errors.New("[Minio] object not found")

	// ErrAccessDenied is returned when credentials lack permission
	ErrAccessDenied = errors.New("[Minio] access denied")

	// ErrInvalidObjectKey is returned for empty or malformed object keys
	ErrInvalidObjectKey = errors.New("[Minio] invalid object key")

	// ErrUnavailable is returned for server-side failures and throttling
	ErrUnavailable = errors.New("[Minio] storage unavailable")
)

// TranslateError converts driver errors into the package sentinels.
// Errors that don't match any known response code are returned
// unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return ErrObjectNotFound
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrAccessDenied
	case "SlowDown", "InternalError", "ServiceUnavailable":
		return ErrUnavailable
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrObjectNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return ErrAccessDenied
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrUnavailable
	}

	return err
}

// IsRetryable returns true when the operation may succeed on retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrConnectionFailed)
}

// IsPermanent returns true for errors that will not resolve on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrBucketNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrInvalidObjectKey) ||
		errors.Is(err, ErrInvalidConfig)
}
