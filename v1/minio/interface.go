package minio

import (
	"context"
	"io"
	"time"
)

// Client provides media storage for generated artifacts: TTS audio from
// therapy responses and video session recordings. Objects live under
// per-user key prefixes; user-facing access goes through presigned URLs.
//
// This interface is implemented by the concrete *MinioClient type.
type Client interface {
	// Bucket operations

	// EnsureBucket checks that the media bucket exists, creating it
	// when the configuration allows.
	EnsureBucket(ctx context.Context) error

	// Object operations

	// Put uploads a media object.
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (int64, error)

	// PutBytes uploads an in-memory media object, typical for TTS
	// audio returned as a byte slice.
	PutBytes(ctx context.Context, objectKey string, data []byte, contentType string) error

	// Get retrieves a media object's contents.
	Get(ctx context.Context, objectKey string) ([]byte, error)

	// Delete removes a media object.
	Delete(ctx context.Context, objectKey string) error

	// Presigned URL operations

	// PreSignedGet generates a time-limited download URL for handing
	// media to clients without proxying bytes.
	PreSignedGet(ctx context.Context, objectKey string) (string, error)

	// PreSignedPut generates a time-limited upload URL.
	PreSignedPut(ctx context.Context, objectKey string) (string, error)

	// Lifecycle

	// GracefulShutdown stops background connection monitoring.
	GracefulShutdown()
}

// Object key helpers. Media keys group by artifact kind, then user, so
// per-user cleanup is a prefix listing.

// AudioObjectKey returns the storage key for a synthesized therapy
// response clip.
func AudioObjectKey(userID, clipID string) string {
	return "audio/" + userID + "/" + clipID + ".mp3"
}

// VideoObjectKey returns the storage key for a recorded video session.
func VideoObjectKey(userID, sessionID string) string {
	return "video/" + userID + "/" + sessionID + ".mp4"
}

// defaultPresignExpiry bounds presigned URL lifetime when the config
// leaves it zero.
const defaultPresignExpiry = 15 * time.Minute
