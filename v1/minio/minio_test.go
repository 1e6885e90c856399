package minio

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Connection.Endpoint != "localhost:9000" {
		t.Errorf("expected endpoint localhost:9000, got %s", cfg.Connection.Endpoint)
	}
	if cfg.Connection.BucketName != DefaultBucketName {
		t.Errorf("expected bucket %s, got %s", DefaultBucketName, cfg.Connection.BucketName)
	}
	if !cfg.Connection.AccessBucketCreation {
		t.Error("expected bucket creation to be allowed by default")
	}
	if cfg.PresignExpiry <= 0 {
		t.Error("expected a positive presign expiry")
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "storage.internal:9000")
	t.Setenv("MINIO_ACCESS_KEY", "wellness")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_BUCKET", "wellness-media-test")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := NewConfig()

	if cfg.Connection.Endpoint != "storage.internal:9000" {
		t.Errorf("expected env endpoint, got %s", cfg.Connection.Endpoint)
	}
	if cfg.Connection.AccessKeyID != "wellness" {
		t.Errorf("expected env access key, got %s", cfg.Connection.AccessKeyID)
	}
	if cfg.Connection.BucketName != "wellness-media-test" {
		t.Errorf("expected env bucket, got %s", cfg.Connection.BucketName)
	}
	if !cfg.Connection.UseSSL {
		t.Error("expected SSL enabled from env")
	}
}

func TestObjectKeyHelpers(t *testing.T) {
	audio := AudioObjectKey("user-1", "clip-9")
	if audio != "audio/user-1/clip-9.mp3" {
		t.Errorf("unexpected audio key: %s", audio)
	}

	video := VideoObjectKey("user-1", "session-4")
	if video != "video/user-1/session-4.mp4" {
		t.Errorf("unexpected video key: %s", video)
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil error", nil, nil},
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, ErrObjectNotFound},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, ErrBucketNotFound},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, ErrAccessDenied},
		{"bad credentials", minio.ErrorResponse{Code: "InvalidAccessKeyId", StatusCode: http.StatusForbidden}, ErrAccessDenied},
		{"throttled", minio.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, ErrUnavailable},
		{"server error", minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}, ErrUnavailable},
		{"status only 404", minio.ErrorResponse{Code: "SomethingElse", StatusCode: http.StatusNotFound}, ErrObjectNotFound},
		{"status only 401", minio.ErrorResponse{Code: "SomethingElse", StatusCode: http.StatusUnauthorized}, ErrAccessDenied},
		{"status only 429", minio.ErrorResponse{Code: "SomethingElse", StatusCode: http.StatusTooManyRequests}, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.input)
			if !errors.Is(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTranslateErrorPassesUnknownThrough(t *testing.T) {
	unknown := errors.New("something else entirely")
	if got := TranslateError(unknown); got != unknown {
		t.Errorf("expected unknown error unchanged, got %v", got)
	}
}

func TestErrorClassification(t *testing.T) {
	retryable := []error{ErrUnavailable, ErrConnectionFailed}
	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("expected %v to be retryable", err)
		}
		if IsPermanent(err) {
			t.Errorf("expected %v not to be permanent", err)
		}
	}

	permanent := []error{ErrObjectNotFound, ErrBucketNotFound, ErrAccessDenied, ErrInvalidObjectKey, ErrInvalidConfig}
	for _, err := range permanent {
		if !IsPermanent(err) {
			t.Errorf("expected %v to be permanent", err)
		}
		if IsRetryable(err) {
			t.Errorf("expected %v not to be retryable", err)
		}
	}

	if IsRetryable(context.Canceled) {
		t.Error("cancelled context must not be retryable")
	}
}

func TestOperationsRejectEmptyKey(t *testing.T) {
	m := &MinioClient{cfg: DefaultConfig(), bufferPool: NewBufferPool()}
	ctx := context.Background()

	if _, err := m.Put(ctx, "", bytes.NewReader(nil), 0, "audio/mpeg"); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("Put: expected ErrInvalidObjectKey, got %v", err)
	}
	if err := m.PutBytes(ctx, "", nil, "audio/mpeg"); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("PutBytes: expected ErrInvalidObjectKey, got %v", err)
	}
	if _, err := m.Get(ctx, ""); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("Get: expected ErrInvalidObjectKey, got %v", err)
	}
	if err := m.Delete(ctx, ""); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("Delete: expected ErrInvalidObjectKey, got %v", err)
	}
	if _, err := m.PreSignedGet(ctx, ""); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("PreSignedGet: expected ErrInvalidObjectKey, got %v", err)
	}
	if _, err := m.PreSignedPut(ctx, ""); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("PreSignedPut: expected ErrInvalidObjectKey, got %v", err)
	}
}

func TestOperationsWithoutConnection(t *testing.T) {
	m := &MinioClient{cfg: DefaultConfig(), bufferPool: NewBufferPool()}

	if _, err := m.Get(context.Background(), "audio/user/clip.mp3"); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("expected ErrConnectionFailed when no client is set, got %v", err)
	}
}

func TestBufferPoolDropsOversizedBuffers(t *testing.T) {
	bp := NewBufferPool()

	small := bp.Get()
	small.WriteString("audio payload")
	bp.Put(small)

	big := bytes.NewBuffer(make([]byte, 0, maxPooledBuffer+1))
	bp.Put(big) // should be discarded, not panic

	reused := bp.Get()
	if reused.Len() != 0 {
		t.Error("expected buffers from the pool to be reset")
	}
	if reused.Cap() > maxPooledBuffer {
		t.Error("oversized buffer should not have been retained")
	}
}

func TestPresignExpiryFallback(t *testing.T) {
	m := &MinioClient{cfg: Config{}}
	if got := m.presignExpiry(); got != defaultPresignExpiry {
		t.Errorf("expected fallback expiry %v, got %v", defaultPresignExpiry, got)
	}

	m.cfg.PresignExpiry = defaultPresignExpiry * 2
	if got := m.presignExpiry(); got != defaultPresignExpiry*2 {
		t.Errorf("expected configured expiry, got %v", got)
	}
}
