package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// Put uploads a media object to the bucket. Size must be the exact
// object length; use PutBytes for in-memory payloads.
func (m *MinioClient) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (int64, error) {
	if objectKey == "" {
		return 0, ErrInvalidObjectKey
	}

	c := m.client.Load()
	if c == nil {
		return 0, ErrConnectionFailed
	}

	start := time.Now()
	info, err := c.PutObject(ctx, m.cfg.Connection.BucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	err = TranslateError(err)
	m.observeOperation("put", "", objectKey, time.Since(start), err, info.Size, nil)

	if err != nil {
		return 0, fmt.Errorf("failed to store object %q: %w", objectKey, err)
	}
	return info.Size, nil
}

// PutBytes uploads an in-memory media object, typical for TTS audio
// returned by the speech service as a byte slice.
func (m *MinioClient) PutBytes(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := m.Put(ctx, objectKey, bytes.NewReader(data), int64(len(data)), contentType)
	return err
}

// Get retrieves a media object's contents. Reads go through the buffer
// pool so repeated audio fetches reuse memory.
func (m *MinioClient) Get(ctx context.Context, objectKey string) ([]byte, error) {
	if objectKey == "" {
		return nil, ErrInvalidObjectKey
	}

	c := m.client.Load()
	if c == nil {
		return nil, ErrConnectionFailed
	}

	start := time.Now()
	obj, err := c.GetObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		err = TranslateError(err)
		m.observeOperation("get", "", objectKey, time.Since(start), err, 0, nil)
		return nil, fmt.Errorf("failed to fetch object %q: %w", objectKey, err)
	}
	defer obj.Close()

	buf := m.bufferPool.Get()
	defer m.bufferPool.Put(buf)

	// GetObject is lazy; the first read surfaces NoSuchKey.
	n, err := buf.ReadFrom(obj)
	err = TranslateError(err)
	m.observeOperation("get", "", objectKey, time.Since(start), err, n, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", objectKey, err)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}

// Delete removes a media object. Deleting a missing object is not an
// error, matching S3 semantics.
func (m *MinioClient) Delete(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return ErrInvalidObjectKey
	}

	c := m.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	start := time.Now()
	err := c.RemoveObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.RemoveObjectOptions{})
	err = TranslateError(err)
	m.observeOperation("delete", "", objectKey, time.Since(start), err, 0, nil)

	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", objectKey, err)
	}
	return nil
}

// PreSignedGet generates a time-limited download URL so clients can
// fetch media directly without the platform proxying bytes.
func (m *MinioClient) PreSignedGet(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", ErrInvalidObjectKey
	}

	c := m.client.Load()
	if c == nil {
		return "", ErrConnectionFailed
	}

	start := time.Now()
	u, err := c.PresignedGetObject(ctx, m.cfg.Connection.BucketName, objectKey, m.presignExpiry(), nil)
	err = TranslateError(err)
	m.observeOperation("presign_get", "", objectKey, time.Since(start), err, 0, nil)

	if err != nil {
		return "", fmt.Errorf("failed to presign object %q: %w", objectKey, err)
	}
	return u.String(), nil
}

// PreSignedPut generates a time-limited upload URL.
func (m *MinioClient) PreSignedPut(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", ErrInvalidObjectKey
	}

	c := m.client.Load()
	if c == nil {
		return "", ErrConnectionFailed
	}

	start := time.Now()
	u, err := c.PresignedPutObject(ctx, m.cfg.Connection.BucketName, objectKey, m.presignExpiry())
	err = TranslateError(err)
	m.observeOperation("presign_put", "", objectKey, time.Since(start), err, 0, nil)

	if err != nil {
		return "", fmt.Errorf("failed to presign upload %q: %w", objectKey, err)
	}
	return u.String(), nil
}

func (m *MinioClient) presignExpiry() time.Duration {
	if m.cfg.PresignExpiry > 0 {
		return m.cfg.PresignExpiry
	}
	return defaultPresignExpiry
}
