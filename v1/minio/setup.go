package minio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mindloft/wellness/v1/observability"
)

// MinioClient stores generated media artifacts — TTS audio from therapy
// responses, video session recordings — in an S3-compatible bucket. It
// wraps the driver with connection monitoring and automatic
// reconnection.
type MinioClient struct {
	// client is stored in an atomic pointer so it can be swapped during
	// reconnection without racing with concurrent operations
	client atomic.Pointer[minio.Client]

	// cfg holds the configuration for this client instance
	cfg Config

	// observer provides optional observability hooks
	observer observability.Observer

	// logger provides optional context-aware logging
	logger Logger

	// shutdownSignal stops the connection monitor
	shutdownSignal chan struct{}

	// reconnectSignal triggers reconnection attempts
	reconnectSignal chan error

	// bufferPool reuses read buffers for Get operations
	bufferPool *BufferPool

	closeShutdownOnce sync.Once
}

// BufferPool is a bounded pool of bytes.Buffers used when reading media
// objects. Buffers that grow past maxBufferSize are discarded instead of
// returned, so one oversized video download cannot pin memory.
type BufferPool struct {
	pool          sync.Pool
	maxBufferSize int
}

// maxPooledBuffer caps the size of a buffer the pool will retain.
// TTS audio clips are well under this; anything larger is released to
// the garbage collector.
const maxPooledBuffer = 32 * 1024 * 1024

// NewBufferPool creates a BufferPool for media reads.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{maxBufferSize: maxPooledBuffer}
	bp.pool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 64*1024))
		},
	}
	return bp
}

// Get returns a reset buffer from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool unless it grew past the size cap.
func (bp *BufferPool) Put(b *bytes.Buffer) {
	if b == nil || b.Cap() > bp.maxBufferSize {
		return
	}
	b.Reset()
	bp.pool.Put(b)
}

// NewClient creates and validates a new media storage client. It
// connects, validates the connection, and ensures the media bucket
// exists (creating it when the config allows).
//
// Example:
//
//	client, err := minio.NewClient(minio.NewConfig())
//	if err != nil {
//	    return fmt.Errorf("failed to initialize media storage: %w", err)
//	}
//	defer client.GracefulShutdown()
func NewClient(config Config) (*MinioClient, error) {
	client, err := connectToMinio(config)
	if err != nil {
		return nil, err
	}

	m := &MinioClient{
		cfg:             config,
		shutdownSignal:  make(chan struct{}),
		reconnectSignal: make(chan error, 1),
		bufferPool:      NewBufferPool(),
	}
	m.client.Store(client)

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.validateConnection(timeoutCtx); err != nil {
		return nil, TranslateError(err)
	}
	if err := m.EnsureBucket(timeoutCtx); err != nil {
		return nil, err
	}

	return m, nil
}

// connectToMinio creates the underlying driver client.
func connectToMinio(cfg Config) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint cannot be empty", ErrInvalidConfig)
	}

	client, err := minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// validateConnection performs a bucket-scoped check so credentials do
// not need ListAllMyBuckets.
func (m *MinioClient) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c := m.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	if bucket := m.cfg.Connection.BucketName; bucket != "" {
		_, err := c.BucketExists(ctx, bucket)
		return err
	}
	_, err := c.ListBuckets(ctx)
	return err
}

// EnsureBucket checks that the media bucket exists and creates it when
// the configuration allows bucket creation.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	bucketName := m.cfg.Connection.BucketName
	if bucketName == "" {
		return fmt.Errorf("%w: bucket name is empty", ErrInvalidConfig)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c := m.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", bucketName, TranslateError(err))
	}

	switch {
	case exists:
		return nil
	case m.cfg.Connection.AccessBucketCreation:
		m.logInfo(ctx, "Media bucket does not exist, creating it", map[string]interface{}{
			"bucket": bucketName,
			"region": m.cfg.Connection.Region,
		})
		if err := c.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.cfg.Connection.Region}); err != nil {
			return TranslateError(err)
		}
		return nil
	default:
		return fmt.Errorf("%w: bucket %q must be created manually", ErrBucketNotFound, bucketName)
	}
}

// monitorConnection periodically validates the connection and signals
// the retry loop when it fails. Runs as a goroutine.
func (m *MinioClient) monitorConnection(ctx context.Context) {
	ticker := time.NewTicker(connectionHealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := m.validateConnection(checkCtx)
			cancel()

			if err != nil {
				m.logError(ctx, "Media storage health check failed", map[string]interface{}{
					"endpoint": m.cfg.Connection.Endpoint,
					"error":    err.Error(),
				})

				select {
				case m.reconnectSignal <- err:
				default: // a reconnect is already pending
				}
			}

		case <-m.shutdownSignal:
			return

		case <-ctx.Done():
			return
		}
	}
}

// retryConnection re-establishes the connection when the monitor signals
// a failure. Runs as a goroutine.
func (m *MinioClient) retryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			m.logInfo(ctx, "Stopping media storage retry loop due to shutdown signal", nil)
			return

		case <-ctx.Done():
			m.logInfo(ctx, "Stopping media storage retry loop due to context cancellation", nil)
			return

		case err, ok := <-m.reconnectSignal:
			if !ok {
				return
			}
			m.logWarn(ctx, "Media storage connection issue detected, attempting reconnection", map[string]interface{}{
				"endpoint": m.cfg.Connection.Endpoint,
				"error":    err.Error(),
			})

		reconnectLoop:
			for {
				select {
				case <-m.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newClient, err := connectToMinio(m.cfg)
					if err != nil {
						m.logError(ctx, "Media storage reconnection failed", map[string]interface{}{
							"endpoint": m.cfg.Connection.Endpoint,
							"error":    err.Error(),
						})
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					checkCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					_, err = newClient.BucketExists(checkCtx, m.cfg.Connection.BucketName)
					cancel()
					if err != nil {
						m.logError(ctx, "Media storage connection validation failed", map[string]interface{}{
							"error": err.Error(),
						})
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					m.client.Store(newClient)
					m.logInfo(ctx, "Successfully reconnected to media storage", map[string]interface{}{
						"endpoint": m.cfg.Connection.Endpoint,
						"bucket":   m.cfg.Connection.BucketName,
					})
					continue outerLoop
				}
			}
		}
	}
}

// GracefulShutdown stops the background goroutines. Safe to call more
// than once; the driver itself holds no persistent connection.
func (m *MinioClient) GracefulShutdown() {
	m.closeShutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})
}

// WithObserver attaches an observer and returns the client for chaining.
func (m *MinioClient) WithObserver(observer observability.Observer) *MinioClient {
	m.observer = observer
	return m
}

// WithLogger attaches a logger and returns the client for chaining.
func (m *MinioClient) WithLogger(logger Logger) *MinioClient {
	m.logger = logger
	return m
}

// logInfo logs through the configured logger if available. Background
// goroutine logging only; operation errors are returned to callers.
func (m *MinioClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (m *MinioClient) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.WarnWithContext(ctx, msg, nil, fields)
	}
}

func (m *MinioClient) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
}
