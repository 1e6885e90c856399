package profile

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store is a wrapper around gorm.DB that provides connection monitoring,
// automatic reconnection, and the typed profile operations.
//
// Concurrency: the active `*gorm.DB` pointer is stored in an atomic pointer
// and can be swapped during reconnection without blocking readers.
type Store struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewStore creates a new Store with the provided configuration.
// It establishes the initial database connection and sets up the internal
// state for connection monitoring and recovery.
func NewStore(cfg Config) (*Store, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("[Profile] failed to connect to postgres: %w", err)
	}

	store := &Store{
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	store.client.Store(conn)
	return store, nil
}

// connect establishes a connection to the PostgreSQL database, enabling
// GORM error translation and configuring the connection pool.
func connect(cfg Config) (*gorm.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(connStr),
		&gorm.Config{
			TranslateError: true,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	maxOpen := cfg.Pool.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.Pool.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := cfg.Pool.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	log.Println("INFO: Successfully connected to PostgreSQL database")

	return database, nil
}

// DB returns the current *gorm.DB. The pointer may be swapped by the
// reconnection loop; callers must not cache it across operations.
func (s *Store) DB() *gorm.DB {
	return s.client.Load()
}

// Migrate creates or updates the schema for all profile models.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.DB().WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("[Profile] migration failed: %w", err)
	}
	log.Println("INFO: Profile schema migrated")
	return nil
}

// RetryConnection continuously attempts to reconnect to the database when
// notified of a connection failure. It operates as a goroutine that waits
// for signals on retryChanSignal before attempting reconnection.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (s *Store) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-s.shutdownSignal:
			log.Println("INFO: Stopping RetryConnection loop due to shutdown signal")
			return
		case <-ctx.Done():
			return
		case <-s.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-s.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connect(s.cfg)
					if err != nil {
						log.Printf("ERROR: PostgreSQL reconnection failed: %v", err)
						time.Sleep(time.Second)
						continue innerLoop
					}
					s.client.Store(newConn)
					log.Println("INFO: Successfully reconnected to PostgreSQL database")
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database
// connection and signals the RetryConnection goroutine when a failure is
// detected.
func (s *Store) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdownSignal:
			log.Println("INFO: Stopping MonitorConnection loop due to shutdown signal")
			return
		case <-ticker.C:
			if err := s.healthCheck(); err != nil {
				select {
				case s.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck snapshots the current connection and pings it with a timeout.
func (s *Store) healthCheck() error {
	dbConn := s.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// GracefulShutdown stops the background loops and closes the connection.
func (s *Store) GracefulShutdown() error {
	s.closeShutdownOnce.Do(func() {
		close(s.shutdownSignal)
	})
	s.closeRetryChanOnce.Do(func() {
		close(s.retryChanSignal)
	})

	sqlDB, err := s.DB().DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
