package rabbit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mindloft/wellness/v1/observability"
)

// RabbitClient is the transport for the agent message bus. It manages the
// AMQP connection and channel, declares the bus topology (direct exchange,
// per-agent queues, dead-letter exchange), and reconnects automatically
// when the broker drops the connection.
type RabbitClient struct {
	// cfg stores the configuration for this client
	cfg Config

	// Channel is the main AMQP channel used for publishing and consuming.
	// It's exposed publicly to allow direct operations when needed.
	Channel *amqp.Channel

	// conn is the underlying AMQP connection
	conn *amqp.Connection

	// mu protects concurrent access to connection and channel
	mu sync.RWMutex

	// logger is an optional structured logger; stdlib log is the fallback
	logger Logger

	// observer receives per-operation callbacks when wired
	observer observability.Observer

	// shutdownSignal is closed when the client is being shut down
	shutdownSignal chan struct{}

	closeShutdownOnce sync.Once
}

// NewClient connects to RabbitMQ and declares the bus topology described
// by the configuration: the agent exchange, the dead-letter exchange and
// queue, and the default queue when one is configured. Per-agent queues
// are declared afterwards through DeclareQueue.
//
// Example:
//
//	client, err := rabbit.NewClient(rabbit.NewConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.GracefulShutdown()
//
//	if err := client.DeclareQueue("therapy", "therapy"); err != nil {
//		log.Fatal(err)
//	}
func NewClient(config Config) (*RabbitClient, error) {
	con, err := newConnection(config)
	if err != nil {
		log.Printf("ERROR: [Rabbit] connecting to broker: %v", err)
		return nil, err
	}

	ch, err := connectToChannel(con, config)
	if ch == nil || err != nil {
		log.Printf("ERROR: [Rabbit] declaring channel: %v", err)
		return nil, err
	}

	return &RabbitClient{
		cfg:            config,
		conn:           con,
		Channel:        ch,
		shutdownSignal: make(chan struct{}),
	}, nil
}

// Config returns the configuration the client was created with.
func (rb *RabbitClient) Config() Config {
	return rb.cfg
}

// WithLogger attaches a structured logger to the client and returns the
// client for chaining.
func (rb *RabbitClient) WithLogger(logger Logger) *RabbitClient {
	rb.logger = logger
	return rb
}

// WithObserver attaches an operation observer to the client and returns
// the client for chaining.
func (rb *RabbitClient) WithObserver(observer observability.Observer) *RabbitClient {
	rb.observer = observer
	return rb
}

// connectToChannel creates and configures an AMQP channel.
//
// Publisher confirms are always enabled. When the client is a consumer the
// function also declares the agent exchange, the dead-letter exchange and
// queue, the optional default queue with dead-letter arguments, and the
// QoS prefetch.
func connectToChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if !cfg.Channel.IsConsumer {
		return ch, nil
	}

	// Declare the agent exchange
	err = ch.ExchangeDeclare(
		cfg.Channel.ExchangeName,
		cfg.Channel.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Dead-letter topology, shared by all agent queues
	if cfg.DeadLetter.ExchangeName != "" {
		err = ch.ExchangeDeclare(
			cfg.DeadLetter.ExchangeName,
			"direct",
			true,  // Durable
			false, // AutoDelete
			false, // Internal
			false, // NoWait
			nil,   // Arguments
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare dead letter exchange: %w", err)
		}

		_, err = ch.QueueDeclare(
			cfg.DeadLetter.QueueName,
			true,  // Durable
			false, // AutoDelete
			false, // Exclusive
			false, // NoWait
			nil,   // Arguments
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare dead letter queue: %w", err)
		}

		err = ch.QueueBind(
			cfg.DeadLetter.QueueName,
			cfg.DeadLetter.RoutingKey,
			cfg.DeadLetter.ExchangeName,
			false, // NoWait
			nil,   // Arguments
		)
		if err != nil {
			return nil, fmt.Errorf("failed to bind dead letter queue: %w", err)
		}
	}

	// Default queue, when configured
	if cfg.Channel.QueueName != "" {
		_, err = ch.QueueDeclare(
			cfg.Channel.QueueName,
			true,  // Durable
			false, // AutoDelete
			false, // Exclusive
			false, // NoWait
			deadLetterArgs(cfg),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare queue: %w", err)
		}

		err = ch.QueueBind(
			cfg.Channel.QueueName,
			cfg.Channel.RoutingKey,
			cfg.Channel.ExchangeName,
			false, // NoWait
			nil,   // Arguments
		)
		if err != nil {
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	if cfg.Channel.PrefetchCount > 0 {
		err = ch.Qos(cfg.Channel.PrefetchCount, 0, false)
		if err != nil {
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	return ch, nil
}

// deadLetterArgs builds the queue arguments that route rejected or
// expired messages to the dead-letter exchange.
func deadLetterArgs(cfg Config) amqp.Table {
	if cfg.DeadLetter.ExchangeName == "" {
		return nil
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    cfg.DeadLetter.ExchangeName,
		"x-dead-letter-routing-key": cfg.DeadLetter.RoutingKey,
	}
	if cfg.DeadLetter.Ttl > 0 {
		args["x-message-ttl"] = cfg.DeadLetter.Ttl * 1000 // milliseconds
	}
	return args
}

// DeclareQueue declares a durable queue with the bus's dead-letter
// arguments and binds it to the agent exchange under the given routing
// key. The agent bus calls this once per agent, with the agent name as
// both queue name and routing key.
func (rb *RabbitClient) DeclareQueue(queueName, routingKey string) error {
	if queueName == "" {
		return ErrInvalidArgument
	}

	rb.mu.RLock()
	defer rb.mu.RUnlock()

	_, err := rb.Channel.QueueDeclare(
		queueName,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		deadLetterArgs(rb.cfg),
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", queueName, TranslateError(err))
	}

	err = rb.Channel.QueueBind(
		queueName,
		routingKey,
		rb.cfg.Channel.ExchangeName,
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue %q: %w", queueName, TranslateError(err))
	}

	return nil
}

// RetryConnection monitors the connection and re-establishes it when the
// broker closes it. Run it in a goroutine; it returns when the shutdown
// signal fires.
func (rb *RabbitClient) RetryConnection(cfg Config) {
	defer rb.closeShutdownOnce.Do(func() {
		close(rb.shutdownSignal)
	})
outerLoop:
	for {
		errChan := make(chan *amqp.Error, 1)
		rb.conn.NotifyClose(errChan)

		select {
		case <-rb.shutdownSignal:
			rb.logInfo(context.Background(), "Stopping RetryConnection loop due to shutdown signal", nil)
			return

		case err := <-errChan:
			rb.logWarn(context.Background(), "RabbitMQ connection closed, retrying", map[string]interface{}{
				"error": fmt.Sprintf("%v", err),
			})
		reconnectLoop:
			for {
				select {
				case <-rb.shutdownSignal:
					rb.logInfo(context.Background(), "Stopping RetryConnection loop due to shutdown signal", nil)
					return
				default:
					newConn, err := newConnection(cfg)
					if err != nil {
						rb.logError(context.Background(), "RabbitMQ reconnection failed", map[string]interface{}{
							"error": err.Error(),
						})
						time.Sleep(time.Duration(cfg.Channel.DelayToReconnect) * time.Millisecond)
						continue reconnectLoop
					}

					rb.mu.Lock()
					rb.conn = newConn
					if rb.Channel != nil {
						_ = rb.Channel.Close()
					}
					rb.Channel, err = connectToChannel(newConn, cfg)
					rb.mu.Unlock()

					if err != nil {
						rb.logError(context.Background(), "Failed to re-establish RabbitMQ channel", map[string]interface{}{
							"error": err.Error(),
						})
						continue reconnectLoop
					}

					rb.logInfo(context.Background(), "Successfully reconnected to RabbitMQ", nil)
					continue outerLoop
				}
			}
		}
	}
}

// newConnection establishes a connection to the RabbitMQ server.
//
// Three connection modes are supported:
//   - amqps with client certificates (mutual TLS)
//   - plain amqp (no TLS)
//   - amqps without client certificates (server authentication only)
//
// All connections use a 2-second heartbeat so dead connections are
// detected quickly.
func newConnection(cfg Config) (*amqp.Connection, error) {
	if cfg.Connection.IsSSLEnabled && cfg.Connection.UseCert {
		hostURL := fmt.Sprintf("amqps://%v:%v@%v:%v", cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)
		caCert, err := os.ReadFile(cfg.Connection.CACertPath)
		if err != nil {
			log.Printf("ERROR: [Rabbit] failed to read CA cert: %v", err)
			return nil, err
		}
		caCertPool := x509.NewCertPool()
		caCertPool.AppendCertsFromPEM(caCert)

		cert, err := tls.LoadX509KeyPair(cfg.Connection.ClientCertPath, cfg.Connection.ClientKeyPath)
		if err != nil {
			log.Printf("ERROR: [Rabbit] failed to load client cert: %v", err)
			return nil, err
		}

		tlsConfig := &tls.Config{
			RootCAs:      caCertPool,
			Certificates: []tls.Certificate{cert},
			ServerName:   cfg.Connection.ServerName,
		}
		conn, err := amqp.DialConfig(hostURL, amqp.Config{
			Heartbeat:       2 * time.Second,
			TLSClientConfig: tlsConfig,
		})
		if err == nil {
			log.Println("INFO: [Rabbit] Connected")
			return conn, nil
		}
		log.Printf("ERROR: [Rabbit] connection failed: %v", err)
	} else if !cfg.Connection.IsSSLEnabled {
		hostURL := fmt.Sprintf("amqp://%v:%v@%v:%v", cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)
		conn, err := amqp.DialConfig(hostURL, amqp.Config{
			Heartbeat: 2 * time.Second,
		})
		if err == nil {
			log.Println("INFO: [Rabbit] Connected")
			return conn, nil
		}
		log.Printf("ERROR: [Rabbit] connection failed: %v", err)
	} else {
		hostURL := fmt.Sprintf("amqps://%v:%v@%v:%v", cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)
		conn, err := amqp.DialConfig(hostURL, amqp.Config{
			Heartbeat: 2 * time.Second,
		})
		if err == nil {
			log.Println("INFO: [Rabbit] Connected")
			return conn, nil
		}
		log.Printf("ERROR: [Rabbit] connection failed: %v", err)
	}
	return nil, ErrConnectionFailed
}

// logInfo logs through the structured logger when one is wired, falling
// back to stdlib log.
func (rb *RabbitClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.InfoWithContext(ctx, msg, nil, fields)
		return
	}
	log.Printf("INFO: [Rabbit] %s %v", msg, fields)
}

func (rb *RabbitClient) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.WarnWithContext(ctx, msg, nil, fields)
		return
	}
	log.Printf("WARNING: [Rabbit] %s %v", msg, fields)
}

func (rb *RabbitClient) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.ErrorWithContext(ctx, msg, nil, fields)
		return
	}
	log.Printf("ERROR: [Rabbit] %s %v", msg, fields)
}
