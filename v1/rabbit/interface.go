package rabbit

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client is the transport interface for the agent message bus. It
// abstracts connection management, topology declaration, and message
// publishing/consuming.
//
// This interface is implemented by the concrete *RabbitClient type.
type Client interface {
	// Publisher operations

	// Publish sends a message using the configured routing key.
	Publish(ctx context.Context, msg []byte, headers ...map[string]interface{}) error

	// PublishTo sends a message to the agent exchange under the given
	// routing key. On the agent bus the routing key is the recipient
	// agent's name.
	PublishTo(ctx context.Context, routingKey string, msg []byte, headers ...map[string]interface{}) error

	// Topology

	// DeclareQueue declares a durable queue with dead-letter arguments
	// and binds it to the agent exchange under the given routing key.
	DeclareQueue(queueName, routingKey string) error

	// Consumer operations

	// Consume starts consuming messages from the default queue.
	Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// ConsumeQueue starts consuming messages from the named queue.
	ConsumeQueue(ctx context.Context, wg *sync.WaitGroup, queueName string) <-chan Message

	// ConsumeDLQ starts consuming messages from the dead-letter queue,
	// allowing poison messages to be inspected or replayed.
	ConsumeDLQ(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// Connection management

	// RetryConnection monitors the connection and automatically
	// reconnects on failure. Run it in a goroutine.
	RetryConnection(cfg Config)

	// Lifecycle

	// GracefulShutdown closes all connections and channels cleanly.
	GracefulShutdown()

	// GetChannel returns the underlying AMQP channel for direct
	// operations when needed.
	GetChannel() *amqp.Channel
}

// Message represents a consumed message from the bus. It provides
// methods for acknowledging, rejecting, and accessing message data.
type Message interface {
	// AckMsg acknowledges the message, removing it from the queue.
	AckMsg() error

	// NackMsg negatively acknowledges the message.
	// If requeue is true, the message is requeued; otherwise it goes
	// to the dead-letter queue.
	NackMsg(requeue bool) error

	// Body returns the message payload as a byte slice.
	Body() []byte

	// Header returns the message headers.
	Header() map[string]interface{}

	// Redelivered reports whether this is a redelivery.
	Redelivered() bool
}
