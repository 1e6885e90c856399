package rabbit

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerMessage implements the Message interface and wraps an AMQP
// delivery with its acknowledgment methods.
type ConsumerMessage struct {
	body     []byte
	delivery *amqp.Delivery
}

// ConsumeQueue consumes messages from the named queue and delivers them
// on the returned channel. The agent bus calls this once per agent queue.
//
// The returned channel closes when consumption stops due to context
// cancellation or shutdown. The consumer re-establishes itself when the
// underlying channel is closed, so a broker restart does not end
// consumption.
func (rb *RabbitClient) ConsumeQueue(ctx context.Context, wg *sync.WaitGroup, queueName string) <-chan Message {
	outChan := make(chan Message, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outChan)
	outerLoop:
		for {
			select {
			case <-rb.shutdownSignal:
				rb.logInfo(ctx, "Stopping consumer due to shutdown signal", map[string]interface{}{
					"queue": queueName,
				})
				return
			case <-ctx.Done():
				rb.logInfo(ctx, "Stopping consumer due to context cancellation", map[string]interface{}{
					"queue": queueName,
					"error": ctx.Err().Error(),
				})
				return
			default:
				rb.mu.RLock()
				msgs, err := rb.Channel.Consume(
					queueName,
					"",    // consumer
					false, // autoAck
					false, // exclusive
					false, // noLocal
					false, // noWait
					nil,   // args
				)
				rb.mu.RUnlock()

				if err != nil {
					rb.logError(ctx, "Failed to establish consumer", map[string]interface{}{
						"queue": queueName,
						"error": err.Error(),
					})
					time.Sleep(100 * time.Millisecond)
					continue
				}

				for {
					select {
					case <-ctx.Done():
						rb.logInfo(ctx, "Stopping consumer due to context cancellation", map[string]interface{}{
							"queue": queueName,
							"error": ctx.Err().Error(),
						})
						return
					case <-rb.shutdownSignal:
						rb.logInfo(ctx, "Stopping consumer due to shutdown signal", map[string]interface{}{
							"queue": queueName,
						})
						return
					case msg, ok := <-msgs:
						if !ok {
							continue outerLoop
						}

						rb.observeOperation("consume", queueName, "", 0, nil, int64(len(msg.Body)))

						outChan <- &ConsumerMessage{
							body:     msg.Body,
							delivery: &msg,
						}
					}
				}
			}
		}
	}()
	return outChan
}

// Consume starts consuming from the default queue configured in
// Channel.QueueName.
func (rb *RabbitClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.ConsumeQueue(ctx, wg, rb.cfg.Channel.QueueName)
}

// ConsumeDLQ starts consuming from the dead-letter queue. Useful for
// inspecting or replaying poison messages that agents rejected.
//
// Example:
//
//	dlqChan := client.ConsumeDLQ(ctx, wg)
//	for msg := range dlqChan {
//	    log.Printf("dead-lettered: %s", msg.Body())
//	    msg.AckMsg()
//	}
func (rb *RabbitClient) ConsumeDLQ(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.ConsumeQueue(ctx, wg, rb.cfg.DeadLetter.QueueName)
}

// PublishTo sends a message to the agent exchange under the given routing
// key. On the agent bus the routing key is the recipient agent's name.
//
// Headers can carry metadata and distributed tracing context:
//
//	traceHeaders := tracerClient.GetCarrier(ctx)
//	err := client.PublishTo(ctx, "therapy", body, traceHeaders)
//
// Messages are published persistent so queued agent requests survive a
// broker restart.
func (rb *RabbitClient) PublishTo(ctx context.Context, routingKey string, msg []byte, headers ...map[string]interface{}) error {
	start := time.Now()
	var publishErr error
	msgSize := int64(len(msg))

	defer func() {
		rb.observeOperation("produce", rb.cfg.Channel.ExchangeName, routingKey, time.Since(start), publishErr, msgSize)
	}()

	select {
	case <-ctx.Done():
		publishErr = ctx.Err()
		return publishErr
	default:
		var header map[string]interface{}
		if len(headers) > 0 {
			header = headers[0]
		}

		rb.mu.RLock()
		publishErr = rb.Channel.PublishWithContext(ctx,
			rb.cfg.Channel.ExchangeName,
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				Headers:      header,
				ContentType:  rb.cfg.Channel.ContentType,
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now().UTC(),
				Body:         msg,
			},
		)
		rb.mu.RUnlock()

		if publishErr != nil {
			publishErr = TranslateError(publishErr)
		}
		return publishErr
	}
}

// Publish sends a message using the routing key from the configuration.
func (rb *RabbitClient) Publish(ctx context.Context, msg []byte, headers ...map[string]interface{}) error {
	return rb.PublishTo(ctx, rb.cfg.Channel.RoutingKey, msg, headers...)
}

// AckMsg acknowledges the message, informing RabbitMQ that the message
// has been successfully processed and can be removed from the queue.
func (m *ConsumerMessage) AckMsg() error {
	return m.delivery.Ack(false)
}

// NackMsg rejects the message. If requeue is true the message returns to
// the queue for redelivery; otherwise it is routed to the dead-letter
// exchange.
func (m *ConsumerMessage) NackMsg(requeue bool) error {
	return m.delivery.Nack(false, requeue)
}

// Body returns the message payload as a byte slice.
func (m *ConsumerMessage) Body() []byte {
	return m.body
}

// Header returns the headers associated with the message. On the agent
// bus these carry sender metadata and tracing context set by the
// publisher.
func (m *ConsumerMessage) Header() map[string]interface{} {
	return m.delivery.Headers
}

// Redelivered reports whether the broker already delivered this message
// once. The agent bus uses it to decide between requeue and dead-letter
// on handler failure.
func (m *ConsumerMessage) Redelivered() bool {
	return m.delivery.Redelivered
}
