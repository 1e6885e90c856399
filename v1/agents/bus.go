package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/rabbit"
)

// Bus moves agent messages over RabbitMQ. Each agent gets a durable
// queue bound to the agent exchange under its name; the bus consumes
// every registered agent's queue and dispatches in process.
//
// Delivery semantics: handler errors on first delivery are requeued
// once; errors on a redelivery, and messages that fail to decode or
// are permanently unprocessable, go to the dead-letter queue.
type Bus struct {
	transport  rabbit.Client
	dispatcher *Dispatcher
	log        *logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewBus wires the dispatcher onto the transport.
func NewBus(transport rabbit.Client, dispatcher *Dispatcher, log *logger.Logger) *Bus {
	return &Bus{
		transport:  transport,
		dispatcher: dispatcher,
		log:        log,
	}
}

// queueName returns the durable queue for an agent.
func queueName(agent string) string {
	return "agents." + agent
}

// Send publishes a message to its recipient's queue. The priority and
// sender travel as headers so operators can filter in the broker UI.
func (b *Bus) Send(ctx context.Context, msg *Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	return b.transport.PublishTo(ctx, msg.Recipient, data, map[string]interface{}{
		"type":     string(msg.Type),
		"priority": string(msg.Priority),
		"sender":   msg.Sender,
	})
}

// Start declares one queue per registered agent and begins consuming.
// It returns after the consumers are running; Stop shuts them down.
func (b *Bus) Start(ctx context.Context) error {
	names := b.dispatcher.Names()
	if len(names) == 0 {
		return fmt.Errorf("%w: no agents registered", ErrUnknownAgent)
	}

	ctx, b.cancel = context.WithCancel(ctx)

	for _, name := range names {
		if err := b.transport.DeclareQueue(queueName(name), name); err != nil {
			b.cancel()
			return fmt.Errorf("[Agents] declare queue for %q: %w", name, err)
		}
	}

	for _, name := range names {
		deliveries := b.transport.ConsumeQueue(ctx, &b.wg, queueName(name))

		b.wg.Add(1)
		go func(agent string, deliveries <-chan rabbit.Message) {
			defer b.wg.Done()
			for delivery := range deliveries {
				b.handleDelivery(ctx, agent, delivery)
			}
		}(name, deliveries)
	}

	b.logInfo("Agent bus started", map[string]interface{}{"agents": names})
	return nil
}

// Stop cancels the consumers and waits for in-flight handlers.
func (b *Bus) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
}

func (b *Bus) handleDelivery(ctx context.Context, agent string, delivery rabbit.Message) {
	msg, err := DecodeMessage(delivery.Body())
	if err != nil {
		// Undecodable payloads cannot succeed on redelivery.
		b.logWarn("Dropping undecodable message", err, map[string]interface{}{"agent": agent})
		_ = delivery.NackMsg(false)
		return
	}

	response, err := b.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		requeue := !delivery.Redelivered() && !IsPermanent(err)
		b.logWarn("Message handling failed", err, map[string]interface{}{
			"agent":   agent,
			"id":      msg.ID,
			"requeue": requeue,
		})
		_ = delivery.NackMsg(requeue)
		return
	}

	if err := delivery.AckMsg(); err != nil {
		b.logWarn("Ack failed", err, map[string]interface{}{"agent": agent, "id": msg.ID})
		return
	}

	// Responses flow back over the bus. The direct exchange routes by
	// recipient name, so a reply to a sender without a declared queue
	// is dropped by the broker; external senders must bind their own
	// queue under their name. Published anyway, logged loudly.
	if response != nil && response.Recipient != "" {
		if _, registered := b.dispatcher.Agent(response.Recipient); !registered {
			b.logWarn("Response recipient has no registered queue", nil, map[string]interface{}{
				"agent":     agent,
				"id":        response.ID,
				"recipient": response.Recipient,
			})
		}
		if err := b.Send(ctx, response); err != nil {
			b.logWarn("Response publish failed", err, map[string]interface{}{
				"agent": agent,
				"id":    response.ID,
			})
		}
	}
}

func (b *Bus) logInfo(msg string, fields map[string]interface{}) {
	if b.log != nil {
		b.log.Info(msg, nil, fields)
	}
}

func (b *Bus) logWarn(msg string, err error, fields map[string]interface{}) {
	if b.log != nil {
		b.log.Warn(msg, err, fields)
	}
}
