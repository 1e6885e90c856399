// Package rabbit is the transport for the agent message bus.
//
// All agent traffic flows through one direct exchange. Each agent owns a
// durable queue bound with its own name as routing key, so sending a
// message to an agent is a publish with routingKey == agent name. Queues
// carry dead-letter arguments: a message an agent rejects without requeue
// (or that outlives the TTL) is routed to the shared dead-letter queue
// instead of blocking the agent.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" pattern:
//   - Client interface: the contract for bus transport operations
//   - RabbitClient struct: concrete implementation
//   - Message interface: a consumed delivery with ack/nack
//   - FX module: provides both *RabbitClient and Client
//
// Core features:
//   - Automatic reconnection with topology re-declaration
//   - Publisher confirms, persistent deliveries
//   - Per-agent queue declaration (DeclareQueue)
//   - Dead-letter queue for poison messages
//   - Optional observability hooks and context-aware logging
//
// # Direct Usage (Without FX)
//
//	client, err := rabbit.NewClient(rabbit.NewConfig())
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	// One queue per agent, bound under the agent's name.
//	if err := client.DeclareQueue("therapy", "therapy"); err != nil {
//		return err
//	}
//
//	wg := &sync.WaitGroup{}
//	msgs := client.ConsumeQueue(ctx, wg, "therapy")
//	for msg := range msgs {
//		if err := handle(msg.Body()); err != nil {
//			// Second failure goes to the dead-letter queue.
//			msg.NackMsg(!msg.Redelivered())
//			continue
//		}
//		msg.AckMsg()
//	}
//
// Publishing to an agent:
//
//	body, _ := json.Marshal(envelope)
//	err := client.PublishTo(ctx, "therapy", body)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(rabbit.NewConfig),
//	    rabbit.FXModule,
//	)
//
// The lifecycle hook starts the reconnection loop on start and closes the
// channel and connection on stop.
//
// # Error Handling
//
// Driver errors are translated onto package sentinels; IsRetryable,
// IsTemporary, and IsPermanent classify them:
//
//	if err := client.PublishTo(ctx, "fitness", body); err != nil {
//	    if rabbit.IsRetryable(err) {
//	        // connection-level failure, the retry loop will recover
//	    }
//	}
package rabbit
