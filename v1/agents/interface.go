package agents

import "context"

// Agent is one specialist in the wellness platform. Handle processes a
// request and returns a response envelope, or nil for fire-and-forget
// notifications.
type Agent interface {
	// Name is the agent's registered name and bus routing key.
	Name() string

	// Description summarizes the agent's responsibility for routing and
	// introspection.
	Description() string

	// Handle processes one message. A returned error means the message
	// was not processed; the bus decides between redelivery and the
	// dead-letter queue based on the error and redelivery count.
	Handle(ctx context.Context, msg *Message) (*Message, error)
}
