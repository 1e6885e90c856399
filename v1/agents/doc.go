// Package agents implements the platform's specialist agents and the
// message fabric between them.
//
// Seven agents are registered: therapy, journaling, fitness,
// nutrition, scheduling, mental-exercise, and the mental-orchestrator
// that routes requests to the others. Agents exchange Message
// envelopes, either in process through the Dispatcher or across
// processes over the RabbitMQ-backed Bus (one durable queue per
// agent, poison messages dead-lettered after one redelivery).
//
// The therapy path is safety critical: every incoming message is
// scanned for crisis indicators before any model call, and a detected
// crisis produces an immediate urgent response that does not depend on
// any external service. Model failures on the therapy path escalate
// rather than error out.
//
// Typical in-process use:
//
//	dispatcher := agents.NewDispatcher()
//	dispatcher.Register(therapyAgent)
//	dispatcher.Register(orchestrator)
//
//	resp, err := dispatcher.Dispatch(ctx, agents.NewRequest(
//	    "api", agents.AgentOrchestrator,
//	    map[string]any{"user_id": uid, "topic": "therapy", "text": text},
//	))
package agents
