package agents

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Dispatcher routes messages to registered agents in process. It backs
// the orchestrator's specialist calls and serves as the bus-free
// transport in tests and single-process deployments.
type Dispatcher struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{agents: make(map[string]Agent)}
}

// Register adds an agent under its name.
func (d *Dispatcher) Register(agent Agent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := agent.Name()
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMessage)
	}
	if _, exists := d.agents[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAgent, name)
	}
	d.agents[name] = agent
	return nil
}

// Agent looks up a registered agent by name.
func (d *Dispatcher) Agent(name string) (Agent, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	agent, ok := d.agents[name]
	return agent, ok
}

// Names returns the registered agent names, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.agents))
	for name := range d.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates the message and hands it to its recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) (*Message, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	agent, ok := d.Agent(msg.Recipient)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, msg.Recipient)
	}
	return agent.Handle(ctx, msg)
}
