package agents

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/rabbit"
)

// fakeDelivery records the acknowledgment decision.
type fakeDelivery struct {
	body        []byte
	redelivered bool

	acked   bool
	nacked  bool
	requeue bool
}

func (d *fakeDelivery) AckMsg() error { d.acked = true; return nil }

func (d *fakeDelivery) NackMsg(requeue bool) error {
	d.nacked = true
	d.requeue = requeue
	return nil
}

func (d *fakeDelivery) Body() []byte                   { return d.body }
func (d *fakeDelivery) Header() map[string]interface{} { return nil }
func (d *fakeDelivery) Redelivered() bool              { return d.redelivered }

// fakeTransport captures published messages.
type fakeTransport struct {
	mu         sync.Mutex
	published  []publishedMessage
	declared   []string
	publishErr error
}

type publishedMessage struct {
	routingKey string
	body       []byte
	headers    map[string]interface{}
}

func (f *fakeTransport) Publish(ctx context.Context, msg []byte, headers ...map[string]interface{}) error {
	return f.PublishTo(ctx, "", msg, headers...)
}

func (f *fakeTransport) PublishTo(_ context.Context, routingKey string, msg []byte, headers ...map[string]interface{}) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	var hdr map[string]interface{}
	if len(headers) > 0 {
		hdr = headers[0]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{routingKey: routingKey, body: msg, headers: hdr})
	return nil
}

func (f *fakeTransport) DeclareQueue(queueName, _ string) error {
	f.declared = append(f.declared, queueName)
	return nil
}

func (f *fakeTransport) Consume(context.Context, *sync.WaitGroup) <-chan rabbit.Message {
	return nil
}

func (f *fakeTransport) ConsumeQueue(context.Context, *sync.WaitGroup, string) <-chan rabbit.Message {
	ch := make(chan rabbit.Message)
	close(ch)
	return ch
}

func (f *fakeTransport) ConsumeDLQ(context.Context, *sync.WaitGroup) <-chan rabbit.Message {
	return nil
}

func (f *fakeTransport) RetryConnection(rabbit.Config) {}
func (f *fakeTransport) GracefulShutdown()             {}
func (f *fakeTransport) GetChannel() *amqp.Channel     { return nil }

func TestBusSend(t *testing.T) {
	transport := &fakeTransport{}
	bus := NewBus(transport, NewDispatcher(), nil)

	msg := NewRequest("api", AgentTherapy, map[string]any{"user_id": "u1", "text": "hi"})
	msg.Priority = PriorityHigh
	if err := bus.Send(context.Background(), msg); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(transport.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(transport.published))
	}
	pub := transport.published[0]
	if pub.routingKey != AgentTherapy {
		t.Errorf("expected routing key %q, got %q", AgentTherapy, pub.routingKey)
	}
	if pub.headers["priority"] != "high" || pub.headers["sender"] != "api" {
		t.Errorf("unexpected headers: %v", pub.headers)
	}

	decoded, err := DecodeMessage(pub.body)
	if err != nil || decoded.ID != msg.ID {
		t.Errorf("published body does not round-trip: %v", err)
	}
}

func TestBusSendRejectsInvalid(t *testing.T) {
	bus := NewBus(&fakeTransport{}, NewDispatcher(), nil)
	err := bus.Send(context.Background(), &Message{ID: "1", Type: "bogus", Sender: "a", Recipient: "b"})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestBusStartRequiresAgents(t *testing.T) {
	bus := NewBus(&fakeTransport{}, NewDispatcher(), nil)
	if err := bus.Start(context.Background()); err == nil {
		t.Error("expected error with no registered agents")
	}
}

func TestBusStartDeclaresQueues(t *testing.T) {
	transport := &fakeTransport{}
	dispatcher := NewDispatcher()
	if err := dispatcher.Register(&stubAgent{name: AgentTherapy}); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.Register(&stubAgent{name: AgentFitness}); err != nil {
		t.Fatal(err)
	}

	bus := NewBus(transport, dispatcher, nil)
	if err := bus.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer bus.Stop()

	want := []string{"agents.fitness", "agents.therapy"}
	if len(transport.declared) != 2 || transport.declared[0] != want[0] || transport.declared[1] != want[1] {
		t.Errorf("declared queues = %v, want %v", transport.declared, want)
	}
}

func TestHandleDeliveryAcksAndReplies(t *testing.T) {
	transport := &fakeTransport{}
	dispatcher := NewDispatcher()
	stub := &stubAgent{name: AgentTherapy, reply: map[string]any{"reply": "ok"}}
	if err := dispatcher.Register(stub); err != nil {
		t.Fatal(err)
	}
	bus := NewBus(transport, dispatcher, nil)

	body, err := NewRequest("api", AgentTherapy, map[string]any{"user_id": "u1"}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	delivery := &fakeDelivery{body: body}

	bus.handleDelivery(context.Background(), AgentTherapy, delivery)

	if !delivery.acked {
		t.Error("expected ack")
	}
	if len(transport.published) != 1 || transport.published[0].routingKey != "api" {
		t.Errorf("expected response routed back to sender, got %+v", transport.published)
	}
}

func TestHandleDeliveryPoisonMessage(t *testing.T) {
	bus := NewBus(&fakeTransport{}, NewDispatcher(), nil)
	delivery := &fakeDelivery{body: []byte("not an envelope")}

	bus.handleDelivery(context.Background(), AgentTherapy, delivery)

	if !delivery.nacked || delivery.requeue {
		t.Error("undecodable messages must go straight to the DLQ")
	}
}

func TestHandleDeliveryRetriesOnce(t *testing.T) {
	dispatcher := NewDispatcher()
	failing := &stubAgent{name: AgentTherapy, err: errors.New("transient")}
	if err := dispatcher.Register(failing); err != nil {
		t.Fatal(err)
	}
	bus := NewBus(&fakeTransport{}, dispatcher, nil)

	body, err := NewRequest("api", AgentTherapy, nil).Encode()
	if err != nil {
		t.Fatal(err)
	}

	first := &fakeDelivery{body: body}
	bus.handleDelivery(context.Background(), AgentTherapy, first)
	if !first.nacked || !first.requeue {
		t.Error("first failure should requeue")
	}

	second := &fakeDelivery{body: body, redelivered: true}
	bus.handleDelivery(context.Background(), AgentTherapy, second)
	if !second.nacked || second.requeue {
		t.Error("second failure should dead-letter")
	}
}

func TestHandleDeliveryPermanentErrorSkipsRetry(t *testing.T) {
	dispatcher := NewDispatcher()
	bus := NewBus(&fakeTransport{}, dispatcher, nil)

	// Unknown recipient is a permanent failure even on first delivery.
	body, err := NewRequest("api", "nobody", nil).Encode()
	if err != nil {
		t.Fatal(err)
	}
	delivery := &fakeDelivery{body: body}

	bus.handleDelivery(context.Background(), "nobody", delivery)
	if !delivery.nacked || delivery.requeue {
		t.Error("permanent failures must not requeue")
	}
}

// The direct exchange drops replies whose recipient has no declared
// queue; the bus must say so instead of losing them silently.
func TestHandleDeliveryWarnsOnUnregisteredRecipient(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{Zap: zap.New(core)}

	transport := &fakeTransport{}
	dispatcher := NewDispatcher()
	stub := &stubAgent{name: AgentTherapy, reply: map[string]any{"reply": "ok"}}
	if err := dispatcher.Register(stub); err != nil {
		t.Fatal(err)
	}
	bus := NewBus(transport, dispatcher, log)

	body, err := NewRequest("api", AgentTherapy, map[string]any{"user_id": "u1"}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	bus.handleDelivery(context.Background(), AgentTherapy, &fakeDelivery{body: body})

	// The reply is still published: external senders may bind their own
	// queue under their name.
	if len(transport.published) != 1 || transport.published[0].routingKey != "api" {
		t.Fatalf("expected the reply published to %q, got %+v", "api", transport.published)
	}
	entries := observed.FilterMessage("Response recipient has no registered queue").All()
	if len(entries) != 1 {
		t.Fatalf("expected one routing warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["recipient"]; got != "api" {
		t.Errorf("warning recipient = %v, want api", got)
	}
}

func TestHandleDeliveryRegisteredRecipientIsQuiet(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{Zap: zap.New(core)}

	transport := &fakeTransport{}
	dispatcher := NewDispatcher()
	therapy := &stubAgent{name: AgentTherapy, reply: map[string]any{"reply": "ok"}}
	if err := dispatcher.Register(therapy); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.Register(&stubAgent{name: AgentFitness}); err != nil {
		t.Fatal(err)
	}
	bus := NewBus(transport, dispatcher, log)

	body, err := NewRequest(AgentFitness, AgentTherapy, map[string]any{"user_id": "u1"}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	bus.handleDelivery(context.Background(), AgentTherapy, &fakeDelivery{body: body})

	if got := observed.FilterMessage("Response recipient has no registered queue").Len(); got != 0 {
		t.Errorf("registered recipients must not warn, got %d entries", got)
	}
}
