package rabbit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// TestObserver records observed operations for assertions.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]observability.OperationContext{}, t.operations...)
}

func TestObserverHelperMethod(t *testing.T) {
	testObserver := &TestObserver{}

	client := &RabbitClient{
		cfg:      DefaultConfig(),
		observer: testObserver,
	}

	client.observeOperation("produce", DefaultExchangeName, "therapy", 100*time.Millisecond, nil, 1024)

	ops := testObserver.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("Expected 1 operation, got %d", len(ops))
	}

	op := ops[0]
	if op.Component != "rabbit" {
		t.Errorf("Expected component 'rabbit', got %s", op.Component)
	}
	if op.Operation != "produce" {
		t.Errorf("Expected operation 'produce', got %s", op.Operation)
	}
	if op.Resource != DefaultExchangeName {
		t.Errorf("Expected resource %q, got %s", DefaultExchangeName, op.Resource)
	}
	if op.SubResource != "therapy" {
		t.Errorf("Expected subResource 'therapy', got %s", op.SubResource)
	}
	if op.Size != 1024 {
		t.Errorf("Expected size 1024, got %d", op.Size)
	}
}

func TestObserverNilObserver(t *testing.T) {
	client := &RabbitClient{cfg: DefaultConfig()}

	// Should not panic
	client.observeOperation("produce", DefaultExchangeName, "journaling", 100*time.Millisecond, nil, 512)
}

func TestWithObserver(t *testing.T) {
	testObserver := &TestObserver{}
	client := &RabbitClient{cfg: DefaultConfig()}

	if client.observer != nil {
		t.Error("Expected no observer initially")
	}

	client = client.WithObserver(testObserver)

	if client.observer == nil {
		t.Fatal("Expected observer to be attached")
	}

	client.observeOperation("consume", "fitness", "", 50*time.Millisecond, nil, 256)

	ops := testObserver.GetOperations()
	if len(ops) != 1 {
		t.Errorf("Expected observer to record 1 operation, got %d", len(ops))
	}
}

// MockLogger for testing
type MockLogger struct {
	InfoCalled  bool
	WarnCalled  bool
	ErrorCalled bool
}

func (m *MockLogger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	m.InfoCalled = true
}

func (m *MockLogger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	m.WarnCalled = true
}

func (m *MockLogger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	m.ErrorCalled = true
}

func TestWithLogger(t *testing.T) {
	mockLogger := &MockLogger{}
	client := &RabbitClient{cfg: DefaultConfig()}

	if client.logger != nil {
		t.Error("Expected no logger initially")
	}

	client = client.WithLogger(mockLogger)

	if client.logger == nil {
		t.Fatal("Expected logger to be attached")
	}

	client.logInfo(context.Background(), "test message", map[string]interface{}{"key": "value"})

	if !mockLogger.InfoCalled {
		t.Error("Expected logger.Info to be called")
	}
}

func TestBuilderChaining(t *testing.T) {
	testObserver := &TestObserver{}
	mockLogger := &MockLogger{}

	client := &RabbitClient{cfg: DefaultConfig()}

	client = client.
		WithObserver(testObserver).
		WithLogger(mockLogger)

	if client.observer != testObserver {
		t.Error("Observer was not attached")
	}
	if client.logger != mockLogger {
		t.Error("Logger was not attached")
	}
}
