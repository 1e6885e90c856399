package tracer

import (
	"context"
	"errors"
	"testing"
)

type testLogger struct{}

func (testLogger) Info(string, error, ...map[string]interface{})  {}
func (testLogger) Debug(string, error, ...map[string]interface{}) {}
func (testLogger) Warn(string, error, ...map[string]interface{})  {}
func (testLogger) Error(string, error, ...map[string]interface{}) {}
func (testLogger) Fatal(string, error, ...map[string]interface{}) {}

func TestStartSpanAndRecordError(t *testing.T) {
	tc := NewClient(Config{ServiceName: "test", AppEnv: "test"}, testLogger{})

	ctx, span := tc.StartSpan(context.Background(), "test-operation")
	if ctx == nil {
		t.Fatal("expected context")
	}
	tc.SetAttributes(span, map[string]interface{}{
		"user.id": "u-1",
		"count":   3,
		"score":   0.5,
		"ok":      true,
		"other":   []string{"a"},
	})
	tc.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()
}

func TestCarrierRoundTrip(t *testing.T) {
	tc := NewClient(Config{ServiceName: "test", AppEnv: "test"}, testLogger{})

	ctx, span := tc.StartSpan(context.Background(), "parent")
	defer span.End()

	carrier := tc.GetCarrier(ctx)
	if _, ok := carrier["traceparent"]; !ok {
		t.Fatalf("expected traceparent header, got %v", carrier)
	}

	restored := tc.SetCarrierOnContext(context.Background(), carrier)
	_, child := tc.StartSpan(restored, "child")
	defer child.End()

	if child.SpanContext().TraceID() != span.SpanContext().TraceID() {
		t.Error("expected child to share the parent trace ID")
	}
}
