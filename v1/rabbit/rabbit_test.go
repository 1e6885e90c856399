package rabbit

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Channel.ExchangeName != DefaultExchangeName {
		t.Errorf("exchange = %q", cfg.Channel.ExchangeName)
	}
	if cfg.Channel.ExchangeType != "direct" {
		t.Errorf("exchange type = %q, agent routing requires direct", cfg.Channel.ExchangeType)
	}
	if cfg.DeadLetter.ExchangeName != DefaultDeadLetterExchange {
		t.Errorf("dead letter exchange = %q", cfg.DeadLetter.ExchangeName)
	}
	if cfg.Channel.ContentType != "application/json" {
		t.Errorf("content type = %q", cfg.Channel.ContentType)
	}
	if !cfg.Channel.IsConsumer {
		t.Error("default config should declare topology")
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv("RABBIT_HOST", "broker.internal")
	t.Setenv("RABBIT_PORT", "5671")
	t.Setenv("RABBIT_EXCHANGE", "staging.agents")

	cfg := NewConfig()

	if cfg.Connection.Host != "broker.internal" {
		t.Errorf("host = %q", cfg.Connection.Host)
	}
	if cfg.Connection.Port != 5671 {
		t.Errorf("port = %d", cfg.Connection.Port)
	}
	if cfg.Channel.ExchangeName != "staging.agents" {
		t.Errorf("exchange = %q", cfg.Channel.ExchangeName)
	}
}

func TestDeadLetterArgs(t *testing.T) {
	cfg := DefaultConfig()
	args := deadLetterArgs(cfg)

	if args["x-dead-letter-exchange"] != DefaultDeadLetterExchange {
		t.Errorf("x-dead-letter-exchange = %v", args["x-dead-letter-exchange"])
	}
	if args["x-dead-letter-routing-key"] != DefaultDeadLetterRoutingKey {
		t.Errorf("x-dead-letter-routing-key = %v", args["x-dead-letter-routing-key"])
	}
	if args["x-message-ttl"] != 3600*1000 {
		t.Errorf("x-message-ttl = %v", args["x-message-ttl"])
	}

	cfg.DeadLetter.ExchangeName = ""
	if deadLetterArgs(cfg) != nil {
		t.Error("no dead letter exchange should mean no queue args")
	}

	cfg = DefaultConfig()
	cfg.DeadLetter.Ttl = 0
	args = deadLetterArgs(cfg)
	if _, ok := args["x-message-ttl"]; ok {
		t.Error("zero TTL must not set x-message-ttl")
	}
}

func TestTranslateErrorAMQPCodes(t *testing.T) {
	tests := []struct {
		code   int
		reason string
		want   error
	}{
		{amqp.AccessRefused, "access refused", ErrAccessDenied},
		{amqp.NotFound, "no queue 'therapy'", ErrQueueNotFound},
		{amqp.NotFound, "no exchange 'wellness.agents'", ErrExchangeNotFound},
		{amqp.PreconditionFailed, "inequivalent arg", ErrPreconditionFailed},
		{amqp.ResourceLocked, "queue locked", ErrResourceLocked},
		{amqp.ContentTooLarge, "content too large", ErrMessageTooLarge},
		{amqp.NoRoute, "no route", ErrPublishFailed},
		{amqp.ChannelError, "channel error", ErrChannelClosed},
		{amqp.InternalError, "internal error", ErrInternalError},
		{amqp.ConnectionForced, "forced", ErrConnectionClosed},
	}

	for _, tt := range tests {
		got := TranslateError(&amqp.Error{Code: tt.code, Reason: tt.reason})
		if !errors.Is(got, tt.want) {
			t.Errorf("code %d (%s): got %v, want %v", tt.code, tt.reason, got, tt.want)
		}
	}
}

func TestTranslateErrorSyscalls(t *testing.T) {
	if got := TranslateError(syscall.ECONNREFUSED); !errors.Is(got, ErrConnectionFailed) {
		t.Errorf("ECONNREFUSED: got %v", got)
	}
	if got := TranslateError(syscall.ECONNRESET); !errors.Is(got, ErrConnectionLost) {
		t.Errorf("ECONNRESET: got %v", got)
	}
	if got := TranslateError(syscall.ETIMEDOUT); !errors.Is(got, ErrTimeout) {
		t.Errorf("ETIMEDOUT: got %v", got)
	}
}

func TestTranslateErrorNetTimeout(t *testing.T) {
	var netErr net.Error = &net.DNSError{IsTimeout: true}
	if got := TranslateError(netErr); !errors.Is(got, ErrTimeout) {
		t.Errorf("net timeout: got %v", got)
	}
}

func TestTranslateErrorMessageFallback(t *testing.T) {
	got := TranslateError(fmt.Errorf("Exception (504) Reason: \"channel/connection is not open\""))
	if !errors.Is(got, ErrChannelClosed) {
		t.Errorf("closed channel message: got %v", got)
	}

	plain := errors.New("something unusual")
	if got := TranslateError(plain); got != plain {
		t.Errorf("unmatched errors must pass through, got %v", got)
	}

	if TranslateError(nil) != nil {
		t.Error("nil should translate to nil")
	}
}

func TestErrorClassification(t *testing.T) {
	retryable := []error{ErrConnectionFailed, ErrConnectionLost, ErrChannelClosed, ErrTimeout, ErrNetworkError, ErrInternalError}
	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("expected %v to be retryable", err)
		}
		if IsPermanent(err) {
			t.Errorf("%v must not be permanent", err)
		}
	}

	permanent := []error{ErrAccessDenied, ErrQueueNotFound, ErrExchangeNotFound, ErrPreconditionFailed, ErrMessageTooLarge, ErrInvalidArgument}
	for _, err := range permanent {
		if !IsPermanent(err) {
			t.Errorf("expected %v to be permanent", err)
		}
		if IsRetryable(err) {
			t.Errorf("%v must not be retryable", err)
		}
	}

	if !IsTemporary(ErrResourceLocked) {
		t.Error("resource locked should be temporary")
	}
	if !IsTemporary(ErrPublishFailed) {
		t.Error("unroutable publish should be temporary")
	}
}

func TestDeclareQueueRejectsEmptyName(t *testing.T) {
	client := &RabbitClient{cfg: DefaultConfig()}
	if err := client.DeclareQueue("", "therapy"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty queue name: got %v", err)
	}
}
