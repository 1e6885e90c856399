package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// PublishEvent appends an event to the wellness stream. A missing ID
// gets a fresh UUID and a zero OccurredAt gets the current time. The
// message key is the user ID, so one user's events stay in order.
func (k *KafkaClient) PublishEvent(ctx context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	k.mu.RLock()
	writer := k.writer
	k.mu.RUnlock()
	if writer == nil {
		return ErrNotProducer
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	start := time.Now()
	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: body,
		Time:  event.OccurredAt,
	})
	k.observeOperation("produce", k.cfg.Topic, event.Type, time.Since(start), err, int64(len(body)))

	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// Consume reads events from the stream and hands each to the handler.
// The offset is committed after the handler returns nil; a handler error
// leaves the offset uncommitted so the event is redelivered. Decode
// failures are skipped with a committed offset, since replaying a
// malformed message can never succeed.
//
// Consume blocks until the context is cancelled or the client shuts
// down.
func (k *KafkaClient) Consume(ctx context.Context, handler func(ctx context.Context, event *Event) error) error {
	k.mu.RLock()
	reader := k.reader
	k.mu.RUnlock()
	if reader == nil {
		return ErrNotConsumer
	}

	for {
		select {
		case <-k.shutdownSignal:
			return ErrShutdown
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			k.observeOperation("consume", k.cfg.Topic, "", 0, err, 0)
			continue
		}

		start := time.Now()
		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			k.observeOperation("consume", k.cfg.Topic, "", time.Since(start), fmt.Errorf("%w: %v", ErrDecodeFailed, err), int64(len(msg.Value)))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = handler(ctx, &event)
		k.observeOperation("consume", k.cfg.Topic, event.Type, time.Since(start), err, int64(len(msg.Value)))
		if err != nil {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}
