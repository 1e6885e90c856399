package kafka

import (
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// observeOperation notifies the observer about an operation if one is
// configured. SubResource carries the event type.
func (k *KafkaClient) observeOperation(operation, topic, eventType string, duration time.Duration, err error, size int64) {
	if k.observer != nil {
		k.observer.ObserveOperation(observability.OperationContext{
			Component:   "kafka",
			Operation:   operation,
			Resource:    topic,
			SubResource: eventType,
			Duration:    duration,
			Error:       err,
			Size:        size,
			Metadata:    nil,
		})
	}
}
