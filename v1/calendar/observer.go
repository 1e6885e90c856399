package calendar

import (
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// componentName identifies this client in operation notifications.
const componentName = "calendar"

// observeOperation reports a completed operation to the configured observer.
func (c *Client) observeOperation(operation, calendarID string, start time.Time, err error, size int) {
	if c.observer == nil {
		return
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component: componentName,
		Operation: operation,
		Resource:  calendarID,
		Duration:  time.Since(start),
		Error:     err,
		Size:      int64(size),
	})
}
