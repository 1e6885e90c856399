package tavus

import (
	"time"

	"github.com/mindloft/wellness/v1/observability"
)

// componentName identifies this client in operation notifications.
const componentName = "tavus"

// observeOperation reports a completed operation to the configured observer.
func (c *Client) observeOperation(operation, resource string, start time.Time, err error) {
	if c.observer == nil {
		return
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component: componentName,
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
	})
}
