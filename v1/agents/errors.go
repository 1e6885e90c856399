package agents

import (
	"errors"
)

// Package sentinels. Envelope and routing failures are permanent: the
// same message will fail the same way on redelivery, so the bus sends
// them straight to the dead-letter queue instead of retrying.
var (
	// ErrInvalidMessage indicates a malformed envelope.
	ErrInvalidMessage = errors.New("[Agents] invalid message")

	// ErrMissingField indicates a required payload field is absent.
	ErrMissingField = errors.New("[Agents] missing payload field")

	// ErrUnknownAgent indicates the recipient is not registered.
	ErrUnknownAgent = errors.New("[Agents] unknown agent")

	// ErrDuplicateAgent indicates a second registration under one name.
	ErrDuplicateAgent = errors.New("[Agents] agent already registered")

	// ErrUnroutable indicates no specialist handles the request topic.
	ErrUnroutable = errors.New("[Agents] unroutable request")
)

// IsPermanent reports whether retrying the same message cannot succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnknownAgent) ||
		errors.Is(err, ErrUnroutable)
}
