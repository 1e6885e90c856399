package vectordb

import "errors"

// Sentinel errors returned by the vector subsystem.
// All of these are permanent: retrying without changing the input
// cannot succeed.
var (
	// ErrUnknownCollection indicates a collection name with no registered schema.
	ErrUnknownCollection = errors.New("[VectorDB] unknown collection")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the collection schema.
	ErrDimensionMismatch = errors.New("[VectorDB] vector dimension mismatch")

	// ErrInsufficientData indicates there are no vectors to cluster in the
	// requested window.
	ErrInsufficientData = errors.New("[VectorDB] insufficient data for clustering")

	// ErrEmptyVector indicates a record with a nil or zero-length vector.
	ErrEmptyVector = errors.New("[VectorDB] empty vector")
)

// IsPermanent reports whether err is one of the subsystem's permanent
// validation errors. Callers should not retry these.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUnknownCollection) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrEmptyVector)
}
