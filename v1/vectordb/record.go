package vectordb

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload field names managed by the subsystem. Metadata entries using these
// keys are skipped during flattening so they cannot shadow system fields.
const (
	PayloadFieldUserID    = "user_id"
	PayloadFieldCreatedAt = "created_at"
	PayloadFieldUpdatedAt = "updated_at"
)

var reservedPayloadKeys = map[string]struct{}{
	"id":                  {},
	PayloadFieldUserID:    {},
	"vector":              {},
	PayloadFieldCreatedAt: {},
	PayloadFieldUpdatedAt: {},
	"metadata":            {},
}

// FlattenPayload converts a record into the flat payload stored alongside its
// vector. System fields (user_id, created_at, updated_at) are stored
// top-level; metadata entries are merged in next to them with two rules:
//
//   - reserved keys (id, user_id, vector, created_at, updated_at, metadata)
//     are skipped
//   - slices and maps are JSON-stringified; scalars are stored natively
//
// Timestamps are stored as RFC3339 strings so range filters work across
// database backends.
func FlattenPayload(record Record) map[string]any {
	payload := make(map[string]any, len(record.Metadata)+3)

	payload[PayloadFieldUserID] = record.UserID
	payload[PayloadFieldCreatedAt] = record.CreatedAt.UTC().Format(time.RFC3339)
	payload[PayloadFieldUpdatedAt] = record.UpdatedAt.UTC().Format(time.RFC3339)

	for key, value := range record.Metadata {
		if _, reserved := reservedPayloadKeys[key]; reserved {
			continue
		}
		payload[key] = flattenValue(value)
	}

	return payload
}

// flattenValue stringifies compound values; scalars pass through unchanged.
func flattenValue(value any) any {
	switch value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return value
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		// Unmarshalable values (channels, funcs) should never reach a
		// payload; fall back to their Go representation.
		return fmt.Sprint(value)
	}
	return string(encoded)
}

// RecordFromPayload rebuilds a Record from a stored point. System fields are
// lifted out of the payload; everything else becomes metadata. Malformed
// timestamps are left as zero times rather than failing the whole fetch.
func RecordFromPayload(id string, vector []float32, payload map[string]any) Record {
	record := Record{
		ID:       id,
		Vector:   vector,
		Metadata: make(map[string]any, len(payload)),
	}

	for key, value := range payload {
		switch key {
		case PayloadFieldUserID:
			if s, ok := value.(string); ok {
				record.UserID = s
			}
		case PayloadFieldCreatedAt:
			record.CreatedAt = parseTimestamp(value)
		case PayloadFieldUpdatedAt:
			record.UpdatedAt = parseTimestamp(value)
		default:
			record.Metadata[key] = value
		}
	}

	return record
}

func parseTimestamp(value any) time.Time {
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
