package vectordb

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlattenPayloadSystemFields(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 2, 11, 0, 0, 0, time.UTC)

	payload := FlattenPayload(Record{
		ID:        "p-1",
		UserID:    "u-1",
		CreatedAt: created,
		UpdatedAt: updated,
	})

	if payload[PayloadFieldUserID] != "u-1" {
		t.Errorf("user_id = %v, want u-1", payload[PayloadFieldUserID])
	}
	if payload[PayloadFieldCreatedAt] != "2025-03-01T10:00:00Z" {
		t.Errorf("created_at = %v", payload[PayloadFieldCreatedAt])
	}
	if payload[PayloadFieldUpdatedAt] != "2025-03-02T11:00:00Z" {
		t.Errorf("updated_at = %v", payload[PayloadFieldUpdatedAt])
	}
}

func TestFlattenPayloadExcludesReservedKeys(t *testing.T) {
	payload := FlattenPayload(Record{
		UserID: "u-1",
		Metadata: map[string]any{
			"id":         "spoofed",
			"user_id":    "spoofed",
			"vector":     []float32{1},
			"created_at": "spoofed",
			"updated_at": "spoofed",
			"metadata":   map[string]any{"nested": true},
			"mood_score": 7.5,
		},
	})

	if payload[PayloadFieldUserID] != "u-1" {
		t.Errorf("reserved metadata key must not shadow user_id, got %v", payload[PayloadFieldUserID])
	}
	if _, ok := payload["vector"]; ok {
		t.Error("vector must never appear in the payload")
	}
	if _, ok := payload["metadata"]; ok {
		t.Error("metadata must never appear in the payload")
	}
	if payload["mood_score"] != 7.5 {
		t.Errorf("mood_score = %v, want 7.5", payload["mood_score"])
	}
}

func TestFlattenPayloadStringifiesCompoundValues(t *testing.T) {
	payload := FlattenPayload(Record{
		UserID: "u-1",
		Metadata: map[string]any{
			"triggers": []string{"work", "sleep"},
			"context":  map[string]any{"location": "home"},
			"note":     "plain string stays",
			"count":    3,
		},
	})

	triggers, ok := payload["triggers"].(string)
	if !ok {
		t.Fatalf("triggers should be stringified, got %T", payload["triggers"])
	}
	var decoded []string
	if err := json.Unmarshal([]byte(triggers), &decoded); err != nil {
		t.Fatalf("triggers is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "work" {
		t.Errorf("triggers round-trip = %v", decoded)
	}

	if _, ok := payload["context"].(string); !ok {
		t.Errorf("context should be stringified, got %T", payload["context"])
	}
	if payload["note"] != "plain string stays" {
		t.Errorf("note = %v", payload["note"])
	}
	if payload["count"] != 3 {
		t.Errorf("count = %v, want native 3", payload["count"])
	}
}

func TestRecordFromPayloadRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	original := Record{
		ID:        "p-1",
		UserID:    "u-1",
		Vector:    []float32{0.1, 0.2},
		CreatedAt: created,
		UpdatedAt: created,
		Metadata: map[string]any{
			"mood_score": 7.5,
			"note":       "slept well",
		},
	}

	restored := RecordFromPayload(original.ID, original.Vector, FlattenPayload(original))

	if restored.UserID != "u-1" {
		t.Errorf("UserID = %q", restored.UserID)
	}
	if !restored.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", restored.CreatedAt, created)
	}
	if restored.Metadata["mood_score"] != 7.5 {
		t.Errorf("mood_score = %v", restored.Metadata["mood_score"])
	}
	if restored.Metadata["note"] != "slept well" {
		t.Errorf("note = %v", restored.Metadata["note"])
	}
	if _, ok := restored.Metadata[PayloadFieldUserID]; ok {
		t.Error("system fields must not leak into metadata")
	}
}

func TestRecordFromPayloadMalformedTimestamp(t *testing.T) {
	record := RecordFromPayload("p-1", nil, map[string]any{
		PayloadFieldCreatedAt: "not-a-time",
		PayloadFieldUpdatedAt: 42,
	})
	if !record.CreatedAt.IsZero() || !record.UpdatedAt.IsZero() {
		t.Error("malformed timestamps should parse to zero times")
	}
}
