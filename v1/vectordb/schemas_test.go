package vectordb

import (
	"errors"
	"testing"
)

func TestSchemaForKnownCollections(t *testing.T) {
	tests := []struct {
		collection string
		dimension  int
	}{
		{CollectionUserMentalProfiles, 768},
		{CollectionJournalEntries, 768},
		{CollectionTherapySessions, 768},
		{CollectionMentalExercises, 384},
		{CollectionProgressTracking, 384},
	}

	for _, tt := range tests {
		schema, err := SchemaFor(tt.collection)
		if err != nil {
			t.Fatalf("SchemaFor(%q) returned error: %v", tt.collection, err)
		}
		if schema.Dimension != tt.dimension {
			t.Errorf("SchemaFor(%q).Dimension = %d, want %d", tt.collection, schema.Dimension, tt.dimension)
		}
		if schema.Distance != DistanceCosine {
			t.Errorf("SchemaFor(%q).Distance = %q, want %q", tt.collection, schema.Distance, DistanceCosine)
		}
	}
}

func TestSchemaForUnknownCollection(t *testing.T) {
	_, err := SchemaFor("unknown-collection")
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestAllSchemasCoversEveryCollection(t *testing.T) {
	all := AllSchemas()
	if len(all) != 5 {
		t.Fatalf("expected 5 schemas, got %d", len(all))
	}

	seen := map[string]bool{}
	for _, schema := range all {
		seen[schema.Name] = true
	}
	for _, name := range []string{
		CollectionUserMentalProfiles,
		CollectionJournalEntries,
		CollectionTherapySessions,
		CollectionMentalExercises,
		CollectionProgressTracking,
	} {
		if !seen[name] {
			t.Errorf("AllSchemas missing %q", name)
		}
	}
}

func TestValidateVector(t *testing.T) {
	if err := ValidateVector(CollectionJournalEntries, make([]float32, 768)); err != nil {
		t.Errorf("expected 768-dim vector to validate, got %v", err)
	}

	err := ValidateVector(CollectionJournalEntries, make([]float32, 384))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	err = ValidateVector("nope", make([]float32, 768))
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestIsPermanent(t *testing.T) {
	for _, err := range []error{ErrUnknownCollection, ErrDimensionMismatch, ErrInsufficientData, ErrEmptyVector} {
		if !IsPermanent(err) {
			t.Errorf("expected %v to be permanent", err)
		}
	}
	if IsPermanent(errors.New("transient network blip")) {
		t.Error("unrelated errors must not be permanent")
	}
}
