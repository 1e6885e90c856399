package vectordb

import "fmt"

// The platform's mental-health collections. High-signal content (profiles,
// journal entries, therapy sessions) uses full 768-dimensional embeddings;
// catalog-style content (exercises, progress snapshots) uses 384 dimensions
// to keep the index small.
const (
	CollectionUserMentalProfiles = "user-mental-profiles"
	CollectionJournalEntries     = "journal-entries"
	CollectionTherapySessions    = "therapy-sessions"
	CollectionMentalExercises    = "mental-exercises"
	CollectionProgressTracking   = "progress-tracking"
)

// Embedding dimensions used across the platform.
const (
	DimensionFull    = 768
	DimensionCompact = 384
)

// DistanceCosine is the similarity metric for all collections.
// Embeddings are compared by angle; magnitude carries no meaning.
const DistanceCosine = "Cosine"

// Schema describes a collection's fixed layout.
type Schema struct {
	// Name is the collection name in the vector database
	Name string

	// Dimension is the required vector length for every point
	Dimension int

	// Distance is the similarity metric ("Cosine")
	Distance string

	// Description documents what the collection stores
	Description string
}

var schemas = map[string]Schema{
	CollectionUserMentalProfiles: {
		Name:        CollectionUserMentalProfiles,
		Dimension:   DimensionFull,
		Distance:    DistanceCosine,
		Description: "Aggregated mental-state profile per user",
	},
	CollectionJournalEntries: {
		Name:        CollectionJournalEntries,
		Dimension:   DimensionFull,
		Distance:    DistanceCosine,
		Description: "Journal entry embeddings with mood and trigger metadata",
	},
	CollectionTherapySessions: {
		Name:        CollectionTherapySessions,
		Dimension:   DimensionFull,
		Distance:    DistanceCosine,
		Description: "Therapy session summaries",
	},
	CollectionMentalExercises: {
		Name:        CollectionMentalExercises,
		Dimension:   DimensionCompact,
		Distance:    DistanceCosine,
		Description: "Mental exercise catalog for recommendation",
	},
	CollectionProgressTracking: {
		Name:        CollectionProgressTracking,
		Dimension:   DimensionCompact,
		Distance:    DistanceCosine,
		Description: "Progress tracking snapshots",
	},
}

// SchemaFor returns the schema for a collection name.
// Unknown collections return ErrUnknownCollection.
func SchemaFor(collection string) (Schema, error) {
	schema, ok := schemas[collection]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return schema, nil
}

// AllSchemas returns the schemas of every platform collection.
// Used at startup to ensure all collections exist.
func AllSchemas() []Schema {
	out := make([]Schema, 0, len(schemas))
	for _, name := range []string{
		CollectionUserMentalProfiles,
		CollectionJournalEntries,
		CollectionTherapySessions,
		CollectionMentalExercises,
		CollectionProgressTracking,
	} {
		out = append(out, schemas[name])
	}
	return out
}

// ValidateVector checks that a vector matches the collection's dimension.
// This runs before any network call so dimension bugs surface immediately.
func ValidateVector(collection string, vector []float32) error {
	schema, err := SchemaFor(collection)
	if err != nil {
		return err
	}
	if len(vector) != schema.Dimension {
		return fmt.Errorf("%w: collection %q requires %d dimensions, got %d",
			ErrDimensionMismatch, collection, schema.Dimension, len(vector))
	}
	return nil
}
