package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mindloft/wellness/v1/vectordb"
)

func TestSeedCatalog(t *testing.T) {
	llm := &fakeLLM{}
	vectors := newFakeVectors()
	agent := &MentalExerciseAgent{llm: llm, vectors: vectors}

	if err := agent.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	records := vectors.upserts[vectordb.CollectionMentalExercises]
	if len(records) != len(exerciseCatalog) {
		t.Fatalf("expected %d records, got %d", len(exerciseCatalog), len(records))
	}
	if llm.dimension != vectordb.DimensionCompact {
		t.Errorf("catalog must embed at %d dimensions, got %d", vectordb.DimensionCompact, llm.dimension)
	}
	for i, record := range records {
		if record.ID != catalogPointID(exerciseCatalog[i].ID) {
			t.Errorf("record %d: unstable point id %q", i, record.ID)
		}
		if record.Metadata["exercise_id"] != exerciseCatalog[i].ID {
			t.Errorf("record %d: missing exercise_id metadata", i)
		}
	}
}

func TestSeedCatalogIsStable(t *testing.T) {
	if catalogPointID("mindfulness-breathing") != catalogPointID("mindfulness-breathing") {
		t.Error("point ids must be deterministic")
	}
	if catalogPointID("a") == catalogPointID("b") {
		t.Error("different exercises must get different point ids")
	}
}

func TestExerciseRecommendation(t *testing.T) {
	vectors := newFakeVectors()
	vectors.searches = [][]vectordb.SearchResult{{
		{ID: "p1", Score: 0.92, Payload: map[string]any{"exercise_id": "grounding-54321"}},
		{ID: "p2", Score: 0.80, Payload: map[string]any{"exercise_id": "mindfulness-breathing"}},
	}}
	agent := &MentalExerciseAgent{llm: &fakeLLM{}, vectors: vectors}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{
		"user_id": "u1",
		"state":   "I feel panicky and overwhelmed",
	})
	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	recommendations, ok := resp.Payload["recommendations"].([]map[string]any)
	if !ok || len(recommendations) != 2 {
		t.Fatalf("unexpected recommendations: %v", resp.Payload["recommendations"])
	}
	first, ok := recommendations[0]["exercise"].(Exercise)
	if !ok || first.ID != "grounding-54321" {
		t.Errorf("expected the grounding exercise first, got %+v", recommendations[0])
	}
}

// A difficulty filter must address the key SeedCatalog stores, or it
// could never narrow the search.
func TestExerciseDifficultyFilter(t *testing.T) {
	llm := &fakeLLM{}
	vectors := newFakeVectors()
	agent := &MentalExerciseAgent{llm: llm, vectors: vectors}

	if err := agent.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{
		"user_id":    "u1",
		"state":      "tense and wired",
		"difficulty": "intermediate",
	})
	if _, err := agent.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(vectors.searchReqs) != 1 {
		t.Fatalf("expected 1 search request, got %d", len(vectors.searchReqs))
	}
	filters := vectors.searchReqs[0].Filters
	if filters == nil || filters.Must == nil || len(filters.Must.Conditions) != 1 {
		t.Fatalf("expected a single must condition, got %+v", filters)
	}
	match, ok := filters.Must.Conditions[0].(*vectordb.MatchCondition)
	if !ok || match.Field != "difficulty" || match.Value != "intermediate" {
		t.Fatalf("unexpected condition: %+v", filters.Must.Conditions[0])
	}

	// The condition key must exist in the stored payload of a matching
	// catalog record.
	matched := false
	for _, record := range vectors.upserts[vectordb.CollectionMentalExercises] {
		payload := vectordb.FlattenPayload(record)
		if payload[match.Field] == match.Value {
			matched = true
		}
	}
	if !matched {
		t.Error("no seeded record satisfies the difficulty filter")
	}
}

func TestExerciseRecommendationWithoutDifficultyHasNoFilter(t *testing.T) {
	vectors := newFakeVectors()
	agent := &MentalExerciseAgent{llm: &fakeLLM{}, vectors: vectors}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{"user_id": "u1", "state": "restless"})
	if _, err := agent.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(vectors.searchReqs) != 1 || vectors.searchReqs[0].Filters != nil {
		t.Errorf("expected an unfiltered search, got %+v", vectors.searchReqs)
	}
}

func TestExerciseRecommendationFallback(t *testing.T) {
	agent := &MentalExerciseAgent{llm: &fakeLLM{}, vectors: newFakeVectors()}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{
		"user_id": "u1",
		"state":   "restless",
	})
	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	recommendations, _ := resp.Payload["recommendations"].([]map[string]any)
	if len(recommendations) != 1 {
		t.Fatalf("expected the fallback recommendation, got %v", resp.Payload["recommendations"])
	}
}

func TestExerciseNarration(t *testing.T) {
	vectors := newFakeVectors()
	vectors.searches = [][]vectordb.SearchResult{{
		{ID: "p1", Score: 0.9, Payload: map[string]any{"exercise_id": "mindfulness-breathing"}},
	}}
	agent := &MentalExerciseAgent{
		llm:     &fakeLLM{},
		vectors: vectors,
		speech:  &fakeSpeech{audio: []byte("mp3")},
		media:   newFakeMedia(),
	}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{
		"user_id":    "u1",
		"state":      "anxious",
		"want_audio": true,
	})
	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	audioURL, _ := resp.Payload["audio_url"].(string)
	if !strings.Contains(audioURL, "audio/u1/mindfulness-breathing-") {
		t.Errorf("unexpected audio url: %q", audioURL)
	}
}

func TestExerciseEmbedFailure(t *testing.T) {
	agent := &MentalExerciseAgent{
		llm:     &fakeLLM{embedErr: errors.New("embedding down")},
		vectors: newFakeVectors(),
	}

	msg := NewRequest("api", AgentMentalExercise, map[string]any{"user_id": "u1", "state": "sad"})
	if _, err := agent.Handle(context.Background(), msg); err == nil {
		t.Error("expected the embedding error to surface")
	}
}
