package agents

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/elevenlabs"
	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/minio"
	"github.com/mindloft/wellness/v1/vectordb"

	"github.com/google/uuid"
)

// Exercise is one entry in the mental exercise catalog.
type Exercise struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	DurationMinutes int      `json:"duration_minutes"`
	Difficulty      string   `json:"difficulty"`
	Description     string   `json:"description"`
	Instructions    []string `json:"instructions"`
}

// exerciseCatalog is the built-in seed set. Recommendations come from
// semantic search over this catalog in the mental-exercises collection.
var exerciseCatalog = []Exercise{
	{
		ID:              "mindfulness-breathing",
		Name:            "5-Minute Mindful Breathing",
		Category:        "mindfulness",
		DurationMinutes: 5,
		Difficulty:      "beginner",
		Description:     "A short breathing meditation for anxiety, panic, and racing thoughts. Counting breaths anchors attention in the present moment.",
		Instructions: []string{
			"Find a comfortable seated position",
			"Close your eyes or soften your gaze",
			"Notice your natural breathing rhythm",
			"Count breaths from 1 to 10, then start over",
			"When your mind wanders, gently return to counting",
		},
	},
	{
		ID:              "cbt-thought-record",
		Name:            "Thought Record Exercise",
		Category:        "cbt",
		DurationMinutes: 10,
		Difficulty:      "beginner",
		Description:     "A cognitive behavioral exercise for challenging negative automatic thoughts, worry, and self-criticism by examining the evidence.",
		Instructions: []string{
			"Identify a situation that triggered difficult emotions",
			"Write down the automatic thoughts that came to mind",
			"Rate the intensity of emotions from 0 to 10",
			"Examine evidence for and against the thought",
			"Create a more balanced, realistic thought",
		},
	},
	{
		ID:              "activity-scheduling",
		Name:            "Meaningful Activity Planning",
		Category:        "behavioral-activation",
		DurationMinutes: 15,
		Difficulty:      "beginner",
		Description:     "A behavioral activation exercise for low mood, depression, and lack of motivation. Planning small meaningful activities rebuilds momentum.",
		Instructions: []string{
			"List three activities that used to bring you joy",
			"Pick the smallest, easiest one",
			"Schedule it for a specific time tomorrow",
			"Afterwards, note how you felt before and after",
		},
	},
	{
		ID:              "grounding-54321",
		Name:            "5-4-3-2-1 Grounding",
		Category:        "grounding",
		DurationMinutes: 5,
		Difficulty:      "beginner",
		Description:     "A sensory grounding technique for acute anxiety, dissociation, and overwhelm. Naming sensory details interrupts the spiral.",
		Instructions: []string{
			"Name five things you can see",
			"Name four things you can touch",
			"Name three things you can hear",
			"Name two things you can smell",
			"Name one thing you can taste",
		},
	},
	{
		ID:              "progressive-muscle-relaxation",
		Name:            "Progressive Muscle Relaxation",
		Category:        "relaxation",
		DurationMinutes: 15,
		Difficulty:      "intermediate",
		Description:     "A body-based relaxation exercise for physical tension, stress, and trouble sleeping. Tensing and releasing muscle groups releases stored stress.",
		Instructions: []string{
			"Lie down or sit comfortably",
			"Starting with your feet, tense the muscles for five seconds",
			"Release and notice the difference for ten seconds",
			"Move upward through legs, torso, arms, and face",
			"Finish with three slow, deep breaths",
		},
	},
	{
		ID:              "gratitude-listing",
		Name:            "Three Good Things",
		Category:        "positive-psychology",
		DurationMinutes: 5,
		Difficulty:      "beginner",
		Description:     "A gratitude exercise for persistent negativity and rumination. Writing down positive moments retrains attention toward the good.",
		Instructions: []string{
			"Write down three things that went well today",
			"For each, write why it happened",
			"Notice your role in making it happen",
		},
	},
}

// MentalExerciseAgent recommends exercises by semantic similarity to
// the user's described state and can narrate them as audio.
type MentalExerciseAgent struct {
	llm     gemini.Service
	vectors vectordb.Service
	speech  elevenlabs.Service
	media   minio.Client
	log     *logger.Logger
}

// MentalExerciseParams defines the dependencies for the exercise agent.
type MentalExerciseParams struct {
	fx.In

	LLM     gemini.Service
	Vectors vectordb.Service
	Speech  elevenlabs.Service `optional:"true"`
	Media   minio.Client       `optional:"true"`
	Logger  *logger.Logger     `optional:"true"`
}

// NewMentalExerciseAgent constructs the exercise agent.
func NewMentalExerciseAgent(p MentalExerciseParams) *MentalExerciseAgent {
	return &MentalExerciseAgent{
		llm:     p.LLM,
		vectors: p.Vectors,
		speech:  p.Speech,
		media:   p.Media,
		log:     p.Logger,
	}
}

func (a *MentalExerciseAgent) Name() string { return AgentMentalExercise }

func (a *MentalExerciseAgent) Description() string {
	return "Mental exercise recommendation by semantic similarity"
}

// SeedCatalog embeds the built-in exercises and upserts them into the
// shared catalog collection. Idempotent: records keep stable IDs.
func (a *MentalExerciseAgent) SeedCatalog(ctx context.Context) error {
	texts := make([]string, len(exerciseCatalog))
	for i, exercise := range exerciseCatalog {
		texts[i] = exercise.Name + ". " + exercise.Description
	}

	vectors, err := a.llm.EmbedTexts(ctx, texts, vectordb.DimensionCompact)
	if err != nil {
		return fmt.Errorf("[Agents] embed exercise catalog: %w", err)
	}
	if len(vectors) != len(exerciseCatalog) {
		return fmt.Errorf("[Agents] embed exercise catalog: got %d vectors for %d exercises",
			len(vectors), len(exerciseCatalog))
	}

	records := make([]vectordb.Record, len(exerciseCatalog))
	for i, exercise := range exerciseCatalog {
		records[i] = vectordb.Record{
			ID:     catalogPointID(exercise.ID),
			Vector: vectors[i],
			Metadata: map[string]any{
				"exercise_id":      exercise.ID,
				"name":             exercise.Name,
				"category":         exercise.Category,
				"duration_minutes": exercise.DurationMinutes,
				"difficulty":       exercise.Difficulty,
			},
		}
	}
	return a.vectors.Upsert(ctx, vectordb.CollectionMentalExercises, records)
}

// catalogPointID derives a stable UUID from the exercise ID so reseeds
// overwrite instead of duplicating.
func catalogPointID(exerciseID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("mental-exercise:"+exerciseID)).String()
}

// Handle recommends exercises. Payload: user_id, state (free-text
// description of how the user feels); optional top_k, difficulty,
// want_audio.
func (a *MentalExerciseAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	if _, err := msg.StringField("user_id"); err != nil {
		return nil, err
	}
	state, err := msg.StringField("state")
	if err != nil {
		return nil, err
	}
	topK := msg.IntField("top_k", 3)

	vector, err := a.llm.EmbedText(ctx, state, vectordb.DimensionCompact)
	if err != nil {
		return nil, err
	}

	// The catalog is shared, so the search is deliberately not scoped
	// to the requesting user.
	request := vectordb.SearchRequest{
		CollectionName: vectordb.CollectionMentalExercises,
		Vector:         vector,
		TopK:           topK,
	}
	if difficulty := msg.OptionalString("difficulty"); difficulty != "" {
		request.Filters = vectordb.NewFilterSet(
			vectordb.Must(vectordb.NewMatch("difficulty", difficulty)),
		)
	}

	results, err := a.vectors.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	recommendations := make([]map[string]any, 0, topK)
	if len(results) > 0 {
		for _, hit := range results[0] {
			item := map[string]any{"score": hit.Score}
			exercise, ok := exerciseByID(hit.Payload["exercise_id"])
			if ok {
				item["exercise"] = exercise
			} else {
				item["metadata"] = hit.Payload
			}
			recommendations = append(recommendations, item)
		}
	}

	// Vector search coming back empty still yields a usable answer.
	if len(recommendations) == 0 {
		recommendations = append(recommendations, map[string]any{
			"exercise": exerciseCatalog[0],
			"score":    float32(0),
		})
	}

	payload := map[string]any{"recommendations": recommendations}

	if msg.BoolField("want_audio") {
		if exercise, ok := recommendations[0]["exercise"].(Exercise); ok {
			userID := msg.OptionalString("user_id")
			if audioURL := a.narrate(ctx, userID, exercise); audioURL != "" {
				payload["audio_url"] = audioURL
			}
		}
	}

	return msg.Respond(payload), nil
}

// narrate synthesizes spoken guidance for an exercise and returns a
// presigned URL to the clip. Empty on any failure.
func (a *MentalExerciseAgent) narrate(ctx context.Context, userID string, exercise Exercise) string {
	if a.speech == nil || a.media == nil {
		return ""
	}

	script := exercise.Name + ". "
	for _, step := range exercise.Instructions {
		script += step + ". "
	}

	audio, err := a.speech.SynthesizeForAgent(ctx, script, AgentMentalExercise)
	if err != nil {
		a.warn("Exercise narration failed", err)
		return ""
	}

	key := minio.AudioObjectKey(userID, exercise.ID+"-"+uuid.NewString())
	if err := a.media.PutBytes(ctx, key, audio, "audio/mpeg"); err != nil {
		a.warn("Narration upload failed", err)
		return ""
	}

	url, err := a.media.PreSignedGet(ctx, key)
	if err != nil {
		a.warn("Narration presign failed", err)
		return ""
	}
	return url
}

func (a *MentalExerciseAgent) warn(msg string, err error) {
	if a.log != nil {
		a.log.Warn(msg, err, map[string]interface{}{"agent": AgentMentalExercise})
	}
}

func exerciseByID(raw any) (Exercise, bool) {
	id, ok := raw.(string)
	if !ok {
		return Exercise{}, false
	}
	for _, exercise := range exerciseCatalog {
		if exercise.ID == id {
			return exercise, true
		}
	}
	return Exercise{}, false
}
