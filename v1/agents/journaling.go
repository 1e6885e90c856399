package agents

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/analysis"
	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/vectordb"
)

// JournalingAgent captures journal entries: it analyzes the text,
// stores the embedding with its mood metadata, and reflects back.
type JournalingAgent struct {
	llm     gemini.Service
	vectors vectordb.Service
	events  kafka.Client
	log     *logger.Logger
}

// JournalingParams defines the dependencies for the journaling agent.
type JournalingParams struct {
	fx.In

	LLM     gemini.Service
	Vectors vectordb.Service
	Events  kafka.Client   `optional:"true"`
	Logger  *logger.Logger `optional:"true"`
}

// NewJournalingAgent constructs the journaling agent.
func NewJournalingAgent(p JournalingParams) *JournalingAgent {
	return &JournalingAgent{
		llm:     p.LLM,
		vectors: p.Vectors,
		events:  p.Events,
		log:     p.Logger,
	}
}

func (a *JournalingAgent) Name() string { return AgentJournaling }

func (a *JournalingAgent) Description() string {
	return "Journal entry capture with sentiment analysis and semantic storage"
}

// Handle stores one journal entry. Payload: user_id, text.
func (a *JournalingAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	text, err := msg.StringField("text")
	if err != nil {
		return nil, err
	}

	entry := analysis.AnalyzeEntry(text)

	pointID, err := a.storeEntry(ctx, userID, text, entry)
	if err != nil {
		return nil, err
	}

	if a.events != nil {
		err := a.events.PublishEvent(ctx, &kafka.Event{
			Type:   kafka.EventJournalCreated,
			UserID: userID,
			Source: AgentJournaling,
			Payload: map[string]interface{}{
				"point_id":       pointID,
				"sentiment":      entry.SentimentScore,
				"crisis_flagged": entry.Crisis.Detected,
			},
		})
		if err != nil && a.log != nil {
			a.log.Warn("Journal event publish failed", err, map[string]interface{}{"user_id": userID})
		}
	}

	payload := map[string]any{
		"point_id":         pointID,
		"sentiment":        entry.SentimentScore,
		"dominant_emotion": entry.DominantEmotion,
		"triggers":         entry.Triggers,
	}

	// Crisis indicators in a journal entry escalate the response so the
	// orchestrator can follow up, but the entry is stored either way.
	if entry.Crisis.Detected {
		payload["crisis"] = true
		payload["indicators"] = entry.Crisis.Indicators
		payload["reflection"] = crisisResponse
		return msg.RespondUrgent(payload), nil
	}

	payload["reflection"] = a.reflect(ctx, text)
	return msg.Respond(payload), nil
}

// storeEntry embeds the entry and upserts it with the metadata the
// clustering pipeline reads (mood_score, triggers, themes).
func (a *JournalingAgent) storeEntry(ctx context.Context, userID, text string, entry analysis.EntryAnalysis) (string, error) {
	prepared := analysis.PrepareForEmbedding(text, map[string]string{
		"mood": entry.DominantEmotion,
	})

	vector, err := a.llm.EmbedText(ctx, prepared, vectordb.DimensionFull)
	if err != nil {
		return "", err
	}

	metadata := map[string]any{
		"mood_score":        entry.SentimentScore,
		"dominant_emotion":  entry.DominantEmotion,
		"word_count":        entry.WordCount,
		"crisis_flagged":    entry.Crisis.Detected,
		"coping_mechanisms": entry.CopingMechanisms,
	}
	if len(entry.Triggers) > 0 {
		metadata["triggers"] = entry.Triggers
	}
	if entry.DominantEmotion != "" {
		metadata["themes"] = []string{entry.DominantEmotion}
	}

	record := vectordb.Record{
		ID:       uuid.NewString(),
		UserID:   userID,
		Vector:   vector,
		Metadata: metadata,
	}
	if err := a.vectors.Upsert(ctx, vectordb.CollectionJournalEntries, []vectordb.Record{record}); err != nil {
		return "", err
	}
	return record.ID, nil
}

// reflect asks the model for a short acknowledgment. The entry is
// already stored when this runs, so failures fall back to a canned
// line instead of failing the message.
func (a *JournalingAgent) reflect(ctx context.Context, text string) string {
	reflection, err := a.llm.GenerateContent(ctx, gemini.GenerateRequest{
		SystemPrompt:    journalingPrompt,
		Prompt:          text,
		MaxOutputTokens: 150,
	})
	if err != nil {
		if a.log != nil {
			a.log.Warn("Journal reflection failed", err, nil)
		}
		return "Thank you for writing today. Your entry has been saved."
	}
	return reflection
}
