package agents

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/analysis"
	"github.com/mindloft/wellness/v1/elevenlabs"
	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/minio"
	"github.com/mindloft/wellness/v1/profile"
	"github.com/mindloft/wellness/v1/redis"
	"github.com/mindloft/wellness/v1/tavus"
	"github.com/mindloft/wellness/v1/vectordb"
)

// crisisResponse is returned immediately when crisis indicators are
// detected, before and regardless of any model call.
const crisisResponse = `I'm really glad you told me. What you're feeling matters,
and you don't have to face it alone. Please reach out right now to someone who
can help: call or text 988 (Suicide & Crisis Lifeline, available 24/7), or dial
your local emergency number if you are in immediate danger. If you can, tell
someone near you how you're feeling. I'm staying with you in this conversation.`

// SessionStore is the slice of the profile store the therapy agent
// writes through.
type SessionStore interface {
	SaveSession(ctx context.Context, session *profile.TherapySession) error
	CountCrisisFlags(ctx context.Context, userID string, since time.Time) (int64, error)
}

// TherapyAgent runs text therapy conversations. Every incoming message
// is scanned for crisis indicators first; the model, voice, and video
// integrations only run on the non-crisis path.
type TherapyAgent struct {
	llm           gemini.Service
	conversations redis.Client
	sessions      SessionStore
	vectors       vectordb.Service
	speech        elevenlabs.Service
	video         tavus.Service
	media         minio.Client
	events        kafka.Client
	log           *logger.Logger
}

// TherapyParams defines the dependencies for the therapy agent. Voice,
// video, media, and the event stream are optional; the agent degrades
// to text-only when they are absent.
type TherapyParams struct {
	fx.In

	LLM           gemini.Service
	Conversations redis.Client
	Sessions      *profile.Store
	Vectors       vectordb.Service
	Speech        elevenlabs.Service `optional:"true"`
	Video         tavus.Service      `optional:"true"`
	Media         minio.Client       `optional:"true"`
	Events        kafka.Client       `optional:"true"`
	Logger        *logger.Logger     `optional:"true"`
}

// NewTherapyAgent constructs the therapy agent.
func NewTherapyAgent(p TherapyParams) *TherapyAgent {
	return &TherapyAgent{
		llm:           p.LLM,
		conversations: p.Conversations,
		sessions:      p.Sessions,
		vectors:       p.Vectors,
		speech:        p.Speech,
		video:         p.Video,
		media:         p.Media,
		events:        p.Events,
		log:           p.Logger,
	}
}

func (a *TherapyAgent) Name() string { return AgentTherapy }

func (a *TherapyAgent) Description() string {
	return "Therapy conversations with crisis detection, voice and video sessions"
}

// Handle processes one therapy turn. Payload: user_id, text; optional
// want_audio, want_video booleans.
func (a *TherapyAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	text, err := msg.StringField("text")
	if err != nil {
		return nil, err
	}

	if allowed, _, err := a.conversations.Allow(ctx, AgentTherapy, userID); err != nil {
		// The limiter failing must not block a therapy conversation.
		a.logWarn("Rate limiter unavailable", err, userID)
	} else if !allowed {
		return msg.RespondError(redis.ErrRateLimited), nil
	}

	// Crisis check runs first and is pure: this path cannot be skipped
	// by a failing dependency.
	if crisis := analysis.DetectCrisis(text); crisis.Detected {
		return a.handleCrisis(ctx, msg, userID, text, crisis), nil
	}

	reply, err := a.generateReply(ctx, userID, text)
	if err != nil {
		// A failed model call on the therapy path escalates instead of
		// returning an opaque error to a possibly vulnerable user.
		a.logWarn("Reply generation failed, escalating", err, userID)
		return msg.RespondUrgent(map[string]any{
			"reply":     crisisResponse,
			"escalated": true,
		}), nil
	}

	a.recordTurns(ctx, userID, text, reply)

	payload := map[string]any{"reply": reply}
	if msg.BoolField("want_audio") {
		if audioURL := a.synthesizeReply(ctx, userID, reply); audioURL != "" {
			payload["audio_url"] = audioURL
		}
	}
	if msg.BoolField("want_video") {
		if videoURL := a.startVideoSession(ctx, userID); videoURL != "" {
			payload["video_url"] = videoURL
		}
	}

	sessionID := a.saveSession(ctx, userID, text, reply, false)
	if sessionID != "" {
		payload["session_id"] = sessionID
	}
	a.publishEvent(ctx, userID, kafka.EventSessionCompleted, map[string]interface{}{
		"session_id": sessionID,
	})

	return msg.Respond(payload), nil
}

// handleCrisis builds the immediate urgent response, flags the session,
// and publishes the escalation. All persistence is best effort; the
// response itself never depends on it.
func (a *TherapyAgent) handleCrisis(ctx context.Context, msg *Message, userID, text string, crisis analysis.CrisisReport) *Message {
	a.logWarn("Crisis indicators detected", nil, userID)

	sessionID := a.saveSession(ctx, userID, text, crisisResponse, true)

	if recent, err := a.sessions.CountCrisisFlags(ctx, userID, time.Now().AddDate(0, 0, -7)); err == nil && recent > 1 {
		a.logWarn("Repeated crisis flags this week", nil, userID)
	}

	a.publishEvent(ctx, userID, kafka.EventSessionCompleted, map[string]interface{}{
		"session_id":     sessionID,
		"crisis_flagged": true,
		"indicators":     crisis.Indicators,
	})

	return msg.RespondUrgent(map[string]any{
		"reply":      crisisResponse,
		"crisis":     true,
		"indicators": crisis.Indicators,
		"session_id": sessionID,
	})
}

func (a *TherapyAgent) generateReply(ctx context.Context, userID, text string) (string, error) {
	history, err := a.conversations.History(ctx, userID, AgentTherapy)
	if err != nil {
		a.logWarn("History fetch failed, continuing without context", err, userID)
		history = nil
	}

	turns := make([]gemini.Turn, 0, len(history))
	for _, turn := range history {
		role := gemini.RoleUser
		if turn.Role == redis.RoleAssistant {
			role = gemini.RoleModel
		}
		turns = append(turns, gemini.Turn{Role: role, Text: turn.Content})
	}

	return a.llm.GenerateContent(ctx, gemini.GenerateRequest{
		SystemPrompt: therapyPrompt,
		Prompt:       text,
		History:      turns,
	})
}

func (a *TherapyAgent) recordTurns(ctx context.Context, userID, text, reply string) {
	for _, turn := range []redis.ConversationTurn{
		{Role: redis.RoleUser, Content: text},
		{Role: redis.RoleAssistant, Content: reply},
	} {
		if err := a.conversations.AppendTurn(ctx, userID, AgentTherapy, turn); err != nil {
			a.logWarn("Turn append failed", err, userID)
			return
		}
	}
}

// synthesizeReply converts the reply to speech, stores the clip, and
// returns a presigned URL. Empty on any failure.
func (a *TherapyAgent) synthesizeReply(ctx context.Context, userID, reply string) string {
	if a.speech == nil || a.media == nil {
		return ""
	}

	audio, err := a.speech.SynthesizeForAgent(ctx, reply, AgentTherapy)
	if err != nil {
		a.logWarn("Speech synthesis failed", err, userID)
		return ""
	}

	key := minio.AudioObjectKey(userID, uuid.NewString())
	if err := a.media.PutBytes(ctx, key, audio, "audio/mpeg"); err != nil {
		a.logWarn("Audio upload failed", err, userID)
		return ""
	}

	url, err := a.media.PreSignedGet(ctx, key)
	if err != nil {
		a.logWarn("Audio presign failed", err, userID)
		return ""
	}
	return url
}

func (a *TherapyAgent) startVideoSession(ctx context.Context, userID string) string {
	if a.video == nil {
		return ""
	}

	conversation, err := a.video.CreateConversation(ctx, tavus.CreateConversationRequest{
		ConversationName: "therapy-" + userID,
	})
	if err != nil {
		a.logWarn("Video session creation failed", err, userID)
		return ""
	}
	return conversation.ConversationURL
}

// saveSession persists the session row and the transcript embedding.
// Returns the session ID, empty when the row could not be written.
func (a *TherapyAgent) saveSession(ctx context.Context, userID, text, reply string, crisisFlagged bool) string {
	pointID := uuid.NewString()
	session := &profile.TherapySession{
		UserID:        userID,
		Summary:       summarizeExchange(text, reply),
		CrisisFlagged: crisisFlagged,
		VectorPointID: pointID,
	}
	if err := a.sessions.SaveSession(ctx, session); err != nil {
		a.logWarn("Session save failed", err, userID)
		return ""
	}

	vector, err := a.llm.EmbedText(ctx, session.Summary, vectordb.DimensionFull)
	if err != nil {
		a.logWarn("Session embedding failed", err, userID)
		return session.ID
	}

	record := vectordb.Record{
		ID:     pointID,
		UserID: userID,
		Vector: vector,
		Metadata: map[string]any{
			"session_id":     session.ID,
			"crisis_flagged": crisisFlagged,
			"mood_score":     analysis.SentimentScore(text),
		},
	}
	if err := a.vectors.Upsert(ctx, vectordb.CollectionTherapySessions, []vectordb.Record{record}); err != nil {
		a.logWarn("Session vector upsert failed", err, userID)
	}
	return session.ID
}

func (a *TherapyAgent) publishEvent(ctx context.Context, userID, eventType string, payload map[string]interface{}) {
	if a.events == nil {
		return
	}
	err := a.events.PublishEvent(ctx, &kafka.Event{
		Type:    eventType,
		UserID:  userID,
		Source:  AgentTherapy,
		Payload: payload,
	})
	if err != nil {
		a.logWarn("Event publish failed", err, userID)
	}
}

func (a *TherapyAgent) logWarn(msg string, err error, userID string) {
	if a.log != nil {
		a.log.Warn(msg, err, map[string]interface{}{"agent": AgentTherapy, "user_id": userID})
	}
}

// summarizeExchange builds a compact transcript line for storage and
// embedding.
func summarizeExchange(text, reply string) string {
	return "user: " + truncate(text, 500) + "\nassistant: " + truncate(reply, 500)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return strings.TrimSpace(s[:max]) + "..."
}
