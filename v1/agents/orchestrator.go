package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/vectordb"
)

// routingTable maps a request topic to the specialist that owns it.
var routingTable = map[string]string{
	"therapy":    AgentTherapy,
	"journal":    AgentJournaling,
	"journaling": AgentJournaling,
	"fitness":    AgentFitness,
	"nutrition":  AgentNutrition,
	"schedule":   AgentScheduling,
	"scheduling": AgentScheduling,
	"exercise":   AgentMentalExercise,
	"exercises":  AgentMentalExercise,
}

// RouteFor resolves a request topic to its specialist agent name.
func RouteFor(topic string) (string, error) {
	agent, ok := routingTable[topic]
	if !ok {
		return "", fmt.Errorf("%w: topic %q", ErrUnroutable, topic)
	}
	return agent, nil
}

// OrchestratorAgent is the platform's front door. It routes requests
// to specialists, maintains each user's aggregated mental profile,
// derives pattern insights through clustering, and assembles the
// wellness timeline.
type OrchestratorAgent struct {
	dispatcher *Dispatcher
	llm        gemini.Service
	vectors    vectordb.Service
	events     kafka.Client
	log        *logger.Logger

	clusterWindow time.Duration
	clusterFetch  int
}

// OrchestratorParams defines the dependencies for the orchestrator.
type OrchestratorParams struct {
	fx.In

	Dispatcher *Dispatcher
	LLM        gemini.Service
	Vectors    vectordb.Service
	Events     kafka.Client   `optional:"true"`
	Logger     *logger.Logger `optional:"true"`
}

// NewOrchestratorAgent constructs the orchestrator.
func NewOrchestratorAgent(p OrchestratorParams) *OrchestratorAgent {
	return &OrchestratorAgent{
		dispatcher:    p.Dispatcher,
		llm:           p.LLM,
		vectors:       p.Vectors,
		events:        p.Events,
		log:           p.Logger,
		clusterWindow: vectordb.DefaultClusterWindow * 24 * time.Hour,
		clusterFetch:  vectordb.DefaultClusterFetch,
	}
}

func (a *OrchestratorAgent) Name() string { return AgentOrchestrator }

func (a *OrchestratorAgent) Description() string {
	return "Request routing, pattern insights, mental profile, wellness timeline"
}

// Handle processes one orchestrator request. Payload: user_id and
// topic. Topics "insights" and "timeline" are handled here; everything
// else routes to a specialist.
func (a *OrchestratorAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	topic, err := msg.StringField("topic")
	if err != nil {
		return nil, err
	}

	switch topic {
	case "insights":
		return a.handleInsights(ctx, msg, userID)
	case "timeline":
		return a.handleTimeline(ctx, msg, userID)
	}

	specialist, err := RouteFor(topic)
	if err != nil {
		return nil, err
	}

	forwarded := *msg
	forwarded.Recipient = specialist
	response, err := a.dispatcher.Dispatch(ctx, &forwarded)
	if err != nil {
		return nil, err
	}

	// Urgent specialist responses carry crisis escalations; keep the
	// profile current so the next insight run sees them.
	if response != nil && response.Priority == PriorityUrgent {
		a.refreshProfile(ctx, userID, "crisis escalation from "+specialist)
	}
	return response, nil
}

// handleInsights clusters the user's recent journal history into
// behavioral patterns.
func (a *OrchestratorAgent) handleInsights(ctx context.Context, msg *Message, userID string) (*Message, error) {
	insights, summary, err := a.PatternInsights(ctx, userID)
	if err != nil {
		return nil, err
	}

	return msg.Respond(map[string]any{
		"insights": insights,
		"summary":  summary,
	}), nil
}

// PatternInsights fetches the user's recent journal vectors, clusters
// them, and derives per-cluster characteristics. Publishes an
// insight.generated event and refreshes the user's mental profile.
func (a *OrchestratorAgent) PatternInsights(ctx context.Context, userID string) ([]vectordb.PatternInsight, string, error) {
	since := time.Now().Add(-a.clusterWindow)
	records, err := a.vectors.Scroll(ctx, vectordb.ScrollRequest{
		CollectionName: vectordb.CollectionJournalEntries,
		UserID:         userID,
		TimeWindow:     &vectordb.TimeRange{Gte: &since},
		Limit:          a.clusterFetch,
	})
	if err != nil {
		return nil, "", err
	}

	clusters, err := vectordb.KMeans(records, vectordb.ClusterOptions{})
	if err != nil {
		return nil, "", err
	}

	insights := vectordb.AnalyzeClusters(clusters)
	summary := vectordb.SummarizeInsights(insights)

	if a.events != nil {
		err := a.events.PublishEvent(ctx, &kafka.Event{
			Type:   kafka.EventInsightGenerated,
			UserID: userID,
			Source: AgentOrchestrator,
			Payload: map[string]interface{}{
				"clusters": len(insights),
				"summary":  summary,
			},
		})
		if err != nil {
			a.warn("Insight event publish failed", err, userID)
		}
	}

	a.refreshProfile(ctx, userID, summary)

	return insights, summary, nil
}

// handleTimeline assembles the user's merged wellness history.
func (a *OrchestratorAgent) handleTimeline(ctx context.Context, msg *Message, userID string) (*Message, error) {
	timeline, err := a.Timeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(timeline))
	for _, entry := range timeline {
		items = append(items, map[string]any{
			"source":     entry.Source,
			"point_id":   entry.Record.ID,
			"created_at": entry.Record.CreatedAt.Format(time.RFC3339),
			"metadata":   entry.Record.Metadata,
		})
	}
	return msg.Respond(map[string]any{"timeline": items}), nil
}

// Timeline fetches the user's journal, therapy, and progress history
// concurrently and merges it newest first.
func (a *OrchestratorAgent) Timeline(ctx context.Context, userID string) ([]vectordb.TimelineEntry, error) {
	collections := []string{
		vectordb.CollectionJournalEntries,
		vectordb.CollectionTherapySessions,
		vectordb.CollectionProgressTracking,
	}

	sources := make(map[string][]vectordb.Record, len(collections))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	for _, collection := range collections {
		group.Go(func() error {
			records, err := a.vectors.Scroll(ctx, vectordb.ScrollRequest{
				CollectionName: collection,
				UserID:         userID,
				Limit:          vectordb.TimelineLimitFor(collection),
			})
			if err != nil {
				return fmt.Errorf("[Agents] timeline fetch %s: %w", collection, err)
			}
			mu.Lock()
			sources[collection] = records
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return vectordb.MergeTimeline(sources), nil
}

// refreshProfile re-embeds the user's aggregated mental state summary
// into the profile collection under a stable per-user point. Best
// effort: profile staleness must not fail the request that noticed it.
func (a *OrchestratorAgent) refreshProfile(ctx context.Context, userID, summary string) {
	if summary == "" {
		return
	}

	vector, err := a.llm.EmbedText(ctx, summary, vectordb.DimensionFull)
	if err != nil {
		a.warn("Profile embedding failed", err, userID)
		return
	}

	record := vectordb.Record{
		ID:     profilePointID(userID),
		UserID: userID,
		Vector: vector,
		Metadata: map[string]any{
			"summary":    summary,
			"updated_by": AgentOrchestrator,
		},
	}
	if err := a.vectors.Upsert(ctx, vectordb.CollectionUserMentalProfiles, []vectordb.Record{record}); err != nil {
		a.warn("Profile upsert failed", err, userID)
	}
}

// profilePointID derives the stable per-user profile point so refreshes
// overwrite instead of accumulating.
func profilePointID(userID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("mental-profile:"+userID)).String()
}

func (a *OrchestratorAgent) warn(msg string, err error, userID string) {
	if a.log != nil {
		a.log.Warn(msg, err, map[string]interface{}{"agent": AgentOrchestrator, "user_id": userID})
	}
}
