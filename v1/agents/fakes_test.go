package agents

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mindloft/wellness/v1/calendar"
	"github.com/mindloft/wellness/v1/elevenlabs"
	"github.com/mindloft/wellness/v1/gemini"
	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/profile"
	"github.com/mindloft/wellness/v1/redis"
	"github.com/mindloft/wellness/v1/tavus"
	"github.com/mindloft/wellness/v1/vectordb"
)

// ── LLM fake ─────────────────────────────────────────────────────────────────

type fakeLLM struct {
	reply      string
	generErr   error
	embedErr   error
	dimension  int
	generated  []gemini.GenerateRequest
	embedCalls []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, req gemini.GenerateRequest) (string, error) {
	f.generated = append(f.generated, req)
	if f.generErr != nil {
		return "", f.generErr
	}
	if f.reply == "" {
		return "ok", nil
	}
	return f.reply, nil
}

func (f *fakeLLM) EmbedTexts(_ context.Context, texts []string, dimension int) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		f.embedCalls = append(f.embedCalls, text)
		out[i] = make([]float32, dimension)
		out[i][0] = float32(len(text))
	}
	f.dimension = dimension
	return out, nil
}

func (f *fakeLLM) EmbedText(ctx context.Context, text string, dimension int) ([]float32, error) {
	vectors, err := f.EmbedTexts(ctx, []string{text}, dimension)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// ── Vector store fake ────────────────────────────────────────────────────────

type fakeVectors struct {
	mu         sync.Mutex
	upserts    map[string][]vectordb.Record
	scrolls    map[string][]vectordb.Record
	searches   [][]vectordb.SearchResult
	searchReqs []vectordb.SearchRequest

	upsertErr error
	scrollErr error
	searchErr error
}

func newFakeVectors() *fakeVectors {
	return &fakeVectors{
		upserts: map[string][]vectordb.Record{},
		scrolls: map[string][]vectordb.Record{},
	}
}

func (f *fakeVectors) Search(_ context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.mu.Lock()
	f.searchReqs = append(f.searchReqs, requests...)
	f.mu.Unlock()
	if f.searches != nil {
		return f.searches, nil
	}
	return make([][]vectordb.SearchResult, len(requests)), nil
}

func (f *fakeVectors) Upsert(_ context.Context, collection string, records []vectordb.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts[collection] = append(f.upserts[collection], records...)
	return nil
}

func (f *fakeVectors) Scroll(_ context.Context, request vectordb.ScrollRequest) ([]vectordb.Record, error) {
	if f.scrollErr != nil {
		return nil, f.scrollErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scrolls[request.CollectionName], nil
}

func (f *fakeVectors) Delete(context.Context, string, []string) error      { return nil }
func (f *fakeVectors) EnsureCollection(context.Context, string) error     { return nil }
func (f *fakeVectors) ListCollections(context.Context) ([]string, error)  { return nil, nil }
func (f *fakeVectors) GetCollection(context.Context, string) (*vectordb.Collection, error) {
	return nil, nil
}

// ── Conversation cache fake ──────────────────────────────────────────────────

type fakeConversations struct {
	turns    []redis.ConversationTurn
	history  []redis.ConversationTurn
	denied   bool
	allowErr error
}

func (f *fakeConversations) Ping(context.Context) error { return nil }
func (f *fakeConversations) Close() error               { return nil }

func (f *fakeConversations) AppendTurn(_ context.Context, _, _ string, turn redis.ConversationTurn) error {
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeConversations) History(context.Context, string, string) ([]redis.ConversationTurn, error) {
	return f.history, nil
}

func (f *fakeConversations) ClearConversation(context.Context, string, string) error { return nil }

func (f *fakeConversations) CacheJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (f *fakeConversations) FetchJSON(context.Context, string, interface{}) error {
	return redis.ErrNotFound
}

func (f *fakeConversations) Allow(context.Context, string, string) (bool, int64, error) {
	if f.allowErr != nil {
		return false, 0, f.allowErr
	}
	return !f.denied, 10, nil
}

func (f *fakeConversations) AllowN(context.Context, string, string, int64, time.Duration) (bool, int64, error) {
	return !f.denied, 10, nil
}

// ── Profile store fakes ──────────────────────────────────────────────────────

type fakeSessions struct {
	saved       []*profile.TherapySession
	crisisCount int64
	saveErr     error
}

func (f *fakeSessions) SaveSession(_ context.Context, session *profile.TherapySession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", len(f.saved)+1)
	}
	f.saved = append(f.saved, session)
	return nil
}

func (f *fakeSessions) CountCrisisFlags(context.Context, string, time.Time) (int64, error) {
	return f.crisisCount, nil
}

type fakePlans struct {
	saved  []*profile.WellnessPlan
	active []profile.WellnessPlan
}

func (f *fakePlans) SavePlan(_ context.Context, plan *profile.WellnessPlan) error {
	if plan.ID == "" {
		plan.ID = fmt.Sprintf("plan-%d", len(f.saved)+1)
	}
	f.saved = append(f.saved, plan)
	return nil
}

func (f *fakePlans) ActivePlans(context.Context, string, string) ([]profile.WellnessPlan, error) {
	return f.active, nil
}

type fakeAppointments struct {
	saved     []*profile.Appointment
	upcoming  []profile.Appointment
	cancelled []string
}

func (f *fakeAppointments) SaveAppointment(_ context.Context, appt *profile.Appointment) error {
	if appt.ID == "" {
		appt.ID = fmt.Sprintf("appt-%d", len(f.saved)+1)
	}
	f.saved = append(f.saved, appt)
	return nil
}

func (f *fakeAppointments) GetAppointment(_ context.Context, id string) (*profile.Appointment, error) {
	for _, appt := range f.saved {
		if appt.ID == id {
			return appt, nil
		}
	}
	for i := range f.upcoming {
		if f.upcoming[i].ID == id {
			return &f.upcoming[i], nil
		}
	}
	return nil, profile.ErrNotFound
}

func (f *fakeAppointments) UpcomingAppointments(context.Context, string, time.Time) ([]profile.Appointment, error) {
	return f.upcoming, nil
}

func (f *fakeAppointments) CancelAppointment(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

// ── Event stream fake ────────────────────────────────────────────────────────

type fakeEvents struct {
	mu        sync.Mutex
	published []*kafka.Event
}

func (f *fakeEvents) PublishEvent(_ context.Context, event *kafka.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEvents) Consume(context.Context, func(context.Context, *kafka.Event) error) error {
	return nil
}

func (f *fakeEvents) GracefulShutdown() error { return nil }

// ── Media and SaaS fakes ─────────────────────────────────────────────────────

type fakeSpeech struct {
	audio []byte
	err   error
}

func (f *fakeSpeech) Synthesize(context.Context, string, string) ([]byte, error) {
	return f.audio, f.err
}

func (f *fakeSpeech) SynthesizeForAgent(context.Context, string, string) ([]byte, error) {
	return f.audio, f.err
}

func (f *fakeSpeech) Voices(context.Context) ([]elevenlabs.Voice, error) { return nil, nil }

type fakeMedia struct {
	objects map[string][]byte
}

func newFakeMedia() *fakeMedia { return &fakeMedia{objects: map[string][]byte{}} }

func (f *fakeMedia) EnsureBucket(context.Context) error { return nil }

func (f *fakeMedia) Put(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeMedia) PutBytes(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeMedia) Get(_ context.Context, key string) ([]byte, error) {
	return f.objects[key], nil
}

func (f *fakeMedia) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeMedia) PreSignedGet(_ context.Context, key string) (string, error) {
	return "https://media.test/" + key, nil
}

func (f *fakeMedia) PreSignedPut(_ context.Context, key string) (string, error) {
	return "https://media.test/upload/" + key, nil
}

func (f *fakeMedia) GracefulShutdown() {}

type fakeVideo struct {
	url string
	err error
}

func (f *fakeVideo) CreateConversation(context.Context, tavus.CreateConversationRequest) (*tavus.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tavus.Conversation{ConversationID: "conv-1", ConversationURL: f.url}, nil
}

func (f *fakeVideo) GetConversation(context.Context, string) (*tavus.Conversation, error) {
	return nil, nil
}

func (f *fakeVideo) EndConversation(context.Context, string) error { return nil }

type fakeCalendar struct {
	created   []calendar.Event
	events    []calendar.Event
	slots     []time.Time
	deleted   []string
	deleteErr error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event calendar.Event) (*calendar.Event, error) {
	event.ID = fmt.Sprintf("evt-%d", len(f.created)+1)
	event.HTMLLink = "https://calendar.test/" + event.ID
	f.created = append(f.created, event)
	return &event, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) ListEvents(context.Context, time.Time, time.Time) ([]calendar.Event, error) {
	return f.events, nil
}

func (f *fakeCalendar) FindFreeSlots(context.Context, time.Time, time.Time, time.Duration) ([]time.Time, error) {
	return f.slots, nil
}
