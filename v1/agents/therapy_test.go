package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mindloft/wellness/v1/kafka"
	"github.com/mindloft/wellness/v1/redis"
	"github.com/mindloft/wellness/v1/vectordb"
)

func newTherapyAgent(llm *fakeLLM, conversations *fakeConversations, sessions *fakeSessions, vectors *fakeVectors) *TherapyAgent {
	return &TherapyAgent{
		llm:           llm,
		conversations: conversations,
		sessions:      sessions,
		vectors:       vectors,
	}
}

func therapyRequest(text string) *Message {
	return NewRequest("api", AgentTherapy, map[string]any{
		"user_id": "u1",
		"text":    text,
	})
}

func TestTherapyHappyPath(t *testing.T) {
	llm := &fakeLLM{reply: "That sounds difficult. What helped you cope today?"}
	conversations := &fakeConversations{history: []redis.ConversationTurn{
		{Role: redis.RoleUser, Content: "earlier message"},
		{Role: redis.RoleAssistant, Content: "earlier reply"},
	}}
	sessions := &fakeSessions{}
	vectors := newFakeVectors()
	agent := newTherapyAgent(llm, conversations, sessions, vectors)

	resp, err := agent.Handle(context.Background(), therapyRequest("I had a stressful day at work"))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if resp.Priority != PriorityNormal {
		t.Errorf("expected normal priority, got %q", resp.Priority)
	}
	if resp.Payload["reply"] != llm.reply {
		t.Errorf("unexpected reply: %v", resp.Payload["reply"])
	}

	// History is threaded into the model call with mapped roles.
	if len(llm.generated) != 1 {
		t.Fatalf("expected one generation, got %d", len(llm.generated))
	}
	history := llm.generated[0].History
	if len(history) != 2 || history[1].Role != "model" {
		t.Errorf("unexpected history: %+v", history)
	}

	// Both turns of the exchange are recorded.
	if len(conversations.turns) != 2 {
		t.Errorf("expected 2 recorded turns, got %d", len(conversations.turns))
	}

	// The session row and its embedding are persisted.
	if len(sessions.saved) != 1 || sessions.saved[0].CrisisFlagged {
		t.Errorf("unexpected sessions: %+v", sessions.saved)
	}
	if len(vectors.upserts[vectordb.CollectionTherapySessions]) != 1 {
		t.Error("expected a therapy session vector upsert")
	}
}

func TestTherapyCrisisShortCircuitsModel(t *testing.T) {
	llm := &fakeLLM{generErr: errors.New("model must not be called")}
	sessions := &fakeSessions{}
	agent := newTherapyAgent(llm, &fakeConversations{}, sessions, newFakeVectors())
	events := &fakeEvents{}
	agent.events = events

	resp, err := agent.Handle(context.Background(), therapyRequest("some days I want to end it all"))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if resp.Priority != PriorityUrgent {
		t.Errorf("expected urgent priority, got %q", resp.Priority)
	}
	if resp.Payload["crisis"] != true {
		t.Error("expected crisis flag in payload")
	}
	if !strings.Contains(resp.Payload["reply"].(string), "988") {
		t.Error("expected the crisis response with the lifeline number")
	}
	if len(llm.generated) != 0 {
		t.Error("the model must not run on the crisis path")
	}
	if len(sessions.saved) != 1 || !sessions.saved[0].CrisisFlagged {
		t.Errorf("expected a crisis-flagged session, got %+v", sessions.saved)
	}
	if len(events.published) != 1 || events.published[0].Type != kafka.EventSessionCompleted {
		t.Errorf("expected a session event, got %+v", events.published)
	}
	if events.published[0].Payload["crisis_flagged"] != true {
		t.Error("expected crisis_flagged in the event payload")
	}
}

func TestTherapyModelFailureEscalates(t *testing.T) {
	llm := &fakeLLM{generErr: errors.New("model unavailable")}
	agent := newTherapyAgent(llm, &fakeConversations{}, &fakeSessions{}, newFakeVectors())

	resp, err := agent.Handle(context.Background(), therapyRequest("I feel low today"))
	if err != nil {
		t.Fatalf("a failed model call must not surface as an error: %v", err)
	}
	if resp.Priority != PriorityUrgent {
		t.Errorf("expected urgent escalation, got %q", resp.Priority)
	}
	if resp.Payload["escalated"] != true {
		t.Error("expected escalated flag")
	}
}

func TestTherapyRateLimited(t *testing.T) {
	agent := newTherapyAgent(&fakeLLM{}, &fakeConversations{denied: true}, &fakeSessions{}, newFakeVectors())

	resp, err := agent.Handle(context.Background(), therapyRequest("hello"))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if resp.Type != TypeError {
		t.Errorf("expected error response, got %q", resp.Type)
	}
}

func TestTherapyLimiterFailureDoesNotBlock(t *testing.T) {
	conversations := &fakeConversations{allowErr: errors.New("cache down")}
	agent := newTherapyAgent(&fakeLLM{reply: "hello"}, conversations, &fakeSessions{}, newFakeVectors())

	resp, err := agent.Handle(context.Background(), therapyRequest("hello"))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if resp.Type != TypeResponse {
		t.Errorf("a limiter outage must not block therapy, got %q", resp.Type)
	}
}

func TestTherapyAudioAndVideo(t *testing.T) {
	agent := newTherapyAgent(&fakeLLM{reply: "breathe with me"}, &fakeConversations{}, &fakeSessions{}, newFakeVectors())
	agent.speech = &fakeSpeech{audio: []byte("mp3")}
	agent.media = newFakeMedia()
	agent.video = &fakeVideo{url: "https://video.test/session"}

	msg := therapyRequest("guide me")
	msg.Payload["want_audio"] = true
	msg.Payload["want_video"] = true

	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	audioURL, _ := resp.Payload["audio_url"].(string)
	if !strings.HasPrefix(audioURL, "https://media.test/audio/u1/") {
		t.Errorf("unexpected audio url: %q", audioURL)
	}
	if resp.Payload["video_url"] != "https://video.test/session" {
		t.Errorf("unexpected video url: %v", resp.Payload["video_url"])
	}
}

func TestTherapySpeechFailureDegradesToText(t *testing.T) {
	agent := newTherapyAgent(&fakeLLM{reply: "hello"}, &fakeConversations{}, &fakeSessions{}, newFakeVectors())
	agent.speech = &fakeSpeech{err: errors.New("voice down")}
	agent.media = newFakeMedia()

	msg := therapyRequest("hello")
	msg.Payload["want_audio"] = true

	resp, err := agent.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if _, ok := resp.Payload["audio_url"]; ok {
		t.Error("failed synthesis must not produce an audio url")
	}
	if resp.Payload["reply"] != "hello" {
		t.Error("the text reply must survive a synthesis failure")
	}
}

func TestTherapyMissingFields(t *testing.T) {
	agent := newTherapyAgent(&fakeLLM{}, &fakeConversations{}, &fakeSessions{}, newFakeVectors())

	_, err := agent.Handle(context.Background(), NewRequest("api", AgentTherapy, map[string]any{"user_id": "u1"}))
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	short := "fine"
	if got := truncate(short, 10); got != short {
		t.Errorf("short strings must pass through, got %q", got)
	}

	// "héllo" has a two-byte é straddling a byte cut at 2.
	got := truncate("héllo", 2)
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if got != "h..." {
		t.Errorf("got %q, want %q", got, "h...")
	}

	long := strings.Repeat("感", 200)
	got = truncate(long, 500)
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got[:12])
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated output must carry the ellipsis")
	}
}
