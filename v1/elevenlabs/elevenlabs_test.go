package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL

	client, err := NewClient(ElevenLabsParams{Config: cfg})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail without an API key")
	}

	cfg.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte("mpeg-bytes")

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing API key header")
		}

		var payload struct {
			Text          string        `json:"text"`
			ModelID       string        `json:"model_id"`
			VoiceSettings VoiceSettings `json:"voice_settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Text != "take a slow breath" {
			t.Errorf("unexpected text: %q", payload.Text)
		}
		if payload.ModelID != "eleven_multilingual_v2" {
			t.Errorf("unexpected model: %q", payload.ModelID)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))

	got, err := client.Synthesize(context.Background(), "take a slow breath", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("unexpected audio: %q", got)
	}
}

func TestSynthesizeForAgentUsesProfileVoice(t *testing.T) {
	wantVoice := ProfileFor("fitness").VoiceID

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/"+wantVoice {
			t.Errorf("expected fitness profile voice, got path %s", r.URL.Path)
		}
		w.Write([]byte("audio"))
	}))

	if _, err := client.SynthesizeForAgent(context.Background(), "one more rep", "fitness"); err != nil {
		t.Fatalf("SynthesizeForAgent failed: %v", err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for empty text")
	}))

	_, err := client.Synthesize(context.Background(), "   ", "voice-1")
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := client.Synthesize(context.Background(), "hello", "voice-1")
	if !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestVoices(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voices" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"voices": []Voice{
				{VoiceID: "v1", Name: "Adam", Category: "premade"},
				{VoiceID: "v2", Name: "Bella", Category: "premade"},
			},
		})
	}))

	voices, err := client.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) != 2 || voices[0].Name != "Adam" {
		t.Errorf("unexpected voices: %+v", voices)
	}
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}

	for _, tt := range tests {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := client.Synthesize(context.Background(), "hello", "voice-1")
		if !errors.Is(err, tt.expected) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.expected, err)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsRetryable(ErrRateLimited) || !IsRetryable(ErrUnavailable) {
		t.Error("rate limits and outages should be retryable")
	}
	if IsRetryable(ErrUnauthorized) {
		t.Error("auth failures must not be retryable")
	}
	if !IsPermanent(ErrUnauthorized) || !IsPermanent(ErrNotFound) || !IsPermanent(ErrEmptyText) {
		t.Error("expected permanent classification")
	}
	if !IsTemporary(ErrUnavailable) {
		t.Error("outages are temporary")
	}
}

func TestProfileForFallsBackToTherapy(t *testing.T) {
	unknown := ProfileFor("journaling")
	therapy := ProfileFor("therapy")
	if unknown.VoiceID != therapy.VoiceID {
		t.Errorf("expected therapy fallback, got %s", unknown.VoiceID)
	}
}
