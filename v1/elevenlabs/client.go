package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mindloft/wellness/v1/observability"
	"go.uber.org/fx"
)

// Client implements Service against the ElevenLabs REST API.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	observer   observability.Observer
}

// ElevenLabsParams defines the dependencies needed to construct a Client.
type ElevenLabsParams struct {
	fx.In

	Config   *Config
	Observer observability.Observer `optional:"true"`
}

// NewClient constructs a speech synthesis client and validates the
// configuration. No network calls happen at construction time.
func NewClient(p ElevenLabsParams) (*Client, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	observer := observability.Observer(observability.NoopObserver{})
	if p.Observer != nil {
		observer = p.Observer
	}

	log.Printf("[ElevenLabs] Client initialized (model=%s)", p.Config.ModelID)

	return &Client{
		cfg:        p.Config,
		httpClient: &http.Client{Timeout: p.Config.HTTPTimeout},
		observer:   observer,
	}, nil
}

var _ Service = (*Client)(nil)

// Synthesize converts text to speech with the given voice and the
// voice's registered settings when one of the agent profiles owns it.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	settings := ProfileFor(defaultProfileAgent).Settings
	for _, profile := range voiceProfiles {
		if profile.VoiceID == voiceID {
			settings = profile.Settings
			break
		}
	}
	return c.synthesize(ctx, text, voiceID, settings)
}

// SynthesizeForAgent converts text to speech using the agent's voice
// profile.
func (c *Client) SynthesizeForAgent(ctx context.Context, text, agentName string) ([]byte, error) {
	profile := ProfileFor(agentName)
	return c.synthesize(ctx, text, profile.VoiceID, profile.Settings)
}

func (c *Client) synthesize(ctx context.Context, text, voiceID string, settings VoiceSettings) ([]byte, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if voiceID == "" {
		return nil, fmt.Errorf("%w: empty voice ID", ErrNotFound)
	}

	payload := map[string]any{
		"text":           text,
		"model_id":       c.cfg.ModelID,
		"voice_settings": settings,
	}

	audio, err := c.postForBytes(ctx, c.cfg.BaseURL+"/text-to-speech/"+voiceID, payload)
	if err == nil && len(audio) == 0 {
		err = ErrEmptyAudio
	}

	c.observeOperation("synthesize", voiceID, start, err, len(audio))
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// Voices lists the voices available to the account.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	start := time.Now()

	var parsed struct {
		Voices []Voice `json:"voices"`
	}
	err := c.getJSON(ctx, c.cfg.BaseURL+"/voices", &parsed)

	c.observeOperation("voices", "", start, err, len(parsed.Voices))
	if err != nil {
		return nil, err
	}
	return parsed.Voices, nil
}

// postForBytes sends a JSON POST and returns the raw response body.
// Synthesis responds with audio, not JSON.
func (c *Client) postForBytes(ctx context.Context, url string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("[ElevenLabs] encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("[ElevenLabs] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, translateStatus(resp.StatusCode, readErrorBody(resp.Body))
	}

	return io.ReadAll(resp.Body)
}

// getJSON sends a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("[ElevenLabs] build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return translateStatus(resp.StatusCode, readErrorBody(resp.Body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// readErrorBody returns a truncated error body for diagnostics.
func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(body))
}
