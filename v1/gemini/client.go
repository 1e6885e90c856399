package gemini

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mindloft/wellness/v1/observability"
	"go.uber.org/fx"
	"google.golang.org/genai"
)

//
// ──────────────────────────────────────────────────────────────
//   GEMINI CLIENT
// ──────────────────────────────────────────────────────────────
//
// This file wraps the official Gemini Go SDK behind the Service
// interface. The agents depend on Service only; model names, retry
// policy, and SDK types stay inside this package.
//

// Client implements Service on top of the Gemini SDK.
type Client struct {
	api      *genai.Client
	cfg      *Config
	observer observability.Observer
}

// GeminiParams defines the dependencies needed to construct a Client.
type GeminiParams struct {
	fx.In

	Config   *Config
	Observer observability.Observer `optional:"true"`
}

// NewGeminiClient constructs a new Client and validates the configuration.
// The SDK performs no network calls at construction time, so the first
// API error surfaces on the first request.
func NewGeminiClient(p GeminiParams) (*Client, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	api, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  p.Config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("[Gemini] failed to initialize client: %w", err)
	}

	observer := observability.Observer(observability.NoopObserver{})
	if p.Observer != nil {
		observer = p.Observer
	}

	log.Printf("[Gemini] Client initialized (chat=%s, embedding=%s)",
		p.Config.ChatModel, p.Config.EmbeddingModel)

	return &Client{
		api:      api,
		cfg:      p.Config,
		observer: observer,
	}, nil
}

var _ Service = (*Client)(nil)

// ──────────────────────────────────────────────────────────────
// GenerateContent
// ──────────────────────────────────────────────────────────────
//
// GenerateContent produces a completion for the request, retrying
// rate-limited and unavailable calls with exponential backoff.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()

	if req.Prompt == "" {
		return "", fmt.Errorf("[Gemini] prompt cannot be empty")
	}

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	}
	if req.Temperature != nil {
		config.Temperature = req.Temperature
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	var text string
	err := c.withRetry(ctx, func() error {
		resp, err := c.api.Models.GenerateContent(ctx, c.cfg.ChatModel, contents, config)
		if err != nil {
			return TranslateError(err)
		}

		text = resp.Text()
		if text == "" {
			return ErrEmptyResponse
		}
		return nil
	})

	c.observeOperation("generate_content", c.cfg.ChatModel, start, err, len(text))
	if err != nil {
		return "", err
	}
	return text, nil
}

// ──────────────────────────────────────────────────────────────
// EmbedTexts
// ──────────────────────────────────────────────────────────────
//
// EmbedTexts computes one embedding per input at the requested dimension.
// The OutputDimensionality parameter lets one model serve both the 768-dim
// and 384-dim collections.
func (c *Client) EmbedTexts(ctx context.Context, texts []string, dimension int) ([][]float32, error) {
	start := time.Now()

	if len(texts) == 0 {
		return nil, fmt.Errorf("[Gemini] no texts provided")
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("[Gemini] dimension must be positive, got %d", dimension)
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	config := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(dimension)),
	}

	var out [][]float32
	err := c.withRetry(ctx, func() error {
		resp, err := c.api.Models.EmbedContent(ctx, c.cfg.EmbeddingModel, contents, config)
		if err != nil {
			return TranslateError(err)
		}
		if len(resp.Embeddings) != len(texts) {
			return fmt.Errorf("[Gemini] expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
		}

		out = make([][]float32, len(resp.Embeddings))
		for i, embedding := range resp.Embeddings {
			if len(embedding.Values) != dimension {
				return fmt.Errorf("[Gemini] embedding [%d] has dimension %d, want %d",
					i, len(embedding.Values), dimension)
			}
			out[i] = embedding.Values
		}
		return nil
	})

	c.observeOperation("embed_texts", c.cfg.EmbeddingModel, start, err, len(texts))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedText is a single-text convenience wrapper around EmbedTexts.
func (c *Client) EmbedText(ctx context.Context, text string, dimension int) ([]float32, error) {
	embeddings, err := c.EmbedTexts(ctx, []string{text}, dimension)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// withRetry runs the call, retrying retryable failures with exponential
// backoff. Permanent errors and context cancellation stop immediately.
func (c *Client) withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.cfg.RetryBaseDelay, attempt)
			log.Printf("[Gemini] retrying after %s (attempt %d/%d): %v",
				delay, attempt, c.cfg.MaxRetries, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = call()
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// backoffDelay doubles the base delay per attempt: base, 2*base, 4*base, ...
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
