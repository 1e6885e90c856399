package gemini

import "context"

// Service is the LLM contract the agents depend on. It hides all provider
// details (SDK types, retries, model names) from the application layer.
type Service interface {
	// GenerateContent produces a free-text completion for the request.
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)

	// EmbedTexts computes one embedding per input text at the requested
	// dimension (768 for full collections, 384 for compact ones).
	EmbedTexts(ctx context.Context, texts []string, dimension int) ([][]float32, error)

	// EmbedText is a single-text convenience wrapper around EmbedTexts.
	EmbedText(ctx context.Context, text string, dimension int) ([]float32, error)
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior exchange in a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// GenerateRequest describes a single completion call.
type GenerateRequest struct {
	// SystemPrompt sets the agent persona and constraints
	SystemPrompt string `json:"systemPrompt,omitempty"`

	// Prompt is the current user input
	Prompt string `json:"prompt"`

	// History carries prior turns, oldest first
	History []Turn `json:"history,omitempty"`

	// Temperature overrides the configured default when non-nil
	Temperature *float32 `json:"temperature,omitempty"`

	// MaxOutputTokens caps the response length, 0 means provider default
	MaxOutputTokens int32 `json:"maxOutputTokens,omitempty"`

	// JSONResponse forces an application/json response body
	JSONResponse bool `json:"jsonResponse,omitempty"`
}
