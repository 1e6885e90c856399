package tavus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mindloft/wellness/v1/observability"
	"go.uber.org/fx"
)

// Client implements Service against the Tavus REST API.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	observer   observability.Observer
}

// TavusParams defines the dependencies needed to construct a Client.
type TavusParams struct {
	fx.In

	Config   *Config
	Observer observability.Observer `optional:"true"`
}

// NewClient constructs a video session client and validates the
// configuration. No network calls happen at construction time.
func NewClient(p TavusParams) (*Client, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	observer := observability.Observer(observability.NoopObserver{})
	if p.Observer != nil {
		observer = p.Observer
	}

	log.Printf("[Tavus] Client initialized (replica=%s)", p.Config.ReplicaID)

	return &Client{
		cfg:        p.Config,
		httpClient: &http.Client{Timeout: p.Config.HTTPTimeout},
		observer:   observer,
	}, nil
}

var _ Service = (*Client)(nil)

// CreateConversation starts a new video session. Empty replica and
// persona fall back to the configured defaults.
func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	start := time.Now()

	if req.ReplicaID == "" {
		req.ReplicaID = c.cfg.ReplicaID
	}
	if req.PersonaID == "" {
		req.PersonaID = c.cfg.PersonaID
	}
	if req.ReplicaID == "" {
		return nil, ErrMissingReplica
	}

	var conversation Conversation
	err := c.doJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/conversations", req, &conversation)

	c.observeOperation("create_conversation", req.ReplicaID, start, err)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversation fetches a session's current state.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	start := time.Now()

	if conversationID == "" {
		return nil, fmt.Errorf("%w: empty conversation ID", ErrNotFound)
	}

	var conversation Conversation
	err := c.doJSON(ctx, http.MethodGet, c.cfg.BaseURL+"/conversations/"+conversationID, nil, &conversation)

	c.observeOperation("get_conversation", conversationID, start, err)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// EndConversation ends a live session. A session that already ended
// reports not found; that is treated as success.
func (c *Client) EndConversation(ctx context.Context, conversationID string) error {
	start := time.Now()

	if conversationID == "" {
		return fmt.Errorf("%w: empty conversation ID", ErrNotFound)
	}

	err := c.doJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/conversations/"+conversationID+"/end", nil, nil)
	if errors.Is(err, ErrNotFound) {
		// already ended and cleaned up
		err = nil
	}

	c.observeOperation("end_conversation", conversationID, start, err)
	return err
}

// doJSON sends a request with an optional JSON body and decodes the
// JSON response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[Tavus] encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("[Tavus] build request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return translateStatus(resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
