package redis

import (
	"context"
	"time"
)

// Client caches per-user conversation context and enforces sliding
// window rate limits. Everything stored here is reconstructible; the
// durable record of sessions lives in the profile store.
//
// This interface is implemented by the concrete *RedisClient type.
type Client interface {
	// Connection and lifecycle

	Ping(ctx context.Context) error
	Close() error

	// Conversation context

	// AppendTurn adds a turn to a user's conversation with an agent,
	// trims the history to the configured maximum, and refreshes the
	// conversation TTL.
	AppendTurn(ctx context.Context, userID, agentName string, turn ConversationTurn) error

	// History returns a conversation's retained turns, oldest first.
	// A conversation that never existed or expired returns an empty
	// slice, not an error.
	History(ctx context.Context, userID, agentName string) ([]ConversationTurn, error)

	// ClearConversation drops a user's conversation with an agent.
	ClearConversation(ctx context.Context, userID, agentName string) error

	// Generic JSON cache

	// CacheJSON stores a JSON-encoded value with a TTL. Zero TTL means
	// no expiry.
	CacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// FetchJSON retrieves and decodes a cached value. Returns
	// ErrNotFound when the key is missing or expired.
	FetchJSON(ctx context.Context, key string, dest interface{}) error

	// Rate limiting

	// Allow checks a user's request against the configured default
	// sliding window. Returns the remaining budget when allowed.
	Allow(ctx context.Context, scope, userID string) (allowed bool, remaining int64, err error)

	// AllowN checks against an explicit limit and window.
	AllowN(ctx context.Context, scope, userID string, limit int64, window time.Duration) (allowed bool, remaining int64, err error)
}

// ConversationTurn is one exchange entry in a user's conversation with
// an agent.
type ConversationTurn struct {
	// Role is "user" or "assistant"
	Role string `json:"role"`

	// Content is the turn's text
	Content string `json:"content"`

	// CreatedAt is when the turn was recorded
	CreatedAt time.Time `json:"created_at"`
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationKey returns the cache key for a user's conversation with
// an agent.
func ConversationKey(userID, agentName string) string {
	return "conversation:" + agentName + ":" + userID
}

// RateLimitKey returns the cache key for a user's sliding window in a
// scope (for example "chat" or "tts").
func RateLimitKey(scope, userID string) string {
	return "ratelimit:" + scope + ":" + userID
}
