package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// --- Conversation Context ---

// AppendTurn adds a turn to a user's conversation with an agent. The
// push, trim and expire run in one pipeline so a crash between them
// cannot leave an unbounded or immortal conversation.
func (r *RedisClient) AppendTurn(ctx context.Context, userID, agentName string, turn ConversationTurn) error {
	if userID == "" || agentName == "" {
		return ErrInvalidKey
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	key := ConversationKey(userID, agentName)
	maxTurns := int64(r.cfg.Cache.MaxTurns)

	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -maxTurns, -1)
	pipe.Expire(ctx, key, r.cfg.Cache.ConversationTTL)
	_, err = pipe.Exec(ctx)
	err = TranslateError(err)

	r.observeOperation("append_turn", key, turn.Role, time.Since(start), err, int64(len(data)), nil)
	if err != nil {
		return fmt.Errorf("failed to append conversation turn: %w", err)
	}
	return nil
}

// History returns a conversation's retained turns, oldest first. An
// expired or never-started conversation yields an empty slice.
func (r *RedisClient) History(ctx context.Context, userID, agentName string) ([]ConversationTurn, error) {
	if userID == "" || agentName == "" {
		return nil, ErrInvalidKey
	}

	key := ConversationKey(userID, agentName)

	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := r.client.LRange(ctx, key, 0, -1).Result()
	err = TranslateError(err)
	r.observeOperation("history", key, "", time.Since(start), err, int64(len(entries)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	turns := make([]ConversationTurn, 0, len(entries))
	for _, entry := range entries {
		var turn ConversationTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			return nil, fmt.Errorf("%w: corrupt conversation entry: %v", ErrEncodingFailed, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// ClearConversation drops a user's conversation with an agent. Clearing
// a conversation that does not exist is not an error.
func (r *RedisClient) ClearConversation(ctx context.Context, userID, agentName string) error {
	if userID == "" || agentName == "" {
		return ErrInvalidKey
	}

	key := ConversationKey(userID, agentName)

	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	err := TranslateError(r.client.Del(ctx, key).Err())
	r.observeOperation("clear_conversation", key, "", time.Since(start), err, 0, nil)
	if err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// --- Generic JSON Cache ---

// CacheJSON serializes the value to JSON and stores it with a TTL.
// Used for short-lived lookups like voice catalogs and free calendar
// slots.
func (r *RedisClient) CacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	err = TranslateError(r.client.Set(ctx, key, data, ttl).Err())
	metadata := map[string]interface{}{}
	if ttl > 0 {
		metadata["ttl"] = ttl.String()
	}
	r.observeOperation("cache_json", key, "", time.Since(start), err, int64(len(data)), metadata)
	if err != nil {
		return fmt.Errorf("failed to cache value: %w", err)
	}
	return nil
}

// FetchJSON retrieves a cached value and deserializes it from JSON.
func (r *RedisClient) FetchJSON(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return ErrInvalidKey
	}

	start := time.Now()
	r.mu.RLock()
	data, err := r.client.Get(ctx, key).Result()
	r.mu.RUnlock()

	err = TranslateError(err)
	r.observeOperation("fetch_json", key, "", time.Since(start), err, int64(len(data)), nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return nil
}

// --- Rate Limiting ---

// slidingWindowScript drops entries older than the window, counts what
// remains, and records the request only when the budget allows it. Runs
// atomically server-side. Returns the remaining budget, or -1 when the
// request is denied. Timestamps are in milliseconds.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
	local count = redis.call("ZCARD", key)
	if count < limit then
		redis.call("ZADD", key, now, member)
		redis.call("PEXPIRE", key, window)
		return limit - count - 1
	end
	return -1
`)

// Allow checks a user's request against the configured default sliding
// window.
func (r *RedisClient) Allow(ctx context.Context, scope, userID string) (bool, int64, error) {
	return r.AllowN(ctx, scope, userID, r.cfg.RateLimit.Limit, r.cfg.RateLimit.Window)
}

// AllowN checks a user's request against an explicit limit and window.
// Returns the remaining budget when allowed.
func (r *RedisClient) AllowN(ctx context.Context, scope, userID string, limit int64, window time.Duration) (bool, int64, error) {
	if scope == "" || userID == "" {
		return false, 0, ErrInvalidKey
	}

	key := RateLimitKey(scope, userID)
	now := time.Now().UnixMilli()

	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	remaining, err := slidingWindowScript.Run(ctx, r.client,
		[]string{key}, now, window.Milliseconds(), limit, uuid.NewString()).Int64()
	err = TranslateError(err)

	allowed := err == nil && remaining >= 0
	r.observeOperation("rate_limit", key, "", time.Since(start), err, 0, map[string]interface{}{
		"allowed": allowed,
		"limit":   limit,
		"window":  window.String(),
	})

	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if remaining < 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}
