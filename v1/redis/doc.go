// Package redis caches hot per-user state for the wellness platform:
// the recent conversation turns handed to the language model as
// context, short-lived JSON lookups, and sliding window rate limits.
//
// Nothing stored here is authoritative. Conversations expire after a
// configurable idle TTL and are trimmed to a bounded number of turns;
// the durable record of sessions lives in the profile store.
//
// # Conversation Context
//
//	client, err := redis.NewClient(redis.NewConfig())
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.AppendTurn(ctx, userID, "therapy", redis.ConversationTurn{
//	    Role:      redis.RoleUser,
//	    Content:   "I have been sleeping badly this week",
//	    CreatedAt: time.Now().UTC(),
//	})
//
//	turns, err := client.History(ctx, userID, "therapy")
//
// Each appended turn refreshes the conversation TTL and trims the
// history to Cache.MaxTurns, so the context window stays bounded
// without a separate cleanup job.
//
// # Rate Limiting
//
// The limiter is a sliding window over a sorted set, evaluated by a
// server-side script so check-and-record is atomic:
//
//	allowed, remaining, err := client.Allow(ctx, "chat", userID)
//	if err != nil {
//	    return err
//	}
//	if !allowed {
//	    return redis.ErrRateLimited
//	}
//
// AllowN takes an explicit limit and window for scopes with different
// budgets (speech synthesis is more expensive than chat).
//
// # FX Integration
//
//	app := fx.New(
//	    fx.Provide(redis.NewConfig),
//	    redis.FXModule,
//	)
//
// The Fx lifecycle pings the server on start and closes the client on
// stop.
package redis
