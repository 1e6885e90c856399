// Package tavus manages live avatar video sessions through the Tavus
// conversations API.
//
// The therapy agent creates a conversation when a user asks for a
// face-to-face session and hands back the join URL; the session is
// ended explicitly when the exchange completes. Session recordings are
// stored through the media storage client and referenced by URL.
//
//	client, err := tavus.NewClient(tavus.TavusParams{Config: tavus.NewConfig()})
//	if err != nil {
//	    return err
//	}
//
//	conv, err := client.CreateConversation(ctx, tavus.CreateConversationRequest{
//	    ConversationName:      "therapy-session",
//	    ConversationalContext: userContext,
//	})
//	if err != nil {
//	    return err
//	}
//	// hand conv.ConversationURL to the user
//	defer client.EndConversation(ctx, conv.ConversationID)
//
// HTTP status codes are translated to sentinels: 401/403 →
// ErrUnauthorized, 404 → ErrNotFound, 429 → ErrRateLimited, 5xx →
// ErrUnavailable. Ending an already ended session succeeds.
package tavus
