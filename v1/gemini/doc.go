// Package gemini wraps the official Gemini Go SDK behind a small Service
// interface used by all agents.
//
// Two concerns live here:
//
//   - Chat completions for the agent conversations (GenerateContent), with
//     system prompts, history, and optional JSON-mode responses.
//   - Text embeddings for the vector subsystem (EmbedTexts), where the
//     OutputDimensionality parameter produces 768-dim vectors for the full
//     collections and 384-dim vectors for the compact ones.
//
// Rate-limited (429) and unavailable (5xx) calls are retried with
// exponential backoff; auth and not-found failures are permanent and
// surface immediately. Errors are translated onto package sentinels
// (ErrRateLimited, ErrUnavailable, ...) so callers can match with errors.Is
// without importing the SDK.
//
// # Basic Usage
//
//	client, err := gemini.NewGeminiClient(gemini.GeminiParams{Config: gemini.NewConfig()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := client.GenerateContent(ctx, gemini.GenerateRequest{
//	    SystemPrompt: "You are a supportive wellness coach.",
//	    Prompt:       "I slept badly and feel on edge.",
//	})
//
//	vec, err := client.EmbedText(ctx, "journal entry text", 768)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(gemini.NewConfig),
//	    gemini.FXModule,
//	)
//
// For testing, depend on the [Service] interface and substitute a stub.
package gemini
