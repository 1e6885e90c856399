package gemini

import (
	"go.uber.org/fx"
)

// FXModule wires the Gemini client into Fx.
//
// It provides:
//   - *Client (NewGeminiClient)
//   - Service  (the *Client bound to the interface)
//
// The Config is expected from the enclosing application so deployments can
// share one env-loading strategy:
//
//	app := fx.New(
//	    fx.Provide(gemini.NewConfig),
//	    gemini.FXModule,
//	)
var FXModule = fx.Module(
	"gemini",

	fx.Provide(
		NewGeminiClient, // -> *Client
		func(c *Client) Service { return c },
	),
)
