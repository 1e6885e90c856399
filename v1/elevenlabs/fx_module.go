package elevenlabs

import (
	"go.uber.org/fx"
)

// FXModule wires the speech synthesis client into Fx.
//
// It provides:
//   - *Client (NewClient)
//   - Service  (the *Client bound to the interface)
//
// The Config is expected from the enclosing application:
//
//	app := fx.New(
//	    fx.Provide(elevenlabs.NewConfig),
//	    elevenlabs.FXModule,
//	)
var FXModule = fx.Module(
	"elevenlabs",

	fx.Provide(
		NewClient, // -> *Client
		func(c *Client) Service { return c },
	),
)
