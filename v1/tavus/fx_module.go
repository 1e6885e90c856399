package tavus

import (
	"go.uber.org/fx"
)

// FXModule wires the video session client into Fx.
//
// It provides:
//   - *Client (NewClient)
//   - Service  (the *Client bound to the interface)
//
// The Config is expected from the enclosing application:
//
//	app := fx.New(
//	    fx.Provide(tavus.NewConfig),
//	    tavus.FXModule,
//	)
var FXModule = fx.Module(
	"tavus",

	fx.Provide(
		NewClient, // -> *Client
		func(c *Client) Service { return c },
	),
)
