package calendar

import (
	"go.uber.org/fx"
)

// FXModule wires the scheduling client into Fx.
//
// It provides:
//   - *Client (NewClient)
//   - Service  (the *Client bound to the interface)
//
// The Config is expected from the enclosing application:
//
//	app := fx.New(
//	    fx.Provide(calendar.NewConfig),
//	    calendar.FXModule,
//	)
var FXModule = fx.Module(
	"calendar",

	fx.Provide(
		NewClient, // -> *Client
		func(c *Client) Service { return c },
	),
)
