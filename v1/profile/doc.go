// Package profile is the relational store for the platform: user profiles,
// therapy session records, generated wellness plans, and calendar
// appointments, backed by PostgreSQL through GORM.
//
// The vector collections hold embedding-based state; this package holds
// everything that needs relational semantics — unique emails, status
// transitions, time-ordered listings, transactions. Therapy sessions link
// to their vector counterpart through VectorPointID.
//
// The Store keeps its *gorm.DB in an atomic pointer so the background
// reconnection loop can swap connections without blocking readers. Errors
// from CRUD methods are translated onto package sentinels (ErrNotFound,
// ErrDuplicate, ErrInvalidInput) before returning.
//
// # Basic Usage
//
//	store, err := profile.NewStore(profile.NewConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.SaveProfile(ctx, &profile.UserProfile{
//	    Email:       "ada@example.com",
//	    DisplayName: "Ada",
//	})
//
//	sessions, err := store.ListSessions(ctx, userID, 20)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(profile.NewConfig),
//	    profile.FXModule,
//	)
//
// The lifecycle hook migrates the schema and starts the connection
// monitor/retry goroutines on start, and closes the pool on stop.
package profile
