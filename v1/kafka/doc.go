// Package kafka is the append-only wellness event stream.
//
// Agents publish facts about what happened — a journal entry was
// created, a therapy session completed, a pattern insight was generated,
// a plan was updated — and downstream analytics consume them. Events are
// JSON-encoded and keyed by user ID, so one user's events stay ordered
// within a partition.
//
// Core features:
//   - Typed Event envelope with validation
//   - User-keyed publishing (hash balancer)
//   - Consumer-group reads with commit-on-success
//   - TLS and SASL (PLAIN, SCRAM) broker authentication
//   - Optional compression and async batched writes
//   - Optional observability hooks
//
// # Publishing
//
//	client, err := kafka.NewClient(kafka.NewConfig())
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	err = client.PublishEvent(ctx, &kafka.Event{
//		Type:   kafka.EventJournalCreated,
//		UserID: userID,
//		Source: "journaling",
//		Payload: map[string]interface{}{
//			"entry_id":  entryID,
//			"sentiment": 0.42,
//		},
//	})
//
// # Consuming
//
//	cfg := kafka.NewConfig()
//	cfg.IsConsumer = true
//	cfg.GroupID = "analytics"
//
//	client, err := kafka.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	err = client.Consume(ctx, func(ctx context.Context, event *kafka.Event) error {
//		return process(event)
//	})
//
// The offset commits only after the handler returns nil, so a crashed
// consumer replays unprocessed events.
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(kafka.NewConfig),
//	    kafka.FXModule,
//	)
package kafka
