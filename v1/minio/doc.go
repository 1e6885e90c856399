// Package minio stores generated media artifacts in an S3-compatible
// bucket: synthesized speech clips for therapy responses and recorded
// video sessions.
//
// Objects are keyed by artifact kind and user (see AudioObjectKey and
// VideoObjectKey), so a user's media can be enumerated and cleaned up
// with a prefix listing. Clients never receive raw bytes for playback;
// they get time-limited presigned URLs instead.
//
// # Basic Usage
//
//	client, err := minio.NewClient(minio.NewConfig())
//	if err != nil {
//	    return fmt.Errorf("failed to initialize media storage: %w", err)
//	}
//	defer client.GracefulShutdown()
//
//	key := minio.AudioObjectKey(userID, clipID)
//	if err := client.PutBytes(ctx, key, audio, "audio/mpeg"); err != nil {
//	    return err
//	}
//
//	url, err := client.PreSignedGet(ctx, key)
//	if err != nil {
//	    return err
//	}
//
// # FX Integration
//
//	app := fx.New(
//	    fx.Provide(minio.NewConfig),
//	    minio.FXModule,
//	)
//
// The Fx lifecycle starts a connection monitor that validates the
// endpoint every 30 seconds and swaps in a fresh driver client when the
// check fails. Operations in flight keep using the old client until the
// swap; the atomic pointer makes the handoff race-free.
//
// # Error Handling
//
// Driver errors are translated into package sentinels:
//
//	_, err := client.Get(ctx, key)
//	switch {
//	case errors.Is(err, minio.ErrObjectNotFound):
//	    // media was never stored or already cleaned up
//	case minio.IsRetryable(err):
//	    // throttling or a server-side failure, back off and retry
//	}
package minio
