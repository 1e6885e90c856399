// Package elevenlabs converts agent responses to speech through the
// ElevenLabs text-to-speech API.
//
// Each speaking agent has a registered voice profile (voice plus
// delivery settings): therapy responses use a calm professional voice,
// guided exercises a soothing one, fitness coaching an energetic one.
// The returned audio is MPEG; callers store it through the media
// storage client and reference it by presigned URL.
//
//	client, err := elevenlabs.NewClient(elevenlabs.ElevenLabsParams{
//	    Config: elevenlabs.NewConfig(),
//	})
//	if err != nil {
//	    return err
//	}
//
//	audio, err := client.SynthesizeForAgent(ctx, response, "therapy")
//	if err != nil {
//	    if elevenlabs.IsRetryable(err) {
//	        // back off and retry, or degrade to text-only
//	    }
//	    return err
//	}
//
// HTTP status codes are translated to sentinels: 401/403 →
// ErrUnauthorized, 404 → ErrNotFound, 429 → ErrRateLimited, 5xx →
// ErrUnavailable.
package elevenlabs
