package elevenlabs

import "context"

// Service is the speech synthesis contract the agents depend on. The
// returned audio is MPEG; callers store it through the media storage
// client and hand users a presigned URL.
type Service interface {
	// Synthesize converts text to speech with the given voice.
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)

	// SynthesizeForAgent converts text to speech using the voice
	// profile registered for an agent, with the profile's delivery
	// settings applied.
	SynthesizeForAgent(ctx context.Context, text, agentName string) ([]byte, error)

	// Voices lists the voices available to the account.
	Voices(ctx context.Context) ([]Voice, error)
}

// Voice describes an available synthesis voice.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// VoiceSettings tunes delivery for a synthesis request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// VoiceProfile pairs a voice with the delivery settings suited to one
// agent's register.
type VoiceProfile struct {
	VoiceID  string
	Settings VoiceSettings
}

// Voice profiles per agent. Therapy gets a calm professional voice,
// guided exercises a soothing one, nutrition a friendly informative
// one, fitness an energetic one.
var voiceProfiles = map[string]VoiceProfile{
	"therapy": {
		VoiceID:  "pNInz6obpgDQGcFmaJgB",
		Settings: VoiceSettings{Stability: 0.8, SimilarityBoost: 0.7, Style: 0.3, UseSpeakerBoost: true},
	},
	"mental-exercise": {
		VoiceID:  "EXAVITQu4vr4xnSDxMaL",
		Settings: VoiceSettings{Stability: 0.9, SimilarityBoost: 0.6, Style: 0.2, UseSpeakerBoost: true},
	},
	"nutrition": {
		VoiceID:  "TxGEqnHWrfWFTfGW9XjX",
		Settings: VoiceSettings{Stability: 0.7, SimilarityBoost: 0.8, Style: 0.4, UseSpeakerBoost: true},
	},
	"fitness": {
		VoiceID:  "pqHfZKP75CvOlQylNhV4",
		Settings: VoiceSettings{Stability: 0.6, SimilarityBoost: 0.9, Style: 0.6, UseSpeakerBoost: true},
	},
}

// defaultProfileAgent is used when an agent has no registered profile.
const defaultProfileAgent = "therapy"

// ProfileFor returns the voice profile for an agent, falling back to
// the therapy profile for agents without one of their own.
func ProfileFor(agentName string) VoiceProfile {
	if profile, ok := voiceProfiles[agentName]; ok {
		return profile
	}
	return voiceProfiles[defaultProfileAgent]
}
