package service

import (
	"context"
	"fmt"
	"strings"

	"spareeye/backend/internal/auth"
	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/speech"
)

// SpeechInput is a text-to-speech request. Voice is "male", "female" or a
// provider voice id; empty means the caller's aiVoice setting.
type SpeechInput struct {
	Text  string `json:"text" validate:"max=5000"`
	Voice string `json:"voice"`
}

// Voices maps the aiVoice setting to provider voice ids.
type Voices struct {
	Male   string
	Female string
}

type SpeechService struct {
	synth    speech.Synthesizer
	settings *SettingsService
	voices   Voices
}

func NewSpeechService(synth speech.Synthesizer, settings *SettingsService, voices Voices) *SpeechService {
	return &SpeechService{synth: synth, settings: settings, voices: voices}
}

// Synthesize converts text to audio. The caller must close the returned body.
func (s *SpeechService) Synthesize(ctx context.Context, caller auth.Identity, in *SpeechInput) (*speech.Audio, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: Missing text.", app_errors.ErrValidation)
	}

	voice := in.Voice
	if voice == "" {
		prefs, err := s.settings.load(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		voice = prefs.AIVoice
	}

	return s.synth.Synthesize(ctx, &speech.Request{Text: text, VoiceID: s.voiceID(voice)})
}

func (s *SpeechService) voiceID(voice string) string {
	switch voice {
	case "female":
		return s.voices.Female
	case "male":
		return s.voices.Male
	default:
		return voice
	}
}
