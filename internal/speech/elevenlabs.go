package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/httpclient"
)

// VoiceSettings tunes the generated voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings are used when a request carries none.
var DefaultVoiceSettings = VoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
	Style:           0.2,
	UseSpeakerBoost: true,
}

// Request is one text-to-speech conversion.
type Request struct {
	Text     string
	VoiceID  string
	ModelID  string
	Settings *VoiceSettings
}

// Audio is a synthesized stream. The caller must close Body.
type Audio struct {
	ContentType string
	Body        io.ReadCloser
}

// Synthesizer defines the interface for the text-to-speech provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *Request) (*Audio, error)
}

// Options configures the ElevenLabs client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type elevenLabsClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewElevenLabsClient(opts Options) Synthesizer {
	return &elevenLabsClient{
		client: httpclient.New(httpclient.Options{
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			RetryWait:  500 * time.Millisecond,
		}),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		model:   opts.Model,
	}
}

type synthesizeBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// maxErrorBody caps how much of a failed response is read for logging.
const maxErrorBody = 4 << 10

func (c *elevenLabsClient) Synthesize(ctx context.Context, req *Request) (*Audio, error) {
	settings := DefaultVoiceSettings
	if req.Settings != nil {
		settings = *req.Settings
	}
	modelID := req.ModelID
	if modelID == "" {
		modelID = c.model
	}

	body, err := json.Marshal(synthesizeBody{Text: req.Text, ModelID: modelID, VoiceSettings: settings})
	if err != nil {
		return nil, fmt.Errorf("could not marshal speech request: %w", err)
	}

	endpoint := c.baseURL + "/v1/text-to-speech/" + url.PathEscape(req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create speech request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: speech provider: %v", app_errors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Warn("Speech provider rejected the request", "status_code", resp.StatusCode, "voice_id", req.VoiceID, "body", string(detail))
		return nil, fmt.Errorf("%w: speech provider returned status %d", app_errors.ErrUpstream, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Audio{ContentType: contentType, Body: resp.Body}, nil
}
