package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/httpclient"
	"spareeye/backend/internal/model"
)

// Options configures the OpenAI-compatible provider.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

type openAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds a provider whose HTTP transport retries transient
// network failures up to opts.MaxRetries times. Provider responses, including
// 4xx and 5xx, are never retried.
func NewOpenAIProvider(opts Options) DiagnosisProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	// The call timeout is applied per request through the context instead.
	cfg.HTTPClient = httpclient.New(httpclient.Options{
		MaxRetries: opts.MaxRetries,
		RetryWait:  opts.RetryWait,
	})

	return &openAIProvider{
		client:  openai.NewClientWithConfig(cfg),
		model:   opts.Model,
		timeout: opts.Timeout,
	}
}

func (p *openAIProvider) Diagnose(ctx context.Context, in *AnalyzeInput) (*model.AnalysisResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: buildUserParts(in)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	slog.Debug("Diagnosis completed", "model", resp.Model, "images", len(in.Images), "duration", time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", app_errors.ErrInvalidUpstreamResponse)
	}
	return parseResult(resp.Choices[0].Message.Content)
}

func buildUserParts(in *AnalyzeInput) []openai.ChatMessagePart {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		text = DefaultPrompt
	}

	parts := make([]openai.ChatMessagePart, 0, len(in.Images)+1)
	parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: text})
	for _, img := range in.Images {
		url := img.URL
		if img.IsInline() {
			url = "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url, Detail: openai.ImageURLDetailAuto},
		})
	}
	return parts
}

func parseResult(content string) (*model.AnalysisResult, error) {
	content = strings.TrimSpace(content)
	// Some models still fence JSON even in json_object mode.
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: model output is not a JSON object: %v", app_errors.ErrInvalidUpstreamResponse, err)
	}
	return &result, nil
}

// classifyError maps a failed call onto the upstream sentinels: a provider
// answer is ErrUpstream, anything that never got an answer is
// ErrUpstreamUnavailable.
func classifyError(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %s", app_errors.ErrUpstream, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: status %d: %v", app_errors.ErrUpstream, reqErr.HTTPStatusCode, reqErr.Err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out: %v", app_errors.ErrUpstreamUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || strings.Contains(err.Error(), "giving up after") {
		return fmt.Errorf("%w: %v", app_errors.ErrUpstreamUnavailable, err)
	}
	return fmt.Errorf("%w: %v", app_errors.ErrUpstream, err)
}
