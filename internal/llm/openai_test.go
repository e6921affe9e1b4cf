package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/model"
)

const diagnosisJSON = `{"diagnosis":"Worn brake pads","severity":"medium","likely_part_name":"Brake pad",` +
	`"repair_steps":["Remove wheel","Replace pads"],"tools_needed":["Lug wrench"],"safety_notes":["Chock the wheels"],` +
	`"recommended_websites":["https://example.com/pads",{"label":"Guide","url":"https://example.com/guide"}]}`

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newTestProvider(url string, timeout time.Duration) DiagnosisProvider {
	return NewOpenAIProvider(Options{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "gpt-4o",
		Timeout:    timeout,
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
	})
}

func TestOpenAIProvider_Diagnose(t *testing.T) {
	t.Run("Success - blank text uses the default prompt", func(t *testing.T) {
		var captured capturedRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completion(diagnosisJSON))
		}))
		defer server.Close()

		provider := newTestProvider(server.URL, time.Second)
		result, err := provider.Diagnose(context.Background(), &AnalyzeInput{
			Text: "   ",
			Images: []model.ResolvedImage{
				{MediaType: "image/png", Data: []byte{1, 2, 3}},
				{URL: "https://cdn.example.com/a.jpg"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "Worn brake pads", result.Diagnosis)
		assert.Equal(t, "Brake pad", result.LikelyPartName)
		assert.Len(t, result.RecommendedWebsites, 2)

		assert.Equal(t, "gpt-4o", captured.Model)
		assert.Equal(t, "json_object", captured.ResponseFormat.Type)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)

		var system string
		require.NoError(t, json.Unmarshal(captured.Messages[0].Content, &system))
		assert.Equal(t, SystemPrompt, system)

		var parts []contentPart
		require.NoError(t, json.Unmarshal(captured.Messages[1].Content, &parts))
		require.Len(t, parts, 3)
		assert.Equal(t, DefaultPrompt, parts[0].Text)
		assert.Equal(t, "data:image/png;base64,AQID", parts[1].ImageURL.URL)
		assert.Equal(t, "https://cdn.example.com/a.jpg", parts[2].ImageURL.URL)
	})

	t.Run("Success - fenced JSON is accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completion("```json\n"+diagnosisJSON+"\n```"))
		}))
		defer server.Close()

		result, err := newTestProvider(server.URL, time.Second).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		require.NoError(t, err)
		assert.Equal(t, "medium", result.Severity)
	})

	t.Run("Failure - non-JSON output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completion("I think it is the brakes."))
		}))
		defer server.Close()

		_, err := newTestProvider(server.URL, time.Second).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		assert.ErrorIs(t, err, app_errors.ErrInvalidUpstreamResponse)
	})

	t.Run("Failure - provider error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
		}))
		defer server.Close()

		_, err := newTestProvider(server.URL, time.Second).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		assert.ErrorIs(t, err, app_errors.ErrUpstream)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Success - dropped connection is retried once", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				conn, _, err := w.(http.Hijacker).Hijack()
				require.NoError(t, err)
				_ = conn.Close()
				return
			}
			fmt.Fprint(w, completion(diagnosisJSON))
		}))
		defer server.Close()

		result, err := newTestProvider(server.URL, time.Second).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		require.NoError(t, err)
		assert.Equal(t, "Worn brake pads", result.Diagnosis)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Failure - connection keeps dropping", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			_ = conn.Close()
		}))
		defer server.Close()

		_, err := newTestProvider(server.URL, time.Second).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		assert.ErrorIs(t, err, app_errors.ErrUpstreamUnavailable)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Failure - timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		_, err := newTestProvider(server.URL, 50*time.Millisecond).Diagnose(context.Background(), &AnalyzeInput{Text: "noise"})
		assert.ErrorIs(t, err, app_errors.ErrUpstreamUnavailable)
	})
}

func TestParseResult_RejectsNonObject(t *testing.T) {
	_, err := parseResult(strings.Repeat("x", 10))
	assert.ErrorIs(t, err, app_errors.ErrInvalidUpstreamResponse)
}
