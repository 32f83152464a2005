package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5"}
}

func anthropicMessage(stopReason string, blocks ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := make([]map[string]any, 0, len(blocks))
		for _, b := range blocks {
			content = append(content, map[string]any{"type": "text", "text": b})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     content,
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicFailure(status int, kind string, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

var topicSchema = &Schema{
	Name: "anthropic-topic",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"topic": map[string]any{"type": "string"}},
		"required":   []any{"topic"},
	},
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicMessage("end_turn", `{"topic":`, `"Photosynthesis"}`))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write assessments.",
		Messages:  []Message{{Role: RoleUser, Content: "Summarise photosynthesis."}},
		Schema:    topicSchema,
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"Photosynthesis"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", resp.Model)
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicMessage("max_tokens", `{"topic":"Photo`))

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		Schema:    topicSchema,
		MaxTokens: 8,
	})
	var trunc *TruncatedError
	assert.ErrorAs(t, err, &trunc)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name:    "rate limited with hint",
			handler: anthropicFailure(http.StatusTooManyRequests, "rate_limit_error", http.Header{"Retry-After": {"7"}}),
			check: func(t *testing.T, err error) {
				var rl *RateLimitError
				require.ErrorAs(t, err, &rl)
				assert.Equal(t, 7*time.Second, rl.RetryAfter)
			},
		},
		{
			name:    "server error",
			handler: anthropicFailure(http.StatusInternalServerError, "api_error", nil),
			check: func(t *testing.T, err error) {
				var unavail *UnavailableError
				assert.ErrorAs(t, err, &unavail)
			},
		},
		{
			name:    "bad key",
			handler: anthropicFailure(http.StatusUnauthorized, "authentication_error", nil),
			check: func(t *testing.T, err error) {
				var rej *RequestError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, http.StatusUnauthorized, rej.StatusCode)
				assert.False(t, Retryable(err))
			},
		},
		{
			name:    "no text",
			handler: anthropicMessage("end_turn"),
			check: func(t *testing.T, err error) {
				var inv *InvalidResponseError
				assert.ErrorAs(t, err, &inv)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			tt.check(t, err)
		})
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", p.ModelID())
}

func TestAnthropicModelMapping(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "claude-opus-4-1", resolveModel("claude-opus", anthropicModels))
	assert.Equal(t, "claude-3-7-sonnet-latest", resolveModel("claude-3-7-sonnet-latest", anthropicModels))
}
