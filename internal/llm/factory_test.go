package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/aicred/internal/store"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AICRED_LLM_PROVIDER", "openrouter")
	t.Setenv("AICRED_OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("AICRED_OPENROUTER_MODEL", "meta-llama/llama-3-8b")
	t.Setenv("AICRED_LLM_TIMEOUT", "15s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenRouter {
		t.Fatalf("provider = %q, want openrouter", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or-test" || cfg.OpenRouter.Model != "meta-llama/llama-3-8b" {
		t.Fatalf("unexpected openrouter config: %+v", cfg.OpenRouter)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("timeout = %v, want 15s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestConfigFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("AICRED_LLM_TIMEOUT", "soon")
	if got := ConfigFromEnv().Timeout; got != DefaultConfig().Timeout {
		t.Fatalf("timeout = %v, want default", got)
	}
}

func TestResolveConfig_FallsBackToDiscovery(t *testing.T) {
	t.Setenv("AICRED_LLM_PROVIDER", "")
	t.Setenv("AICRED_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := ResolveConfig()
	if err != nil {
		t.Fatalf("ResolveConfig() = %v", err)
	}
	if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolveConfig_NothingConfigured(t *testing.T) {
	for _, k := range []string{
		"AICRED_LLM_PROVIDER", "AICRED_OPENAI_API_KEY",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	if _, err := ResolveConfig(); err == nil {
		t.Fatal("expected error when no provider is configured")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q, want mock", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "bard"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_OpenRouterWrapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"

	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*TimeoutProvider); !ok {
		t.Fatalf("outermost provider = %T, want *TimeoutProvider", p)
	}
	if p.ModelID() != "openai/gpt-4.1-mini" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestRoutedMockProvider(t *testing.T) {
	mock := NewRoutedMockProvider(func(req Request) MockResponse {
		if req.Schema != nil && req.Schema.Name == "learning-outcome" {
			return MockResponse{Content: json.RawMessage(`{"title":"x"}`)}
		}
		return MockResponse{Err: &InvalidResponseError{Err: errors.New("unexpected")}}
	})

	resp, err := mock.Generate(context.Background(), Request{Schema: &Schema{Name: "learning-outcome"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"title":"x"}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if _, err := mock.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected routed error")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout did not fire")
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	mock := NewMockProvider(
		MockResponse{
			Content: json.RawMessage(`{"topic":"Photosynthesis"}`),
			Usage:   Usage{InputTokens: 120, OutputTokens: 40},
		},
		MockResponse{Err: &RateLimitError{}},
	)
	p := WithLogging(mock, ProviderOpenAI, st.EventRepo())

	ctx := WithPurpose(context.Background(), "assessment-questions")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "text"}}}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("second call should fail")
	}

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	// Newest first.
	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("expected failed event, got %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 120 || ok.OutputTokens != 40 {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if ok.Provider != ProviderOpenAI || ok.Model != "mock" || ok.Purpose != "assessment-questions" {
		t.Fatalf("unexpected labels: provider=%q model=%q purpose=%q", ok.Provider, ok.Model, ok.Purpose)
	}
	if ok.ResponseBody != `{"topic":"Photosynthesis"}` {
		t.Fatalf("response body = %q", ok.ResponseBody)
	}
}

func TestClip(t *testing.T) {
	short := "abc"
	if clip(short) != short {
		t.Fatal("short string changed")
	}
	long := string(make([]byte, maxLoggedBody+10))
	if got := clip(long); len(got) <= maxLoggedBody || len(got) > maxLoggedBody+20 {
		t.Fatalf("clipped length = %d", len(got))
	}
}
