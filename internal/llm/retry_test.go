package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

var okResponse = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &UnavailableError{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   any
		wantCalls int
	}{
		{"first attempt", []MockResponse{okResponse}, nil, 1},
		{"transient then success", []MockResponse{down(), okResponse}, nil, 2},
		{"rate limited then success", []MockResponse{
			{Err: &RateLimitError{RetryAfter: time.Millisecond, Err: errors.New("429")}},
			okResponse,
		}, nil, 2},
		{"gives up after max attempts", []MockResponse{down(), down(), down(), okResponse}, &UnavailableError{}, 3},
		{"truncation is final", []MockResponse{
			{Err: &TruncatedError{Content: json.RawMessage(`{`)}},
			okResponse,
		}, &TruncatedError{}, 1},
		{"rejected request is final", []MockResponse{
			{Err: &RequestError{StatusCode: 401, Err: errors.New("bad key")}},
			okResponse,
		}, &RequestError{}, 1},
		{"invalid response retried once", []MockResponse{
			{Err: &InvalidResponseError{Err: errors.New("bad")}},
			{Err: &InvalidResponseError{Err: errors.New("bad")}},
			okResponse,
		}, &InvalidResponseError{}, 2},
		{"invalid response then success", []MockResponse{
			{Err: &InvalidResponseError{Err: errors.New("bad")}},
			okResponse,
		}, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})

			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.IsType(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
		})
	}
}

func TestRetry_CancelledContextStopsWaiting(t *testing.T) {
	mock := NewMockProvider(down(), okResponse)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(okResponse)
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Delay(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}}

	for attempt, want := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond} {
		d := r.delay(attempt, down().Err)
		assert.InDelta(t, float64(want), float64(d), float64(want)*0.21, "attempt %d", attempt)
	}
	assert.LessOrEqual(t, r.delay(10, down().Err), time.Second+200*time.Millisecond)

	// Retry-After wins but is capped.
	assert.Equal(t, 300*time.Millisecond, r.delay(0, &RateLimitError{RetryAfter: 300 * time.Millisecond}))
	assert.Equal(t, time.Second, r.delay(0, &RateLimitError{RetryAfter: time.Minute}))
}

func TestRetry_ModelID(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), fastRetry()).ModelID())
}
