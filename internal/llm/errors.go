package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError reports a throttled request (HTTP 429). RetryAfter is the
// server's hint, zero when it sent none.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// InvalidResponseError reports output that is not JSON or does not match
// the requested schema. Content holds what the model returned.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// UnavailableError reports a provider that is down, overloaded or
// unreachable.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// RequestError reports a request the provider rejected: a bad API key, an
// unknown model or a malformed request. Sending it again cannot succeed.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// TruncatedError reports structured output cut off at MaxTokens.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// classifyStatus maps a provider HTTP status onto the error types above.
// A zero status means the request never got an answer.
func classifyStatus(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter, Err: err}
	case status == 0, status == http.StatusRequestTimeout, status >= 500:
		return &UnavailableError{Err: err}
	case status >= 400:
		return &RequestError{StatusCode: status, Err: err}
	}
	return &UnavailableError{Err: err}
}

// Retryable reports whether err may succeed on another attempt.
// Cancellation, rejected requests and truncation are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		reqErr *RequestError
		trunc  *TruncatedError
	)
	return !errors.As(err, &reqErr) && !errors.As(err, &trunc)
}
