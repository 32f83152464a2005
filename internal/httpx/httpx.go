// Package httpx is a small retrying HTTP client for the third-party APIs the
// assessment flow calls.
package httpx

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// HTTPError carries the status and body of a non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, redact(e.URL), e.StatusCode, snippet(e.Body, 300))
}

// redact hides api_key query values so errors can be printed.
func redact(u string) string {
	i := strings.Index(u, "api_key=")
	if i < 0 {
		return u
	}
	end := strings.IndexByte(u[i:], '&')
	if end < 0 {
		return u[:i] + "api_key=REDACTED"
	}
	return u[:i] + "api_key=REDACTED" + u[i+end:]
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// RetryStatuses lists non-2xx statuses worth retrying. Any 5xx is
	// always retried.
	RetryStatuses map[int]bool
}

// DefaultRetryConfig retries rate limits, timeouts and server errors four
// times with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests: true,
			http.StatusRequestTimeout:  true,
			http.StatusTooEarly:        true,
		},
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	d := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.RetryStatuses == nil {
		c.RetryStatuses = d.RetryStatuses
	}
	return c
}

func (c RetryConfig) retryable(code int) bool {
	return c.RetryStatuses[code] || (code >= 500 && code <= 599)
}

// DoWithRetry executes the request built by buildReq, retrying transient
// network failures and retryable statuses. The body is always read fully and
// decoded according to Content-Encoding. Non-2xx responses that are not
// retried, or that exhaust the attempts, return an *HTTPError.
func DoWithRetry(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	cfg RetryConfig,
) (*http.Response, []byte, error) {
	cfg = cfg.withDefaults()
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, nil, err
		}
		if req.Header.Get("Accept-Encoding") == "" {
			req.Header.Set("Accept-Encoding", "br, gzip")
		}

		var retryAfter time.Duration
		resp, err := client.Do(req)
		if err == nil {
			var body []byte
			body, err = readBody(resp)
			if err == nil {
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					return resp, body, nil
				}
				herr := &HTTPError{
					Method:     req.Method,
					URL:        req.URL.String(),
					StatusCode: resp.StatusCode,
					Body:       body,
				}
				if !cfg.retryable(resp.StatusCode) {
					return resp, body, herr
				}
				retryAfter = ParseRetryAfter(resp)
				err = herr
			}
		}
		if !isRetryable(err) {
			return nil, nil, err
		}

		lastErr = err
		if attempt < cfg.MaxAttempts {
			if err := sleepBackoff(ctx, attempt, cfg, retryAfter); err != nil {
				return nil, nil, err
			}
		}
	}
	return nil, nil, lastErr
}

// DoJSON runs DoWithRetry and unmarshals the body into out.
func DoJSON(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
	cfg RetryConfig,
) error {
	_, body, err := DoWithRetry(ctx, client, buildReq, cfg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w: %s", err, snippet(body, 300))
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decode(resp.Header.Get("Content-Encoding"), raw)
}

// decode undoes a br or gzip Content-Encoding.
func decode(encoding string, raw []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return raw, nil
	case "br":
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode brotli body: %w", err)
		}
		return out, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode gzip body: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decode gzip body: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func isRetryable(err error) bool {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

func sleepBackoff(ctx context.Context, attempt int, cfg RetryConfig, retryAfter time.Duration) error {
	wait := retryAfter
	if wait <= 0 {
		wait = cfg.BaseDelay << (attempt - 1)
		if wait > cfg.MaxDelay || wait <= 0 {
			wait = cfg.MaxDelay
		}
		// Up to 20% jitter.
		wait += time.Duration(rand.Float64() * 0.2 * float64(wait))
	}
	if wait > cfg.MaxDelay {
		wait = cfg.MaxDelay
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. It returns 0 when resp is nil or the header is missing or invalid.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
