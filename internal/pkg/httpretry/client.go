// Package httpretry wraps an HTTP client with exponential backoff and
// full jitter for calls to the scraper engine, the verification provider,
// and the campaign platforms.
package httpretry

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// *http.Client and *Client satisfy it, so integrations can accept either.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client retries transient failures with exponential backoff and full
// jitter. Client errors (4xx other than 429) are returned immediately.
type Client struct {
	inner      HTTPDoer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseDelay sets the first-retry backoff base (default 1s). The job
// poller uses a shorter base so a flaky engine response doesn't eat a
// whole poll interval.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithMaxDelay caps individual backoff waits (default 30s).
func WithMaxDelay(d time.Duration) Option {
	return func(c *Client) { c.maxDelay = d }
}

// New wraps the given HTTPDoer with retry logic. A nil inner client gets
// a default http.Client with a 30s timeout; maxRetries <= 0 means 3.
func New(inner HTTPDoer, maxRetries int, opts ...Option) *Client {
	if inner == nil {
		inner = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	c := &Client{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the request, retrying on 429/5xx responses and transient
// transport errors. Context cancellation stops retries immediately. On
// the final attempt the response is returned as-is so the caller can read
// the body and status.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := req.Context().Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := c.backoff(attempt)
			log.Printf("httpretry: attempt %d/%d %s %s (waiting %s)",
				attempt, c.maxRetries, req.Method, req.URL.Redacted(), delay)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.Context().Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			}
		}

		resp, err := c.inner.Do(req)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil {
				return nil, err
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt == c.maxRetries {
			return resp, nil
		}

		// Drain for connection reuse before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: retryable status %d", resp.StatusCode)
	}

	return nil, lastErr
}

// backoff returns random(0, min(maxDelay, baseDelay * 2^(attempt-1))),
// floored at 100ms to avoid busy-looping.
func (c *Client) backoff(attempt int) time.Duration {
	exp := float64(c.baseDelay) * math.Pow(2, float64(attempt-1))
	if exp > float64(c.maxDelay) {
		exp = float64(c.maxDelay)
	}
	d := time.Duration(rand.Float64() * exp)
	if d < 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	return d
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
