package connectors

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

// WaitTurn blocks until the next request slot or until ctx is done.
func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	sleep := time.Until(scheduled)
	if sleep <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryTransport paces requests through a RateLimiter and retries bodiless
// requests that fail with a throttling or server status.
type RetryTransport struct {
	Base        http.RoundTripper
	Limiter     *RateLimiter
	MaxAttempts int
	// BaseBackoff is the first retry delay; it doubles on every attempt.
	BaseBackoff time.Duration
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	attempts := t.MaxAttempts
	if attempts <= 0 || req.Body != nil {
		attempts = 1
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if t.Limiter != nil {
			if err := t.Limiter.WaitTurn(req.Context()); err != nil {
				return nil, err
			}
		}

		resp, err = base.RoundTrip(req)
		if attempt == attempts {
			break
		}
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		backoff := t.BaseBackoff*time.Duration(1<<(attempt-1)) + time.Duration(rand.Intn(100))*time.Millisecond
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
	}
	return resp, err
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
