package logbook

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The Logbook API publishes no hard quota; requests are spaced out and a
// 429 response pauses all traffic until its Retry-After has passed.

const defaultBackoff = 30 * time.Second

// RateLimiter manages Logbook API request pacing
type RateLimiter struct {
	mu sync.Mutex

	// Rolling window
	windowLimit    int
	windowUsage    int
	windowLength   time.Duration
	windowResetsAt time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time

	// Set by a 429 response
	blockedUntil time.Time
}

// NewRateLimiter creates a new rate limiter with conservative defaults
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windowLimit:    300,
		windowLength:   15 * time.Minute,
		windowResetsAt: time.Now().Add(15 * time.Minute),
		minInterval:    200 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	// Reset window if expired
	if now.After(r.windowResetsAt) {
		r.windowUsage = 0
		r.windowResetsAt = now.Add(r.windowLength)
	}

	// Honor server backoff
	if now.Before(r.blockedUntil) {
		if err := r.sleep(ctx, time.Until(r.blockedUntil)); err != nil {
			return err
		}
	}

	// Check window limit
	if r.windowUsage >= r.windowLimit {
		if err := r.sleep(ctx, time.Until(r.windowResetsAt)); err != nil {
			return err
		}
		r.windowUsage = 0
		r.windowResetsAt = time.Now().Add(r.windowLength)
	}

	// Enforce minimum interval between requests
	elapsed := time.Since(r.lastRequest)
	if elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.windowUsage++
	r.lastRequest = time.Now()

	return nil
}

// sleep releases the lock while waiting. Must be called with r.mu held.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromResponse records a 429 backoff from the response
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blockedUntil = time.Now().Add(parseRetryAfter(resp.Header))
}

// Status returns the remaining requests in the current window
func (r *RateLimiter) Status() (remaining int, blockedUntil time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.windowLimit - r.windowUsage, r.blockedUntil
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return defaultBackoff
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	}
	return defaultBackoff
}
