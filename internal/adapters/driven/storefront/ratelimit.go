package storefront

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// MaxRetryAfter is the longest server-requested pause the client honours
	// before giving up on a 429.
	MaxRetryAfter = 30 * time.Second

	// defaultRetryAfter applies when a 429 carries no usable Retry-After.
	defaultRetryAfter = time.Second
)

// RateLimiter combines proactive client-side throttling with the backend's
// Retry-After hints.
type RateLimiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	blocked time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests with burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{bucket: rate.NewLimiter(limit, burst)}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	blocked := r.blocked
	r.mu.Unlock()

	if wait := time.Until(blocked); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// Backoff records a 429 and returns how long the server asked to wait.
func (r *RateLimiter) Backoff(resp *http.Response) time.Duration {
	wait := retryAfter(resp, time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(wait); until.After(r.blocked) {
		r.blocked = until
	}
	return wait
}

func retryAfter(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return defaultRetryAfter
	}
	value := resp.Header.Get(HeaderRetryAfter)
	if value == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}
