package foxess

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the steady request rate, one request per second.
	ProactiveRate = 1.0

	// Burst allows a short run of requests, e.g. a report that queries the
	// day and then the PV series.
	Burst = 2

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles requests to the FoxESS cloud.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a limiter with the default rate.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(ProactiveRate), Burst)}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// CheckRateLimit returns a RateLimitError for HTTP 429 responses.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	return &RateLimitError{RetryAt: retryAt(resp.Header.Get(HeaderRetryAfter), time.Now())}
}

// retryAt converts a Retry-After value in seconds into an absolute time.
func retryAt(header string, now time.Time) time.Time {
	if header == "" {
		return time.Time{}
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(seconds) * time.Second)
}
