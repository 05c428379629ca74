package foxess

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// ErrnoTooFrequent is returned by FoxESS when requests arrive too fast.
const ErrnoTooFrequent = 40400

// RateLimitError represents a throttled request.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.RetryAt.IsZero() {
		return "foxess: rate limit exceeded"
	}
	return fmt.Sprintf("foxess: rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap lets callers test for domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a failed FoxESS response, either an HTTP status or a
// non-zero errno in the envelope.
type APIError struct {
	StatusCode int
	Errno      int
	Message    string
}

func (e *APIError) Error() string {
	if e.Errno != 0 {
		return fmt.Sprintf("foxess: errno %d: %s", e.Errno, e.Message)
	}
	return fmt.Sprintf("foxess: API error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the failure onto a domain error.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return domain.ErrAuthInvalid
	}
	return domain.ErrUpstream
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
