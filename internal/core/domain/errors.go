package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDate indicates a date that is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNoData indicates the upstream returned no usable samples or periods.
	ErrNoData = errors.New("no data")

	// ErrNotConfigured indicates a required setting (API key, serial number,
	// site ID) is missing.
	ErrNotConfigured = errors.New("not configured")

	// Upstream Errors.

	// ErrUpstream indicates an external API call failed.
	ErrUpstream = errors.New("upstream request failed")

	// ErrAuthInvalid indicates the upstream rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRenderFailed indicates a chart or report could not be produced.
	ErrRenderFailed = errors.New("render failed")
)
