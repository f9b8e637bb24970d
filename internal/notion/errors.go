package notion

import (
	"errors"
	"fmt"
	"time"
)

// Remote API errors.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. The import orchestrator treats the failure modes very
// differently: rate limits are retried with backoff, authentication
// failures abort the whole run, and anything else is a per-item error.
var (
	// ErrMissingToken is returned when a client is constructed without an
	// API token. The token is required for every request.
	ErrMissingToken = errors.New("missing API token")

	// ErrAuthenticationFailed is returned when the remote API rejects the
	// configured token. This aborts the run before any page is created.
	ErrAuthenticationFailed = errors.New("authentication failed: check the API token")
)

// RateLimitError indicates the remote API asked the caller to slow down.
// It is recoverable: the page creator retries the same call after a delay,
// up to a bounded number of attempts.
type RateLimitError struct {
	// RetryAfter is the server-suggested wait before retrying.
	// Zero when the server did not send a Retry-After header.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by remote API (retry after %s)", e.RetryAfter)
	}
	return "rate limited by remote API"
}

// IsRateLimit reports whether the error chain contains a rate-limit error.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// APIError is a non-rate-limit error response from the remote API.
// It carries the HTTP status and the API's machine-readable code so
// callers can log precisely what went wrong.
type APIError struct {
	// StatusCode is the HTTP response status.
	StatusCode int

	// Code is the API-specific error code (e.g. "validation_error").
	Code string

	// Message is the human-readable error message from the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote API error %d: %s", e.StatusCode, e.Message)
}
