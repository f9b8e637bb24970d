// Package notion implements the remote workspace API client and the
// rate-limit-aware page creator built on top of it.
//
// Client is a thin HTTP client: it authenticates the configured token and
// issues single page-creation calls, classifying rate-limit responses as
// *RateLimitError. PageCreator owns the retry policy: bounded attempts
// with fixed or exponential backoff, honoring server-suggested
// Retry-After delays, with request counters exposed through Stats.
//
// The split keeps the network call and the retry policy independently
// testable: client tests run against httptest servers, creator tests
// against an in-memory fake API.
package notion
