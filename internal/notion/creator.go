package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

const (
	// DefaultMaxAttempts bounds how many times one page creation is tried.
	// The first call counts as an attempt, so 3 means at most 2 retries.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the base wait between rate-limited attempts when
	// the server does not suggest its own Retry-After delay.
	DefaultBackoff = time.Second
)

// Stats counts the network activity of a PageCreator.
type Stats struct {
	// Requests is the total number of creation attempts issued,
	// including retried ones.
	Requests int

	// RateLimitHits is how many attempts were answered with a
	// rate-limit response.
	RateLimitHits int
}

// PageCreator is a thin retrying wrapper around the remote page-creation
// call. A rate-limited attempt is retried after a backoff delay, up to a
// fixed attempt bound; exhausting the bound surfaces the last rate-limit
// error as a normal error. Any other error returns immediately.
//
// Design decision: The retry loop carries an explicit attempt counter
// rather than re-invoking itself on rate limits. An unbounded
// self-invoking retry can hang a run forever against a persistently
// throttling API; the bound turns that into an ordinary per-item failure.
type PageCreator struct {
	// api issues the actual network calls.
	api API

	// maxAttempts bounds attempts per page, including the first call.
	maxAttempts int

	// backoff is the base delay between rate-limited attempts.
	backoff time.Duration

	// exponential doubles the delay after each rate-limited attempt.
	exponential bool

	// stats accumulates request counters. The import walk is sequential,
	// so plain fields are safe without locking.
	stats Stats

	// logger for structured logging.
	logger *slog.Logger

	// sleep waits for the given duration or until the context is done.
	// Replaced in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// CreatorOption configures a PageCreator.
type CreatorOption func(*PageCreator)

// WithMaxAttempts sets the attempt bound per page. Values below 1 are
// ignored.
func WithMaxAttempts(n int) CreatorOption {
	return func(pc *PageCreator) {
		if n >= 1 {
			pc.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between rate-limited attempts.
func WithBackoff(d time.Duration) CreatorOption {
	return func(pc *PageCreator) {
		pc.backoff = d
	}
}

// WithExponentialBackoff doubles the delay after each rate-limited
// attempt instead of waiting a fixed interval.
func WithExponentialBackoff(enabled bool) CreatorOption {
	return func(pc *PageCreator) {
		pc.exponential = enabled
	}
}

// WithCreatorLogger sets a custom logger for the creator.
func WithCreatorLogger(logger *slog.Logger) CreatorOption {
	return func(pc *PageCreator) {
		pc.logger = logger
	}
}

// NewPageCreator creates a PageCreator over the given API.
func NewPageCreator(api API, opts ...CreatorOption) *PageCreator {
	pc := &PageCreator{
		api:         api,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      slog.Default(),
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(pc)
	}

	return pc
}

// Create creates one remote page for the given target page under the
// given parent, retrying rate-limited attempts within the bound.
func (pc *PageCreator) Create(ctx context.Context, parent Parent, page *model.TargetPage) (*PageRef, error) {
	delay := pc.backoff

	for attempt := 1; ; attempt++ {
		pc.stats.Requests++

		ref, err := pc.api.CreatePage(ctx, parent, page.Title, page.Content, page.Properties)
		if err == nil {
			return ref, nil
		}

		var rl *RateLimitError
		if !errors.As(err, &rl) {
			// Not recoverable by waiting; surface immediately.
			return nil, err
		}
		pc.stats.RateLimitHits++

		if attempt >= pc.maxAttempts {
			return nil, fmt.Errorf("rate limit retries exhausted after %d attempts for %q: %w",
				attempt, page.Title, err)
		}

		wait := delay
		if rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		if pc.exponential {
			delay *= 2
		}

		pc.logger.Debug("rate limited, backing off",
			"page", page.Title,
			"attempt", attempt,
			"wait", wait,
		)

		if err := pc.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// Stats returns a snapshot of the creator's request counters.
func (pc *PageCreator) Stats() Stats {
	return pc.stats
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
