package notion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// fakeAPI is a scripted API implementation for creator tests.
// Each call to CreatePage consumes the next scripted response.
type fakeAPI struct {
	responses []error
	calls     int
}

func (f *fakeAPI) Authenticate(_ context.Context) error {
	return nil
}

func (f *fakeAPI) CreatePage(_ context.Context, _ Parent, title, _ string, _ map[string]any) (*PageRef, error) {
	var err error
	if f.calls < len(f.responses) {
		err = f.responses[f.calls]
	}
	f.calls++
	if err != nil {
		return nil, err
	}
	return &PageRef{ID: "remote-" + title, URL: "https://ws.example/" + title}, nil
}

// newTestCreator builds a creator with an instant sleep.
func newTestCreator(api API, opts ...CreatorOption) *PageCreator {
	pc := NewPageCreator(api, opts...)
	pc.sleep = func(_ context.Context, _ time.Duration) error { return nil }
	return pc
}

// TestPageCreatorCreate covers the retry policy.
func TestPageCreatorCreate(t *testing.T) {
	t.Parallel()

	page := &model.TargetPage{ID: "p1", Title: "Page One"}

	t.Run("succeeds first try", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		pc := newTestCreator(api)

		ref, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref.ID != "remote-Page One" {
			t.Errorf("unexpected ref: %+v", ref)
		}

		stats := pc.Stats()
		if stats.Requests != 1 || stats.RateLimitHits != 0 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("retries after rate limit and succeeds", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{responses: []error{&RateLimitError{}, nil}}
		pc := newTestCreator(api)

		ref, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref == nil {
			t.Fatal("expected a page ref")
		}

		stats := pc.Stats()
		if stats.Requests != 2 {
			t.Errorf("expected 2 requests, got %d", stats.Requests)
		}
		if stats.RateLimitHits != 1 {
			t.Errorf("expected 1 rate limit hit, got %d", stats.RateLimitHits)
		}
	})

	t.Run("surfaces error after retries are exhausted", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{responses: []error{
			&RateLimitError{}, &RateLimitError{}, &RateLimitError{},
		}}
		pc := newTestCreator(api, WithMaxAttempts(3))

		_, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page)
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if !IsRateLimit(err) {
			t.Errorf("expected rate limit in chain, got %v", err)
		}
		if !strings.Contains(err.Error(), "exhausted after 3 attempts") {
			t.Errorf("expected exhaustion message, got %q", err.Error())
		}
		if api.calls != 3 {
			t.Errorf("expected exactly 3 attempts, got %d", api.calls)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		t.Parallel()

		boom := &APIError{StatusCode: 400, Code: "validation_error", Message: "bad"}
		api := &fakeAPI{responses: []error{boom}}
		pc := newTestCreator(api)

		_, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if api.calls != 1 {
			t.Errorf("expected a single attempt, got %d", api.calls)
		}
	})

	t.Run("honors server Retry-After over base backoff", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{responses: []error{&RateLimitError{RetryAfter: 7 * time.Second}, nil}}
		pc := NewPageCreator(api, WithBackoff(time.Millisecond))

		var waited time.Duration
		pc.sleep = func(_ context.Context, d time.Duration) error {
			waited = d
			return nil
		}

		if _, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if waited != 7*time.Second {
			t.Errorf("expected 7s wait, got %s", waited)
		}
	})

	t.Run("exponential backoff doubles the delay", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{responses: []error{&RateLimitError{}, &RateLimitError{}, nil}}
		pc := NewPageCreator(api,
			WithMaxAttempts(5),
			WithBackoff(time.Second),
			WithExponentialBackoff(true),
		)

		var waits []time.Duration
		pc.sleep = func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}

		if _, err := pc.Create(context.Background(), Parent{DatabaseID: "db"}, page); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
			t.Errorf("expected [1s 2s] waits, got %v", waits)
		}
	})

	t.Run("stops on cancelled context during backoff", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{responses: []error{&RateLimitError{}, nil}}
		pc := NewPageCreator(api)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pc.Create(ctx, Parent{DatabaseID: "db"}, page)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
