package database

import (
	"context"
	"testing"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// openTestDB opens a fresh database in a temp dir and closes it with the test.
func openTestDB(t *testing.T) *ImportDB {
	t.Helper()

	idb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := idb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return idb
}

// sampleResult builds a result for history tests.
func sampleResult(source, workspace string, success bool) *model.ImportResult {
	errCount := 0
	var errs []string
	if !success {
		errCount = 1
		errs = []string{"failed to create \"Page 2\": boom"}
	}
	return &model.ImportResult{
		Success:      success,
		TotalPages:   3,
		SuccessCount: 3 - errCount,
		ErrorCount:   errCount,
		Errors:       errs,
		Message:      "imported 3 pages",
		SourcePath:   source,
		WorkspaceID:  workspace,
		DatabaseID:   "db-1",
		StartedAt:    time.Now().Add(-time.Minute),
		FinishedAt:   time.Now(),
	}
}

// TestOpenRequiresExistingDB verifies the CreateIfNotExists=false path.
func TestOpenRequiresExistingDB(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.CreateIfNotExists = false

	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("expected error opening a missing database")
	}
}

// TestSaveAndGetRun covers the round trip through the runs table.
func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	idb := openTestDB(t)
	ctx := context.Background()

	id, err := idb.SaveResult(ctx, sampleResult("export.json", "ws-1", false))
	if err != nil {
		t.Fatalf("failed to save result: %v", err)
	}

	got, err := idb.GetRunByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored run")
	}
	if got.SourcePath != "export.json" || got.SuccessCount != 2 || got.ErrorCount != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.Errors) != 1 {
		t.Errorf("errors not preserved: %v", got.Errors)
	}

	t.Run("unknown id returns nil", func(t *testing.T) {
		got, err := idb.GetRunByID(ctx, 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

// TestListRuns covers ordering, workspace filtering and limits.
func TestListRuns(t *testing.T) {
	t.Parallel()

	idb := openTestDB(t)
	ctx := context.Background()

	for _, r := range []*model.ImportResult{
		sampleResult("a.json", "ws-1", true),
		sampleResult("b.json", "ws-1", false),
		sampleResult("c.json", "ws-2", true),
	} {
		if _, err := idb.SaveResult(ctx, r); err != nil {
			t.Fatalf("failed to save result: %v", err)
		}
	}

	t.Run("lists all runs most recent first", func(t *testing.T) {
		runs, err := idb.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].SourcePath != "c.json" {
			t.Errorf("expected newest run first, got %q", runs[0].SourcePath)
		}
	})

	t.Run("filters by workspace", func(t *testing.T) {
		runs, err := idb.ListRuns(ctx, "ws-1", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs for ws-1, got %d", len(runs))
		}
		for _, run := range runs {
			if run.WorkspaceID != "ws-1" {
				t.Errorf("unexpected workspace %q", run.WorkspaceID)
			}
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		runs, err := idb.ListRuns(ctx, "", 1)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestGetLatestRun verifies per-source latest lookup.
func TestGetLatestRun(t *testing.T) {
	t.Parallel()

	idb := openTestDB(t)
	ctx := context.Background()

	first := sampleResult("export.json", "ws-1", false)
	second := sampleResult("export.json", "ws-1", true)

	if _, err := idb.SaveResult(ctx, first); err != nil {
		t.Fatalf("failed to save result: %v", err)
	}
	if _, err := idb.SaveResult(ctx, second); err != nil {
		t.Fatalf("failed to save result: %v", err)
	}

	got, err := idb.GetLatestRun(ctx, "export.json")
	if err != nil {
		t.Fatalf("failed to get latest run: %v", err)
	}
	if got == nil || !got.Success {
		t.Errorf("expected the later successful run, got %+v", got)
	}

	missing, err := idb.GetLatestRun(ctx, "never-imported.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown source, got %+v", missing)
	}
}

// TestListSources verifies distinct source listing.
func TestListSources(t *testing.T) {
	t.Parallel()

	idb := openTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"b.json", "a.json", "a.json"} {
		if _, err := idb.SaveResult(ctx, sampleResult(source, "ws-1", true)); err != nil {
			t.Fatalf("failed to save result: %v", err)
		}
	}

	sources, err := idb.ListSources(ctx)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "a.json" || sources[1] != "b.json" {
		t.Errorf("unexpected sources %v", sources)
	}
}

// TestParseTimestamp covers the formats SQLite may return.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "sqlite default format",
			input: "2026-08-23 10:30:00",
			want:  time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: "2026-08-23T10:30:00Z",
			want:  time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "unparseable returns zero time",
			input: "not a timestamp",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
