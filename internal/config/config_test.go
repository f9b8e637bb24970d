package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default MaxDepth is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDepth != 3 {
			t.Errorf("expected MaxDepth to be 3, got %d", cfg.MaxDepth)
		}
	})

	t.Run("default MaxAttempts is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxAttempts != 3 {
			t.Errorf("expected MaxAttempts to be 3, got %d", cfg.MaxAttempts)
		}
	})

	t.Run("default RetryDelay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.RetryDelay != time.Second {
			t.Errorf("expected RetryDelay to be 1s, got %v", cfg.RetryDelay)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default DryRun is false", func(t *testing.T) {
		t.Parallel()
		if cfg.DryRun {
			t.Error("expected DryRun to be false")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Token = "secret_token"
		cfg.DatabaseID = "db-1"
		cfg.SourcePaths = []string{"export.json"}
		cfg.SelectedItems = []string{"nb-1"}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty sources returns ErrNoSource", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SourcePaths = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}
	})

	t.Run("empty selection returns ErrNoSelection", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SelectedItems = []string{}

		if err := cfg.Validate(); !errors.Is(err, ErrNoSelection) {
			t.Errorf("expected ErrNoSelection, got %v", err)
		}
	})

	t.Run("missing token returns ErrNoToken", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Token = ""

		if err := cfg.Validate(); !errors.Is(err, ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", err)
		}
	})

	t.Run("missing database returns ErrNoDatabase", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.DatabaseID = ""

		if err := cfg.Validate(); !errors.Is(err, ErrNoDatabase) {
			t.Errorf("expected ErrNoDatabase, got %v", err)
		}
	})

	t.Run("dry run requires no credentials", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Token = ""
		cfg.DatabaseID = ""
		cfg.DryRun = true

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error for dry run, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero max depth returns ErrInvalidMaxDepth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxDepth) {
			t.Errorf("expected ErrInvalidMaxDepth, got %v", err)
		}
	})

	t.Run("zero max attempts returns ErrInvalidMaxAttempts", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxAttempts = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxAttempts) {
			t.Errorf("expected ErrInvalidMaxAttempts, got %v", err)
		}
	})

	t.Run("negative retry delay returns ErrInvalidRetryDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RetryDelay = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRetryDelay) {
			t.Errorf("expected ErrInvalidRetryDelay, got %v", err)
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

// TestXDGDirs verifies that the XDG helpers end with the app name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
}

// TestLoadConfigFile covers file loading and alias merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads workspaces and merges defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  includeMetadata: true
workspaces:
  team:
    token: secret_team
    workspaceId: ws-team
    databaseId: db-team
  personal:
    token: secret_personal
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		team := cf.GetWorkspaceConfig("team")
		if team.Token != "secret_team" || team.DatabaseID != "db-team" {
			t.Errorf("unexpected team config: %+v", team)
		}
		if !team.IncludeMetadata {
			t.Error("defaults not merged into alias config")
		}

		// Unknown alias falls back to defaults only.
		unknown := cf.GetWorkspaceConfig("nope")
		if unknown.Token != "" || !unknown.IncludeMetadata {
			t.Errorf("unexpected fallback config: %+v", unknown)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("workspaces: ["), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFindConfigFile covers the search order.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: changes the working directory.

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})

	t.Run("finds config in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Chdir(dir)

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("expected to find %s, got %q", DefaultConfigFile, got)
		}
	})
}
