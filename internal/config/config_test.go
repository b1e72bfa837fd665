package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig tests the default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("expected FetchTimeout %v, got %v", DefaultFetchTimeout, cfg.FetchTimeout)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Errorf("expected MaxRedirects %d, got %d", DefaultMaxRedirects, cfg.MaxRedirects)
	}
	if cfg.MaxLinkProbes != DefaultMaxLinkProbes {
		t.Errorf("expected MaxLinkProbes %d, got %d", DefaultMaxLinkProbes, cfg.MaxLinkProbes)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("expected UserAgent %q, got %q", DefaultUserAgent, cfg.UserAgent)
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected MaxBodySize %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected BatchSize %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
	if cfg.DBDir == "" {
		t.Error("expected non-empty DBDir")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"https://example.com"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.FetchTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.FetchTimeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative redirects",
			mutate:  func(c *Config) { c.MaxRedirects = -1 },
			wantErr: ErrInvalidRedirects,
		},
		{
			name:    "zero redirects allowed",
			mutate:  func(c *Config) { c.MaxRedirects = 0 },
			wantErr: nil,
		},
		{
			name:    "negative link probes",
			mutate:  func(c *Config) { c.MaxLinkProbes = -1 },
			wantErr: ErrInvalidLinkProbes,
		},
		{
			name:    "zero link probes allowed",
			mutate:  func(c *Config) { c.MaxLinkProbes = 0 },
			wantErr: nil,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestXDGDirs tests the XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected data dir to end with %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, dir)
	}
}

// TestLoadConfigFile tests YAML file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sitegauge.yaml")
		content := []byte(`
user_agent: "agent/9.9"
fetch_timeout_seconds: 25
max_link_probes: 10
max_redirects: 5
batch_size: 2
db_dir: /tmp/sitegauge-test
`)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		if cf.UserAgent != "agent/9.9" {
			t.Errorf("expected UserAgent 'agent/9.9', got %q", cf.UserAgent)
		}
		if cf.FetchTimeoutSeconds != 25 {
			t.Errorf("expected FetchTimeoutSeconds 25, got %d", cf.FetchTimeoutSeconds)
		}
		if cf.MaxLinkProbes != 10 {
			t.Errorf("expected MaxLinkProbes 10, got %d", cf.MaxLinkProbes)
		}
		if cf.MaxRedirects != 5 {
			t.Errorf("expected MaxRedirects 5, got %d", cf.MaxRedirects)
		}
		if cf.BatchSize != 2 {
			t.Errorf("expected BatchSize 2, got %d", cf.BatchSize)
		}
		if cf.DBDir != "/tmp/sitegauge-test" {
			t.Errorf("expected DBDir '/tmp/sitegauge-test', got %q", cf.DBDir)
		}
	})

	t.Run("returns ErrConfigNotFound for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFileApply tests applying file overrides onto a config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cf := &File{
			UserAgent:           "agent/2.0",
			FetchTimeoutSeconds: 30,
			MaxLinkProbes:       5,
			BatchSize:           9,
			DBDir:               "/srv/sitegauge",
		}
		cf.Apply(cfg)

		if cfg.UserAgent != "agent/2.0" {
			t.Errorf("expected UserAgent override, got %q", cfg.UserAgent)
		}
		if cfg.FetchTimeout != 30*time.Second {
			t.Errorf("expected FetchTimeout 30s, got %v", cfg.FetchTimeout)
		}
		if cfg.MaxLinkProbes != 5 {
			t.Errorf("expected MaxLinkProbes 5, got %d", cfg.MaxLinkProbes)
		}
		if cfg.BatchSize != 9 {
			t.Errorf("expected BatchSize 9, got %d", cfg.BatchSize)
		}
		if cfg.DBDir != "/srv/sitegauge" {
			t.Errorf("expected DBDir override, got %q", cfg.DBDir)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("expected default UserAgent, got %q", cfg.UserAgent)
		}
		if cfg.FetchTimeout != DefaultFetchTimeout {
			t.Errorf("expected default FetchTimeout, got %v", cfg.FetchTimeout)
		}
		if cfg.BatchSize != DefaultBatchSize {
			t.Errorf("expected default BatchSize, got %d", cfg.BatchSize)
		}
	})
}

// TestFindConfigFile tests the configuration file search order.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path returned when present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("batch_size: 1\n"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/custom.yaml"); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})

	t.Run("finds default file in working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("batch_size: 1\n"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Chdir(tmpDir)

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("expected %q in working directory, got %q", DefaultConfigFile, got)
		}
	})
}
