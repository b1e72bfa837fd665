package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The scoring-relevant constants (timeout, redirect cap, link-probe cap)
// are part of the stable scoring contract: changing them changes score
// comparability across audits.
const (
	// DefaultFetchTimeout bounds the total time of one page retrieval.
	// Ten seconds is generous for a single page while keeping batch
	// audits from stalling on slow hosts.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxRedirects caps how many redirects a fetch follows.
	// Three hops cover the common http->https->www chains while
	// preventing redirect loops.
	DefaultMaxRedirects = 3

	// DefaultMaxLinkProbes caps how many distinct links the integrity
	// checker probes per audit. This bounds outbound request volume
	// toward arbitrary third-party hosts.
	DefaultMaxLinkProbes = 50

	// DefaultLinkProbeTimeout bounds each individual link probe.
	DefaultLinkProbeTimeout = 5 * time.Second

	// DefaultUserAgent identifies sitegauge in HTTP requests.
	// A fixed, descriptive User-Agent lets operators recognize auditor
	// traffic in their logs.
	DefaultUserAgent = "sitegauge/1.0 (+https://github.com/sitegauge/sitegauge)"

	// DefaultMaxBodySize limits the response body size to read.
	// 10MB covers any realistic HTML document while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultBatchSize is the number of concurrent audits when
	// processing multiple URLs.
	DefaultBatchSize = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "sitegauge"
)

// Config holds all runtime options for sitegauge.
// It is populated from CLI flags and an optional YAML file, then passed
// through the application by explicit dependency injection; there is no
// global configuration state.
type Config struct {
	// FetchTimeout bounds the total time of one page retrieval.
	FetchTimeout time.Duration

	// MaxRedirects caps redirects per fetch.
	MaxRedirects int

	// MaxLinkProbes caps link-integrity probes per audit.
	MaxLinkProbes int

	// UserAgent is the User-Agent header for all requests.
	UserAgent string

	// MaxBodySize limits response body bytes to read.
	MaxBodySize int64

	// BatchSize is the number of concurrent audits for multi-URL runs.
	BatchSize int

	// DBDir is the directory for the SQLite store.
	// When empty, results are not persisted and trend tracking is
	// unavailable. Defaults to the XDG data directory.
	DBDir string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport emits the audit report as JSON instead of the
	// human-readable summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport emits the audit report as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// Targets is the list of URLs to audit.
	Targets []string
}

// NewConfig creates a Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// this constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		FetchTimeout:  DefaultFetchTimeout,
		MaxRedirects:  DefaultMaxRedirects,
		MaxLinkProbes: DefaultMaxLinkProbes,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		BatchSize:     DefaultBatchSize,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for sitegauge.
// On Linux: ~/.local/share/sitegauge
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitegauge.
// On Linux: ~/.config/sitegauge
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks that the configuration is usable.
// It returns the first problem found; fixing one error often makes
// later ones irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidRedirects
	}
	if c.MaxLinkProbes < 0 {
		return ErrInvalidLinkProbes
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
