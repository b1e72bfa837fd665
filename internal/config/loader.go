package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitegauge.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML shape of the optional configuration file.
// Every field is optional; unset fields keep their defaults.
type File struct {
	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// FetchTimeoutSeconds overrides the fetch timeout.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`

	// MaxLinkProbes overrides the per-audit link probe cap.
	MaxLinkProbes int `yaml:"max_link_probes"`

	// MaxRedirects overrides the redirect cap.
	MaxRedirects int `yaml:"max_redirects"`

	// BatchSize overrides the concurrent audit count.
	BatchSize int `yaml:"batch_size"`

	// DBDir overrides the SQLite store directory.
	DBDir string `yaml:"db_dir"`
}

// LoadConfigFile loads overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file:
//  1. If configPath is given, use it directly
//  2. Look for .sitegauge.yaml in the current directory
//  3. Look for it in the XDG config directory
//
// Returns the path if found, or "" if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}

// Apply copies the file's set fields onto the config.
func (f *File) Apply(c *Config) {
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.FetchTimeoutSeconds > 0 {
		c.FetchTimeout = time.Duration(f.FetchTimeoutSeconds) * time.Second
	}
	if f.MaxLinkProbes > 0 {
		c.MaxLinkProbes = f.MaxLinkProbes
	}
	if f.MaxRedirects > 0 {
		c.MaxRedirects = f.MaxRedirects
	}
	if f.BatchSize > 0 {
		c.BatchSize = f.BatchSize
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
}
