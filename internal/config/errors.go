package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no URL was given to audit.
	ErrNoTarget = errors.New("no target URL specified")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("fetch timeout must be positive")

	// ErrInvalidRedirects is returned when the redirect cap is negative.
	ErrInvalidRedirects = errors.New("max redirects must not be negative")

	// ErrInvalidLinkProbes is returned when the link-probe cap is negative.
	ErrInvalidLinkProbes = errors.New("max link probes must not be negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("max body size must not be negative")

	// ErrConflictingReportFormats is returned when both JSON and Markdown
	// report formats are requested.
	ErrConflictingReportFormats = errors.New("JSON and Markdown report formats are mutually exclusive")
)
