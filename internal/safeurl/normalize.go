package safeurl

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize ensures the raw input is a parseable absolute URL with a
// scheme. A bare hostname gets https prepended. Returns ErrInvalidURL
// (wrapped) when the input cannot be made into a usable URL.
func Normalize(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %s", ErrInvalidURL, rawURL)
	}

	return u.String(), nil
}

// Canonicalize produces the stable tracking key for a URL: lowercased
// scheme and host, no fragment, sorted query parameters, and no trailing
// slash on the path. Two audits of the same page always map to the same
// canonical form regardless of how the URL was typed.
func Canonicalize(rawURL string) (string, error) {
	normalized, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// url.Values.Encode sorts keys, giving a stable query ordering.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}

// Domain extracts the lowercased hostname from a URL.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
