package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/safeurl"
)

// FetchError wraps any transport-level failure during page retrieval.
// The audit produces no report when a fetch fails.
type FetchError struct {
	// URL is the URL being fetched.
	URL string

	// Cause is the underlying transport, timeout, or redirect error.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of one successful page fetch.
type Result struct {
	// HTML is the response body, capped at the configured body size.
	HTML string

	// StatusCode is the final HTTP status after redirects.
	StatusCode int

	// ElapsedMs is the total retrieval time in milliseconds.
	ElapsedMs int64

	// ByteSize is the body size in bytes (after the cap).
	ByteSize int64

	// FirstPaintEstimateMs approximates when a browser would first paint.
	// Static analysis cannot measure real paint timing, so we estimate
	// from retrieval time plus one millisecond per kilobyte of markup.
	FirstPaintEstimateMs int64

	// ContentType is the response Content-Type header.
	ContentType string
}

// Fetcher retrieves pages within the configured time, redirect, and size
// bounds. Every fetch passes the safeurl gate first.
type Fetcher struct {
	// gate validates targets before any connection is made.
	gate *safeurl.Gate

	// client is the bounded HTTP client.
	client *http.Client

	// userAgent identifies the auditor in request headers.
	userAgent string

	// maxBodySize caps how many body bytes are read.
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient substitutes the HTTP client. The caller is responsible for
// configuring timeout and redirect behavior on the replacement.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithTimeout sets the total fetch timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithMaxRedirects sets the redirect cap on the default client.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.client.CheckRedirect = redirectLimit(n)
	}
}

// redirectLimit builds a CheckRedirect that stops after n redirects.
func redirectLimit(n int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= n {
			return fmt.Errorf("stopped after %d redirects", n)
		}
		return nil
	}
}

// NewFetcher creates a Fetcher that validates every target through gate.
func NewFetcher(gate *safeurl.Gate, opts ...Option) *Fetcher {
	f := &Fetcher{
		gate: gate,
		client: &http.Client{
			Timeout:       config.DefaultFetchTimeout,
			CheckRedirect: redirectLimit(config.DefaultMaxRedirects),
		},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the URL and captures the timing and size metrics the
// performance scorer needs. The URL must already be normalized; it is
// re-validated through the gate here so no caller can bypass it.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	if err := f.gate.Validate(ctx, pageURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: err}
	}

	elapsed := time.Since(start).Milliseconds()
	size := int64(len(body))

	return &Result{
		HTML:                 string(body),
		StatusCode:           resp.StatusCode,
		ElapsedMs:            elapsed,
		ByteSize:             size,
		FirstPaintEstimateMs: elapsed + size/1024,
		ContentType:          resp.Header.Get("Content-Type"),
	}, nil
}
