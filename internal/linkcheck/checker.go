package linkcheck

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/safeurl"
)

// Checker probes anchor targets and collects broken links.
type Checker struct {
	// gate re-validates every external target before probing.
	gate *safeurl.Gate

	// client performs the probes. Redirects are followed up to the
	// client's own policy; only the final status matters here.
	client *http.Client

	// maxProbes caps distinct links probed per audit.
	maxProbes int

	// userAgent identifies the auditor in probe requests.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient substitutes the probe HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// WithMaxProbes sets the per-audit probe cap.
func WithMaxProbes(n int) Option {
	return func(c *Checker) {
		c.maxProbes = n
	}
}

// WithUserAgent sets a custom User-Agent header for probes.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		c.userAgent = ua
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker that validates targets through gate.
func NewChecker(gate *safeurl.Gate, opts ...Option) *Checker {
	c := &Checker{
		gate: gate,
		client: &http.Client{
			Timeout: config.DefaultLinkProbeTimeout,
		},
		maxProbes: config.DefaultMaxLinkProbes,
		userAgent: config.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Result is the outcome of a link-integrity pass.
type Result struct {
	// BrokenLinks lists failing links, deduplicated by absolute URL.
	BrokenLinks []model.BrokenLink

	// InternalCount is the number of distinct same-origin links found.
	InternalCount int

	// ExternalCount is the number of distinct cross-origin links found.
	ExternalCount int

	// ProbedCount is the number of links actually probed.
	ProbedCount int
}

// candidate is one deduplicated link awaiting a probe.
type candidate struct {
	absolute string
	context  string
	scope    model.LinkScope
}

// Check walks the document's anchors, resolves them against baseURL, and
// probes each distinct target sequentially up to the probe cap.
// A single link failing never fails the audit: probe errors are either
// recorded as BrokenLink (HTTP status obtained) or skipped.
func (c *Checker) Check(ctx context.Context, doc *model.Document, baseURL string) *Result {
	result := &Result{}

	base, err := url.Parse(baseURL)
	if err != nil {
		return result
	}

	candidates := collectCandidates(doc, base)
	for _, cand := range candidates {
		if cand.scope == model.LinkInternal {
			result.InternalCount++
		} else {
			result.ExternalCount++
		}
	}

	for _, cand := range candidates {
		if result.ProbedCount >= c.maxProbes {
			break
		}
		if ctx.Err() != nil {
			break
		}

		// Internal links share the already-validated origin; only
		// external targets go back through the gate's resolution step.
		if cand.scope == model.LinkExternal {
			if err := c.gate.Validate(ctx, cand.absolute); err != nil {
				c.logger.Debug("link skipped by safety gate",
					"url", cand.absolute,
					"error", err,
				)
				continue
			}
		}

		result.ProbedCount++

		status, err := c.probe(ctx, cand.absolute)
		if err != nil {
			// No HTTP status was obtained (DNS failure, refused
			// connection). Not recorded as broken.
			c.logger.Debug("link unreachable without status",
				"url", cand.absolute,
				"error", err,
			)
			continue
		}

		if status >= http.StatusBadRequest {
			result.BrokenLinks = append(result.BrokenLinks, model.BrokenLink{
				URL:        cand.absolute,
				StatusCode: status,
				Context:    cand.context,
				Scope:      cand.scope,
			})
		}
	}

	return result
}

// collectCandidates resolves, classifies, and deduplicates the document's
// anchors, preserving document order for the first occurrence of each
// absolute URL.
func collectCandidates(doc *model.Document, base *url.URL) []candidate {
	seen := make(map[string]bool)
	candidates := make([]candidate, 0, len(doc.Anchors))

	for _, anchor := range doc.Anchors {
		href := anchor.Href
		if skippableHref(href) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		absolute := resolved.String()

		if seen[absolute] {
			continue
		}
		seen[absolute] = true

		scope := model.LinkExternal
		if strings.EqualFold(resolved.Host, base.Host) {
			scope = model.LinkInternal
		}

		candidates = append(candidates, candidate{
			absolute: absolute,
			context:  anchor.Context,
			scope:    scope,
		})
	}

	return candidates
}

// skippableHref filters hrefs that never produce an HTTP probe.
func skippableHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:")
}

// probe performs a lightweight HEAD request first; when the remote
// rejects the method (405/501), it falls back to GET and abandons the
// response body without reading it.
func (c *Checker) probe(ctx context.Context, target string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, target)
	if err != nil {
		return 0, err
	}

	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		return c.do(ctx, http.MethodGet, target)
	}

	return status, nil
}

// do issues one request and returns only the status code.
func (c *Checker) do(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}

	// The body is abandoned without reading it.
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}
