package safeurl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when the candidate cannot be parsed as a URL.
// It is surfaced to callers before any network I/O happens.
var ErrInvalidURL = errors.New("invalid URL")

// UnsafeTargetError is returned when a URL points at a blocked scheme,
// hostname, or resolved address. It is a hard failure and never retried.
type UnsafeTargetError struct {
	// URL is the rejected URL.
	URL string

	// Reason explains which check rejected the target.
	Reason string
}

// Error implements the error interface.
func (e *UnsafeTargetError) Error() string {
	return fmt.Sprintf("unsafe target %s: %s", e.URL, e.Reason)
}

// LookupFunc resolves a hostname to its addresses.
// It matches net.DefaultResolver.LookupIPAddr and exists so tests can
// substitute a fixed resolver.
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// Gate validates URLs before the fetcher or link checker dereferences them.
//
// Design decision: The Gate takes its resolver as an explicit dependency
// rather than calling net.LookupIP directly because:
//  1. Tests can map hostnames to private or public addresses deterministically
//  2. The fail-open behavior on lookup errors becomes testable
//  3. No ambient global state is involved
type Gate struct {
	// lookup resolves hostnames. Defaults to net.DefaultResolver.
	lookup LookupFunc

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLookup sets a custom hostname resolver.
func WithLookup(lookup LookupFunc) Option {
	return func(g *Gate) {
		g.lookup = lookup
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a Gate with the given options.
func NewGate(opts ...Option) *Gate {
	g := &Gate{}
	for _, opt := range opts {
		opt(g)
	}
	if g.lookup == nil {
		g.lookup = net.DefaultResolver.LookupIPAddr
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// rfc1918Literal matches hostnames that are written as RFC1918 addresses.
// These are rejected by string match before any resolution happens.
var rfc1918Literal = regexp.MustCompile(`^(10\.|172\.(1[6-9]|2[0-9]|3[01])\.|192\.168\.)`)

// Validate checks whether the URL is safe to dereference.
// It returns nil when the target is allowed, ErrInvalidURL (wrapped) when
// the URL cannot be parsed, or an *UnsafeTargetError when a check rejects it.
func (g *Gate) Validate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &UnsafeTargetError{URL: rawURL, Reason: fmt.Sprintf("scheme %q not allowed", u.Scheme)}
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host in %s", ErrInvalidURL, rawURL)
	}

	if reason := blockedHostname(host); reason != "" {
		return &UnsafeTargetError{URL: rawURL, Reason: reason}
	}

	// If the hostname is already an IP literal, classify it directly
	// without a lookup.
	if ip := net.ParseIP(host); ip != nil {
		if reason := classifyIP(ip); reason != "" {
			return &UnsafeTargetError{URL: rawURL, Reason: reason}
		}
		return nil
	}

	addrs, err := g.lookup(ctx, host)
	if err != nil {
		// Fail open: a lookup failure is treated as transient, not as a
		// security signal. The fetch itself will surface the real error.
		g.logger.Debug("DNS lookup failed, allowing target",
			"host", host,
			"error", err,
		)
		return nil
	}

	for _, addr := range addrs {
		if reason := classifyIP(addr.IP); reason != "" {
			return &UnsafeTargetError{
				URL:    rawURL,
				Reason: fmt.Sprintf("%s resolves to %s (%s)", host, addr.IP, reason),
			}
		}
	}

	return nil
}

// blockedHostname rejects literal loopback and private-looking hostnames
// by string match. Returns the rejection reason, or "" when allowed.
func blockedHostname(host string) string {
	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return "loopback hostname"
	}
	if strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return "internal hostname suffix"
	}
	if rfc1918Literal.MatchString(host) {
		return "private address literal"
	}
	if strings.HasPrefix(host, "169.254.") {
		return "link-local address literal"
	}
	return ""
}

// classifyIP returns a non-empty rejection reason when the address falls
// in a range the gate blocks, or "" when the address is publicly routable.
//
// Blocked IPv4: loopback, RFC1918 private, link-local, multicast, and
// this-network (0.0.0.0/8). Blocked IPv6: loopback, link-local (fe80::/10),
// unique-local (fc00::/7), and multicast (ff00::/8).
func classifyIP(ip net.IP) string {
	switch {
	case ip.IsLoopback():
		return "loopback address"
	case ip.IsPrivate():
		return "private address"
	case ip.IsLinkLocalUnicast():
		return "link-local address"
	case ip.IsLinkLocalMulticast(), ip.IsMulticast():
		return "multicast address"
	case ip.IsUnspecified():
		return "unspecified address"
	}

	if ip4 := ip.To4(); ip4 != nil {
		// 0.0.0.0/8 "this network" is not covered by IsUnspecified.
		if ip4[0] == 0 {
			return "this-network address"
		}
	}

	return ""
}
