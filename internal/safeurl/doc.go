// Package safeurl validates that a candidate URL is safe for the server
// to dereference, guarding the audit engine against SSRF.
//
// # Checks
//
// Validation proceeds in three layers, cheapest first:
//  1. Scheme allow-list: only http and https pass
//  2. Literal hostname denylist: localhost, loopback literals, and
//     RFC1918-looking hostnames are rejected without any DNS traffic
//  3. DNS resolution + address classification: every resolved address is
//     checked against the private, loopback, link-local, multicast, and
//     unique-local ranges for both address families
//
// # Fail-Open Policy
//
// A DNS lookup failure (as opposed to a private-range classification)
// allows the request to proceed. Resolution failure is treated as a
// transient condition rather than a security signal; the subsequent fetch
// will fail on its own if the host truly does not resolve. This is a
// deliberate availability-over-security tradeoff.
//
// The package also owns URL normalization: the canonical form (lowercased
// scheme/host, sorted query, no fragment, no trailing slash) is the stable
// key for historical tracking.
package safeurl
