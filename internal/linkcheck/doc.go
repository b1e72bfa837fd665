// Package linkcheck probes the reachability of links discovered by the
// analyzer and reports the ones that fail with an HTTP status.
//
// # Probe Discipline
//
// Probes run one at a time, awaiting each response before issuing the
// next, and are capped per audit. This keeps outbound request pressure on
// arbitrary third-party hosts predictable. Every external target is
// re-validated through the safeurl gate before probing; a gate rejection
// silently skips that link.
//
// # Recording Asymmetry
//
// Only failures that produced an HTTP status (>= 400) become BrokenLink
// entries. Connection-level failures (DNS, refused) are treated as
// unreachable but not recorded. This undercounts broken links; the
// behavior is preserved intentionally pending a policy decision.
package linkcheck
