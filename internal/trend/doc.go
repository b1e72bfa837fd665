// Package trend derives statistically-qualified trend insights from a
// tracked URL's score time series.
//
// # Model
//
// The engine never touches the audit pipeline: it reads a date-bounded
// slice of performance-history records through a narrow query interface
// and writes a derived TrendAnalysis per look-back window. A fresh
// analysis replaces the prior one for its (tracking, period) pair.
//
// Each window's computation walks a small state machine: below the
// period-specific minimum point count it emits a fixed insufficient-data
// analysis with confidence 10, otherwise it classifies direction by
// comparing the averages of the window's two halves, qualifies strength
// from delta consistency and magnitude, flags significant per-metric
// changes against the period's noise threshold, and scores its own
// confidence from data quantity, consistency, time-span coverage, and
// freshness.
//
// # Worker
//
// The Worker consumes tracking IDs from an explicit queue and recomputes
// all four windows concurrently. Trend generation is advisory: a window
// failure is logged and isolated, never surfaced to the audit that
// triggered it.
package trend
