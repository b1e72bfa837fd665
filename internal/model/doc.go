// Package model defines the core data structures shared across the audit
// and trend-analysis engines.
//
// # Design Philosophy
//
// All structures in this package are plain data: they carry no behavior
// beyond small derived-value helpers and are never mutated after the
// producing component hands them off. An AuditReport is created once by
// the score composer and stored as-is; a TrendAnalysis is recomputed from
// scratch on every run and replaces the prior record for its
// (tracking, period) pair.
//
// Design decision: We use distinct typed structs for each scoring variant
// (SEOScoring, AccessibilityScoring, MobileAnalysis) rather than a generic
// score map because:
//  1. Extraction is exhaustive and compile-time checked
//  2. Each category carries different sub-score shapes
//  3. Consumers (dashboards, comparisons) depend on stable field names
package model
