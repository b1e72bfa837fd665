// Package repository persists audit reports, tracking records, the
// performance-history time series, and current trend analyses.
//
// The audit and trend engines depend only on the Repository interface.
// Two implementations exist: an in-memory store for tests and a SQLite
// store for production. Both guarantee that the one genuinely shared
// mutation in the system (bumping a tracking's audit counters together
// with the matching history append) is a single atomic step.
package repository
