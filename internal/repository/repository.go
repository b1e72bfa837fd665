package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sitegauge/sitegauge/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence contract the engines depend on.
//
// Design decision: One interface rather than per-entity interfaces
// because the entities are not independent: RecordAudit spans the
// tracking record and the history series in one atomic step, and
// splitting the interface would push transaction management onto
// callers.
type Repository interface {
	// SaveAuditReport stores an immutable audit report.
	SaveAuditReport(ctx context.Context, report *model.AuditReport) error

	// GetAuditReport retrieves a report by ID.
	// Returns ErrNotFound when no such report exists.
	GetAuditReport(ctx context.Context, id string) (*model.AuditReport, error)

	// ListAuditReports returns the reports for a canonical URL, newest
	// first, up to limit (0 means no limit).
	ListAuditReports(ctx context.Context, canonicalURL string, limit int) ([]*model.AuditReport, error)

	// RecordAudit updates tracking state for the report's URL: it lazily
	// creates the HistoricalTracking on first audit, bumps TotalAudits
	// and LastAuditDate, and appends the derived performance-history
	// record with per-category deltas against the previous record.
	// The counter bump and the history append happen atomically.
	// Returns the (possibly new) tracking record.
	RecordAudit(ctx context.Context, report *model.AuditReport) (*model.HistoricalTracking, error)

	// GetTracking retrieves the tracking record for a canonical URL.
	// Returns ErrNotFound when the URL has never been audited.
	GetTracking(ctx context.Context, canonicalURL string) (*model.HistoricalTracking, error)

	// GetTrackingByID retrieves a tracking record by ID.
	GetTrackingByID(ctx context.Context, trackingID string) (*model.HistoricalTracking, error)

	// DeactivateTracking marks a tracking record inactive.
	// Tracking records are never deleted.
	DeactivateTracking(ctx context.Context, trackingID string) error

	// HistorySince returns the tracking's performance-history records
	// recorded at or after since, ordered by RecordedAt ascending.
	// This is the trend engine's read-only time-series query.
	HistorySince(ctx context.Context, trackingID string, since time.Time) ([]*model.PerformanceHistoryRecord, error)

	// SaveTrendAnalysis stores a trend analysis, replacing the current
	// one for its (tracking, period) pair.
	SaveTrendAnalysis(ctx context.Context, analysis *model.TrendAnalysis) error

	// GetTrendAnalysis retrieves the current analysis for the pair.
	// Returns ErrNotFound when none has been computed yet.
	GetTrendAnalysis(ctx context.Context, trackingID string, period model.TimePeriod) (*model.TrendAnalysis, error)
}

// scoreChanges computes per-category deltas between a new record and the
// previous one. Returns nil when there is no previous record.
func scoreChanges(current, previous *model.PerformanceHistoryRecord) map[string]float64 {
	if previous == nil {
		return nil
	}
	changes := make(map[string]float64)
	for _, metric := range model.MetricNames {
		cur, okCur := current.Metric(metric)
		prev, okPrev := previous.Metric(metric)
		if okCur && okPrev {
			changes[metric] = cur - prev
		}
	}
	return changes
}
