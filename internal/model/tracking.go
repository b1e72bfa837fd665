package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRetentionDays is how long performance history is kept for a
// tracked URL before the external retention job may prune it.
const DefaultRetentionDays = 365

// HistoricalTracking is the per-URL tracking record.
// One exists per distinct canonical URL, created lazily on the first audit
// of that URL. Its counters (TotalAudits, LastAuditDate) are the only
// mutable shared state in the system and must be updated atomically with
// the matching performance-history insertion.
type HistoricalTracking struct {
	// ID is the generated tracking identifier.
	ID string `json:"id"`

	// CanonicalURL is the normalized URL used as the stable tracking key.
	CanonicalURL string `json:"canonical_url"`

	// Domain is the hostname portion of the canonical URL.
	Domain string `json:"domain"`

	// TrackingStartDate is when the first audit of this URL ran.
	TrackingStartDate time.Time `json:"tracking_start_date"`

	// LastAuditDate is when the most recent audit ran.
	LastAuditDate time.Time `json:"last_audit_date"`

	// TotalAudits counts every audit recorded for this URL.
	TotalAudits int `json:"total_audits"`

	// IsActive is false once tracking is deactivated.
	// Tracking records are never deleted, only deactivated.
	IsActive bool `json:"is_active"`

	// RetentionDays is how long history is retained for this URL.
	RetentionDays int `json:"retention_days"`
}

// NewHistoricalTracking creates a tracking record for the canonical URL.
func NewHistoricalTracking(canonicalURL, domain string, now time.Time) *HistoricalTracking {
	return &HistoricalTracking{
		ID:                uuid.NewString(),
		CanonicalURL:      canonicalURL,
		Domain:            domain,
		TrackingStartDate: now,
		LastAuditDate:     now,
		TotalAudits:       0,
		IsActive:          true,
		RetentionDays:     DefaultRetentionDays,
	}
}

// PerformanceHistoryRecord is one point in a tracked URL's score time
// series. Records are append-only and ordered by RecordedAt.
//
// Category scores are pointers because older records may predate a
// category scorer; the trend engine's data-consistency measure counts
// how many of these optional fields are populated.
type PerformanceHistoryRecord struct {
	// TrackingID links the record to its HistoricalTracking.
	TrackingID string `json:"tracking_id"`

	// AuditReportID links the record to the report it was derived from.
	AuditReportID string `json:"audit_report_id"`

	// RecordedAt orders the time series.
	RecordedAt time.Time `json:"recorded_at"`

	// OverallScore is the report's overall score.
	OverallScore float64 `json:"overall_score"`

	// SEOScore is the SEO category score, if recorded.
	SEOScore *float64 `json:"seo_score,omitempty"`

	// AccessibilityScore is the accessibility category score, if recorded.
	AccessibilityScore *float64 `json:"accessibility_score,omitempty"`

	// MobileScore is the mobile category score, if recorded.
	MobileScore *float64 `json:"mobile_score,omitempty"`

	// PerformanceScore is the performance category score, if recorded.
	PerformanceScore *float64 `json:"performance_score,omitempty"`

	// ScoreChanges holds per-category deltas against the previous record,
	// when a previous record existed at append time.
	ScoreChanges map[string]float64 `json:"score_changes,omitempty"`
}

// NewHistoryRecord derives a history record from an audit report.
func NewHistoryRecord(trackingID string, report *AuditReport) *PerformanceHistoryRecord {
	seo := report.SEO.Score
	accessibility := report.Accessibility.Score
	mobile := report.Mobile.Score
	performance := report.Performance.Score

	return &PerformanceHistoryRecord{
		TrackingID:         trackingID,
		AuditReportID:      report.ID,
		RecordedAt:         report.AnalysisDate,
		OverallScore:       report.OverallScore,
		SEOScore:           &seo,
		AccessibilityScore: &accessibility,
		MobileScore:        &mobile,
		PerformanceScore:   &performance,
	}
}

// MetricNames lists the time-series metrics in reporting order.
// "Overall" is always populated; the rest are optional per record.
var MetricNames = []string{"Overall", "SEO", "Accessibility", "Mobile", "Performance"}

// Metric returns the named metric value and whether it is populated.
func (r *PerformanceHistoryRecord) Metric(name string) (float64, bool) {
	switch name {
	case "Overall":
		return r.OverallScore, true
	case "SEO":
		if r.SEOScore != nil {
			return *r.SEOScore, true
		}
	case "Accessibility":
		if r.AccessibilityScore != nil {
			return *r.AccessibilityScore, true
		}
	case "Mobile":
		if r.MobileScore != nil {
			return *r.MobileScore, true
		}
	case "Performance":
		if r.PerformanceScore != nil {
			return *r.PerformanceScore, true
		}
	}
	return 0, false
}
