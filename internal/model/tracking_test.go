package model

import (
	"testing"
	"time"
)

func TestNewHistoricalTracking(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tracking := NewHistoricalTracking("https://example.com", "example.com", now)

	if tracking.ID == "" {
		t.Error("ID is empty")
	}
	if tracking.CanonicalURL != "https://example.com" {
		t.Errorf("CanonicalURL = %q", tracking.CanonicalURL)
	}
	if tracking.Domain != "example.com" {
		t.Errorf("Domain = %q", tracking.Domain)
	}
	if !tracking.TrackingStartDate.Equal(now) || !tracking.LastAuditDate.Equal(now) {
		t.Errorf("dates = %v / %v, want %v", tracking.TrackingStartDate, tracking.LastAuditDate, now)
	}
	if tracking.TotalAudits != 0 {
		t.Errorf("TotalAudits = %d, want 0", tracking.TotalAudits)
	}
	if !tracking.IsActive {
		t.Error("IsActive = false, want true")
	}
	if tracking.RetentionDays != DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", tracking.RetentionDays, DefaultRetentionDays)
	}
}

func TestNewHistoryRecord(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("https://example.com/")
	report.OverallScore = 87.5
	report.SEO.Score = 87.5
	report.Accessibility.Score = 90
	report.Mobile.Score = 80
	report.Performance.Score = 95

	record := NewHistoryRecord("trk-1", report)

	if record.TrackingID != "trk-1" {
		t.Errorf("TrackingID = %q", record.TrackingID)
	}
	if record.AuditReportID != report.ID {
		t.Errorf("AuditReportID = %q, want %q", record.AuditReportID, report.ID)
	}
	if !record.RecordedAt.Equal(report.AnalysisDate) {
		t.Errorf("RecordedAt = %v, want %v", record.RecordedAt, report.AnalysisDate)
	}
	if record.OverallScore != 87.5 {
		t.Errorf("OverallScore = %v", record.OverallScore)
	}
	if record.SEOScore == nil || *record.SEOScore != 87.5 {
		t.Errorf("SEOScore = %v, want 87.5", record.SEOScore)
	}
	if record.PerformanceScore == nil || *record.PerformanceScore != 95 {
		t.Errorf("PerformanceScore = %v, want 95", record.PerformanceScore)
	}
	if record.ScoreChanges != nil {
		t.Errorf("ScoreChanges = %v, want nil at creation", record.ScoreChanges)
	}
}

func TestMetricNamesOrder(t *testing.T) {
	t.Parallel()

	want := []string{"Overall", "SEO", "Accessibility", "Mobile", "Performance"}
	if len(MetricNames) != len(want) {
		t.Fatalf("MetricNames has %d entries, want %d", len(MetricNames), len(want))
	}
	for i, name := range want {
		if MetricNames[i] != name {
			t.Errorf("MetricNames[%d] = %q, want %q", i, MetricNames[i], name)
		}
	}
}

func TestPerformanceHistoryRecordMetric(t *testing.T) {
	t.Parallel()

	seo := 82.0
	record := &PerformanceHistoryRecord{
		OverallScore: 75,
		SEOScore:     &seo,
	}

	t.Run("overall is always populated", func(t *testing.T) {
		t.Parallel()

		v, ok := record.Metric("Overall")
		if !ok || v != 75 {
			t.Errorf("Metric(Overall) = %v, %v", v, ok)
		}
	})

	t.Run("populated category", func(t *testing.T) {
		t.Parallel()

		v, ok := record.Metric("SEO")
		if !ok || v != 82 {
			t.Errorf("Metric(SEO) = %v, %v", v, ok)
		}
	})

	t.Run("missing categories report not ok", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"Accessibility", "Mobile", "Performance"} {
			if _, ok := record.Metric(name); ok {
				t.Errorf("Metric(%s) = ok for missing value", name)
			}
		}
	})

	t.Run("unknown metric name", func(t *testing.T) {
		t.Parallel()

		if _, ok := record.Metric("Bounce"); ok {
			t.Error("Metric(Bounce) = ok, want false")
		}
	})
}
