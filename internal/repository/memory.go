package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/safeurl"
)

// Memory is the in-memory Repository used by tests and throwaway runs.
// All methods are safe for concurrent use; the single mutex makes
// RecordAudit's counter-bump-plus-append trivially atomic.
type Memory struct {
	mu sync.Mutex

	reports  map[string]*model.AuditReport          // by report ID
	tracking map[string]*model.HistoricalTracking   // by canonical URL
	history  map[string][]*model.PerformanceHistoryRecord // by tracking ID
	trends   map[string]*model.TrendAnalysis        // by trackingID + "/" + period
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		reports:  make(map[string]*model.AuditReport),
		tracking: make(map[string]*model.HistoricalTracking),
		history:  make(map[string][]*model.PerformanceHistoryRecord),
		trends:   make(map[string]*model.TrendAnalysis),
	}
}

// SaveAuditReport stores the report.
func (m *Memory) SaveAuditReport(_ context.Context, report *model.AuditReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
	return nil
}

// GetAuditReport retrieves a report by ID.
func (m *Memory) GetAuditReport(_ context.Context, id string) (*model.AuditReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return report, nil
}

// ListAuditReports returns the canonical URL's reports, newest first.
func (m *Memory) ListAuditReports(_ context.Context, canonicalURL string, limit int) ([]*model.AuditReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reports []*model.AuditReport
	for _, report := range m.reports {
		canonical, err := safeurl.Canonicalize(report.URL)
		if err == nil && canonical == canonicalURL {
			reports = append(reports, report)
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].AnalysisDate.After(reports[j].AnalysisDate)
	})

	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// RecordAudit bumps tracking state and appends the history record
// atomically under the repository mutex.
func (m *Memory) RecordAudit(_ context.Context, report *model.AuditReport) (*model.HistoricalTracking, error) {
	canonical, err := safeurl.Canonicalize(report.URL)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tracking, ok := m.tracking[canonical]
	if !ok {
		tracking = model.NewHistoricalTracking(canonical, safeurl.Domain(canonical), report.AnalysisDate)
		m.tracking[canonical] = tracking
	}

	tracking.TotalAudits++
	tracking.LastAuditDate = report.AnalysisDate

	record := model.NewHistoryRecord(tracking.ID, report)
	series := m.history[tracking.ID]
	if len(series) > 0 {
		record.ScoreChanges = scoreChanges(record, series[len(series)-1])
	}
	m.history[tracking.ID] = append(series, record)

	return tracking, nil
}

// GetTracking retrieves a tracking record by canonical URL.
func (m *Memory) GetTracking(_ context.Context, canonicalURL string) (*model.HistoricalTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tracking, ok := m.tracking[canonicalURL]
	if !ok {
		return nil, ErrNotFound
	}
	return tracking, nil
}

// GetTrackingByID retrieves a tracking record by ID.
func (m *Memory) GetTrackingByID(_ context.Context, trackingID string) (*model.HistoricalTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tracking := range m.tracking {
		if tracking.ID == trackingID {
			return tracking, nil
		}
	}
	return nil, ErrNotFound
}

// DeactivateTracking marks the tracking inactive.
func (m *Memory) DeactivateTracking(_ context.Context, trackingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tracking := range m.tracking {
		if tracking.ID == trackingID {
			tracking.IsActive = false
			return nil
		}
	}
	return ErrNotFound
}

// HistorySince returns the tracking's records at or after since,
// ordered ascending by RecordedAt.
func (m *Memory) HistorySince(_ context.Context, trackingID string, since time.Time) ([]*model.PerformanceHistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []*model.PerformanceHistoryRecord
	for _, record := range m.history[trackingID] {
		if !record.RecordedAt.Before(since) {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	return records, nil
}

// SaveTrendAnalysis replaces the current analysis for the pair.
func (m *Memory) SaveTrendAnalysis(_ context.Context, analysis *model.TrendAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trends[trendKey(analysis.TrackingID, analysis.TimePeriod)] = analysis
	return nil
}

// GetTrendAnalysis retrieves the current analysis for the pair.
func (m *Memory) GetTrendAnalysis(_ context.Context, trackingID string, period model.TimePeriod) (*model.TrendAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	analysis, ok := m.trends[trendKey(trackingID, period)]
	if !ok {
		return nil, ErrNotFound
	}
	return analysis, nil
}

// trendKey builds the (tracking, period) map key.
func trendKey(trackingID string, period model.TimePeriod) string {
	return trackingID + "/" + string(period)
}
