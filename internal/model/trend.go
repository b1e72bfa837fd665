package model

import (
	"time"

	"github.com/google/uuid"
)

// TimePeriod is a trend look-back window.
type TimePeriod string

// Supported look-back windows.
const (
	Period7d  TimePeriod = "7d"
	Period30d TimePeriod = "30d"
	Period90d TimePeriod = "90d"
	Period1y  TimePeriod = "1y"
)

// AllPeriods lists every look-back window in ascending order.
var AllPeriods = []TimePeriod{Period7d, Period30d, Period90d, Period1y}

// Days returns the number of days the period spans.
func (p TimePeriod) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period30d:
		return 30
	case Period90d:
		return 90
	case Period1y:
		return 365
	}
	return 0
}

// Valid reports whether p is a supported period.
func (p TimePeriod) Valid() bool {
	return p.Days() > 0
}

// TrendDirection is the overall movement of a score series.
type TrendDirection string

// Trend directions.
const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendStrengthLevel qualifies how consistently and sharply a series moves.
type TrendStrengthLevel string

// Trend strength levels.
const (
	StrengthWeak     TrendStrengthLevel = "weak"
	StrengthModerate TrendStrengthLevel = "moderate"
	StrengthStrong   TrendStrengthLevel = "strong"
)

// ChangeType classifies a significant change.
type ChangeType string

// Change types.
const (
	ChangeImprovement ChangeType = "improvement"
	ChangeRegression  ChangeType = "regression"
)

// ChangeMagnitude buckets a significant change by size relative to the
// period's significance threshold.
type ChangeMagnitude string

// Change magnitudes.
const (
	MagnitudeMinor    ChangeMagnitude = "minor"
	MagnitudeModerate ChangeMagnitude = "moderate"
	MagnitudeMajor    ChangeMagnitude = "major"
)

// SignificantChange is one metric movement exceeding the period's
// significance threshold.
type SignificantChange struct {
	// Category is the metric name (Overall, SEO, Accessibility, ...).
	Category string `json:"category"`

	// Type is improvement or regression.
	Type ChangeType `json:"type"`

	// Magnitude buckets the change as minor, moderate, or major.
	Magnitude ChangeMagnitude `json:"magnitude"`

	// ScoreChange is the absolute point delta between the sampled periods.
	ScoreChange float64 `json:"score_change"`

	// PercentageChange is the delta relative to the earlier mean.
	PercentageChange float64 `json:"percentage_change"`

	// Description summarizes the change for display.
	Description string `json:"description"`

	// PossibleCauses lists heuristic explanations worth investigating.
	PossibleCauses []string `json:"possible_causes,omitempty"`
}

// KeyInsight is one heuristic finding about the score series.
type KeyInsight struct {
	// Category identifies the heuristic (velocity, consistency,
	// correlation, recent_change, volatility).
	Category string `json:"category"`

	// Message is the human-readable finding.
	Message string `json:"message"`

	// Impact is low, medium, or high.
	Impact string `json:"impact"`
}

// TrendAnalysis is the derived trend document for one
// (tracking, period) pair. A fresh analysis replaces the prior record for
// that pair; only the underlying time series is kept historically.
type TrendAnalysis struct {
	// ID is the generated identifier of this analysis document.
	ID string `json:"id"`

	// TrackingID links the analysis to its HistoricalTracking.
	TrackingID string `json:"tracking_id"`

	// TimePeriod is the look-back window analyzed.
	TimePeriod TimePeriod `json:"time_period"`

	// OverallTrend is improving, declining, or stable.
	OverallTrend TrendDirection `json:"overall_trend"`

	// TrendStrength is weak, moderate, or strong.
	TrendStrength TrendStrengthLevel `json:"trend_strength"`

	// KeyInsights lists the heuristic findings, at most one per heuristic.
	KeyInsights []KeyInsight `json:"key_insights,omitempty"`

	// Improvements lists significant positive metric changes.
	Improvements []SignificantChange `json:"improvements,omitempty"`

	// Regressions lists significant negative metric changes.
	Regressions []SignificantChange `json:"regressions,omitempty"`

	// Recommendations lists derived actions, capped to the top 5 by priority.
	Recommendations []string `json:"recommendations,omitempty"`

	// ConfidenceScore reflects how much data supports this analysis, in [0,100].
	ConfidenceScore float64 `json:"confidence_score"`

	// DataPoints is the number of history records inside the window.
	DataPoints int `json:"data_points"`

	// AnalysisDate is when this analysis was computed.
	AnalysisDate time.Time `json:"analysis_date"`
}

// NewTrendAnalysis creates an analysis shell for the pair.
func NewTrendAnalysis(trackingID string, period TimePeriod) *TrendAnalysis {
	return &TrendAnalysis{
		ID:           uuid.NewString(),
		TrackingID:   trackingID,
		TimePeriod:   period,
		AnalysisDate: time.Now(),
	}
}
