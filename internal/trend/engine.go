package trend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sitegauge/sitegauge/internal/model"
)

// HistorySource is the read-only time-series query interface the engine
// depends on. The repository implements it; tests use a fixture.
type HistorySource interface {
	// HistorySince returns the tracking's performance-history records
	// recorded at or after since, ordered by RecordedAt ascending.
	HistorySince(ctx context.Context, trackingID string, since time.Time) ([]*model.PerformanceHistoryRecord, error)
}

// Per-period analysis parameters. These constants are part of the stable
// scoring contract alongside the category penalty tables.
type periodParams struct {
	// minPoints is the history length below which the engine emits the
	// insufficient-data analysis.
	minPoints int

	// significanceThreshold is the point delta a metric change must
	// exceed to count as significant.
	significanceThreshold float64

	// expectedPoints is the history length that earns full data-quantity
	// confidence for the period.
	expectedPoints int
}

// paramsFor maps each look-back window to its parameters.
var paramsFor = map[model.TimePeriod]periodParams{
	model.Period7d:  {minPoints: 3, significanceThreshold: 5, expectedPoints: 7},
	model.Period30d: {minPoints: 5, significanceThreshold: 8, expectedPoints: 15},
	model.Period90d: {minPoints: 8, significanceThreshold: 10, expectedPoints: 30},
	model.Period1y:  {minPoints: 12, significanceThreshold: 15, expectedPoints: 52},
}

// Direction classification threshold: the two half-averages must differ
// by at least this many points to leave "stable".
const directionThreshold = 5.0

// Strength classification cutoffs on the consistency/magnitude blend.
const (
	strengthStrongCutoff   = 75.0
	strengthModerateCutoff = 50.0
)

// insufficientDataConfidence is the fixed confidence of the
// insufficient-data analysis.
const insufficientDataConfidence = 10

// sampleSize is how many points from each end of the window feed the
// significant-change comparison.
const sampleSize = 5

// Engine computes trend analyses from performance history.
//
// Design decision: The engine takes its history source and clock as
// explicit dependencies rather than reaching into a store singleton
// because:
//  1. Tests drive it with fixed series and a frozen clock
//  2. Window computations stay independently runnable in parallel
//  3. The engine provably never mutates history
type Engine struct {
	// source supplies the date-bounded record slices.
	source HistorySource

	// now supplies the current time; replaceable in tests.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine reading from source.
func NewEngine(source HistorySource, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Generate computes the trend analysis for one (tracking, period) pair.
func (e *Engine) Generate(ctx context.Context, trackingID string, period model.TimePeriod) (*model.TrendAnalysis, error) {
	params, ok := paramsFor[period]
	if !ok {
		return nil, fmt.Errorf("unsupported time period %q", period)
	}

	now := e.now()
	since := now.AddDate(0, 0, -period.Days())

	records, err := e.source.HistorySince(ctx, trackingID, since)
	if err != nil {
		return nil, fmt.Errorf("query history for %s/%s: %w", trackingID, period, err)
	}

	analysis := model.NewTrendAnalysis(trackingID, period)
	analysis.AnalysisDate = now
	analysis.DataPoints = len(records)

	if len(records) < params.minPoints {
		return e.insufficientData(analysis, params), nil
	}

	overall := metricSeries(records, "Overall")

	analysis.OverallTrend = classifyDirection(overall)
	analysis.TrendStrength = classifyStrength(overall, analysis.OverallTrend)

	improvements, regressions := e.significantChanges(records, params)
	analysis.Improvements = improvements
	analysis.Regressions = regressions

	analysis.ConfidenceScore = e.confidence(records, period, params, now)
	analysis.KeyInsights = generateInsights(records, overall, params, analysis.OverallTrend)
	analysis.Recommendations = deriveRecommendations(improvements, regressions, overall)

	return analysis, nil
}

// insufficientData fills the fixed need-more-data analysis.
func (e *Engine) insufficientData(analysis *model.TrendAnalysis, params periodParams) *model.TrendAnalysis {
	analysis.OverallTrend = model.TrendStable
	analysis.TrendStrength = model.StrengthWeak
	analysis.ConfidenceScore = insufficientDataConfidence
	analysis.KeyInsights = []model.KeyInsight{{
		Category: "data_quantity",
		Message: fmt.Sprintf("Only %d audits recorded in this period; at least %d are needed for trend analysis",
			analysis.DataPoints, params.minPoints),
		Impact: "low",
	}}
	analysis.Recommendations = []string{
		"Continue auditing this URL on a regular schedule to accumulate trend data",
	}
	return analysis
}

// classifyDirection splits the series in half, averages each half, and
// classifies the delta: improving at +5 or more, declining at -5 or less,
// stable otherwise.
func classifyDirection(overall []float64) model.TrendDirection {
	mid := len(overall) / 2
	delta := mean(overall[mid:]) - mean(overall[:mid])

	switch {
	case delta >= directionThreshold:
		return model.TrendImproving
	case delta <= -directionThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

// classifyStrength blends delta-sign consistency with mean delta
// magnitude (scaled x5, capped at 100); the average of the two maps to
// strong at 75+, moderate at 50+, weak below.
func classifyStrength(overall []float64, direction model.TrendDirection) model.TrendStrengthLevel {
	diffs := deltas(overall)
	if len(diffs) == 0 {
		return model.StrengthWeak
	}

	matching := 0
	for _, d := range diffs {
		switch direction {
		case model.TrendImproving:
			if d > 0 {
				matching++
			}
		case model.TrendDeclining:
			if d < 0 {
				matching++
			}
		case model.TrendStable:
			// A stable series "matches" when the step stays under the
			// direction threshold.
			if math.Abs(d) < directionThreshold {
				matching++
			}
		}
	}
	consistency := 100 * float64(matching) / float64(len(diffs))

	magnitude := meanAbs(diffs) * 5
	if magnitude > 100 {
		magnitude = 100
	}

	blend := (consistency + magnitude) / 2
	switch {
	case blend >= strengthStrongCutoff:
		return model.StrengthStrong
	case blend >= strengthModerateCutoff:
		return model.StrengthModerate
	default:
		return model.StrengthWeak
	}
}

// significantChanges compares the mean of the most-recent sample against
// the mean of the earliest sample for every metric, flagging changes past
// the period threshold and bucketing them at 1.5x/2.5x.
func (e *Engine) significantChanges(records []*model.PerformanceHistoryRecord, params periodParams) (improvements, regressions []model.SignificantChange) {
	for _, metric := range model.MetricNames {
		series := metricSeries(records, metric)
		if len(series) < 2 {
			continue
		}

		n := sampleSize
		if n > len(series) {
			n = len(series)
		}
		earliest := mean(series[:n])
		recent := mean(series[len(series)-n:])
		change := recent - earliest

		if math.Abs(change) <= params.significanceThreshold {
			continue
		}

		sc := model.SignificantChange{
			Category:    metric,
			ScoreChange: change,
			Magnitude:   classifyMagnitude(math.Abs(change), params.significanceThreshold),
		}
		if earliest != 0 {
			sc.PercentageChange = change / earliest * 100
		}

		if change > 0 {
			sc.Type = model.ChangeImprovement
			sc.Description = fmt.Sprintf("%s score improved by %.1f points (%.1f → %.1f)", metric, change, earliest, recent)
			sc.PossibleCauses = improvementCauses(metric)
			improvements = append(improvements, sc)
		} else {
			sc.Type = model.ChangeRegression
			sc.Description = fmt.Sprintf("%s score dropped by %.1f points (%.1f → %.1f)", metric, -change, earliest, recent)
			sc.PossibleCauses = regressionCauses(metric)
			regressions = append(regressions, sc)
		}
	}

	return improvements, regressions
}

// classifyMagnitude buckets an absolute change against the period
// threshold: major at 2.5x, moderate at 1.5x, minor below.
func classifyMagnitude(absChange, threshold float64) model.ChangeMagnitude {
	switch {
	case absChange >= 2.5*threshold:
		return model.MagnitudeMajor
	case absChange >= 1.5*threshold:
		return model.MagnitudeModerate
	default:
		return model.MagnitudeMinor
	}
}

// confidence scores how much the data supports the analysis:
// 30% data quantity + 25% data consistency + 25% time-span coverage +
// 20% freshness.
func (e *Engine) confidence(records []*model.PerformanceHistoryRecord, period model.TimePeriod, params periodParams, now time.Time) float64 {
	quantity := 100 * float64(len(records)) / float64(params.expectedPoints)
	if quantity > 100 {
		quantity = 100
	}

	consistency := dataConsistency(records)

	spanDays := records[len(records)-1].RecordedAt.Sub(records[0].RecordedAt).Hours() / 24
	coverage := 100 * spanDays / float64(period.Days())
	if coverage > 100 {
		coverage = 100
	}

	fresh := freshness(now.Sub(records[len(records)-1].RecordedAt))

	return model.ClampScore(0.30*quantity + 0.25*consistency + 0.25*coverage + 0.20*fresh)
}

// dataConsistency is the ratio of populated optional metric fields across
// all records, as a percentage.
func dataConsistency(records []*model.PerformanceHistoryRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	populated := 0
	total := 0
	for _, r := range records {
		for _, metric := range model.MetricNames[1:] { // Overall is always populated
			total++
			if _, ok := r.Metric(metric); ok {
				populated++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(populated) / float64(total)
}

// freshness is a step function of the age of the latest point.
func freshness(age time.Duration) float64 {
	days := age.Hours() / 24
	switch {
	case days <= 1:
		return 100
	case days <= 3:
		return 80
	case days <= 7:
		return 60
	case days <= 14:
		return 40
	case days <= 30:
		return 20
	default:
		return 10
	}
}

// metricSeries extracts the populated values of one metric in record order.
func metricSeries(records []*model.PerformanceHistoryRecord, metric string) []float64 {
	series := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Metric(metric); ok {
			series = append(series, v)
		}
	}
	return series
}
