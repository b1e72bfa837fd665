package trend

import (
	"fmt"
	"math"

	"github.com/sitegauge/sitegauge/internal/model"
)

// Insight heuristic thresholds.
const (
	// velocityNotableWeekly is the weekly point change that makes the
	// velocity heuristic fire; velocityStrongWeekly upgrades its impact.
	velocityNotableWeekly = 3.0
	velocityStrongWeekly  = 6.0

	// consistencyNotable is the delta-sign agreement percentage that
	// makes the consistency heuristic fire.
	consistencyNotable = 80.0

	// correlationFireAt is the minimum |r| for the correlation heuristic;
	// correlationHighAt upgrades its impact to high.
	correlationFireAt = 0.6
	correlationHighAt = 0.8

	// correlationMinPoints is the minimum paired points for a meaningful
	// correlation.
	correlationMinPoints = 5

	// volatilityNotable is the overall-score standard deviation that
	// makes the volatility heuristic fire.
	volatilityNotable = 10.0
)

// generateInsights runs the independent insight heuristics. Each returns
// at most one finding; all non-nil findings are concatenated in a fixed
// order so output is deterministic for a given series.
func generateInsights(records []*model.PerformanceHistoryRecord, overall []float64, params periodParams, direction model.TrendDirection) []model.KeyInsight {
	var insights []model.KeyInsight

	heuristics := []func() *model.KeyInsight{
		func() *model.KeyInsight { return velocityInsight(records, overall) },
		func() *model.KeyInsight { return consistencyInsight(overall, direction) },
		func() *model.KeyInsight { return correlationInsight(records) },
		func() *model.KeyInsight { return recentChangeInsight(overall, params) },
		func() *model.KeyInsight { return volatilityInsight(overall) },
	}

	for _, heuristic := range heuristics {
		if insight := heuristic(); insight != nil {
			insights = append(insights, *insight)
		}
	}

	return insights
}

// velocityInsight reports the rate of overall-score change per week when
// it is fast enough to matter.
func velocityInsight(records []*model.PerformanceHistoryRecord, overall []float64) *model.KeyInsight {
	if len(overall) < 2 {
		return nil
	}

	spanDays := records[len(records)-1].RecordedAt.Sub(records[0].RecordedAt).Hours() / 24
	if spanDays <= 0 {
		return nil
	}

	weekly := (overall[len(overall)-1] - overall[0]) / spanDays * 7
	if math.Abs(weekly) < velocityNotableWeekly {
		return nil
	}

	impact := "medium"
	if math.Abs(weekly) >= velocityStrongWeekly {
		impact = "high"
	}

	verb := "rising"
	if weekly < 0 {
		verb = "falling"
	}

	return &model.KeyInsight{
		Category: "velocity",
		Message:  fmt.Sprintf("Overall score is %s at %.1f points per week", verb, math.Abs(weekly)),
		Impact:   impact,
	}
}

// consistencyInsight fires when consecutive deltas agree on direction at
// least 80% of the time.
func consistencyInsight(overall []float64, direction model.TrendDirection) *model.KeyInsight {
	if direction == model.TrendStable {
		return nil
	}

	diffs := deltas(overall)
	if len(diffs) == 0 {
		return nil
	}

	matching := 0
	for _, d := range diffs {
		if (direction == model.TrendImproving && d > 0) || (direction == model.TrendDeclining && d < 0) {
			matching++
		}
	}
	agreement := 100 * float64(matching) / float64(len(diffs))
	if agreement < consistencyNotable {
		return nil
	}

	return &model.KeyInsight{
		Category: "consistency",
		Message:  fmt.Sprintf("Score movement is highly consistent: %.0f%% of changes point the same way", agreement),
		Impact:   "medium",
	}
}

// correlationInsight looks for the strongest Pearson correlation between
// any two category metrics across at least five paired points. It fires
// at |r| >= 0.6 and reports high impact at |r| >= 0.8.
func correlationInsight(records []*model.PerformanceHistoryRecord) *model.KeyInsight {
	metrics := model.MetricNames[1:] // category metrics only

	var bestR float64
	var bestPair [2]string

	for i := 0; i < len(metrics); i++ {
		for j := i + 1; j < len(metrics); j++ {
			xs, ys := pairedSeries(records, metrics[i], metrics[j])
			if len(xs) < correlationMinPoints {
				continue
			}
			r := pearson(xs, ys)
			if math.Abs(r) > math.Abs(bestR) {
				bestR = r
				bestPair = [2]string{metrics[i], metrics[j]}
			}
		}
	}

	if math.Abs(bestR) < correlationFireAt {
		return nil
	}

	impact := "medium"
	if math.Abs(bestR) >= correlationHighAt {
		impact = "high"
	}

	relation := "move together"
	if bestR < 0 {
		relation = "move in opposite directions"
	}

	return &model.KeyInsight{
		Category: "correlation",
		Message:  fmt.Sprintf("%s and %s scores %s (r=%.2f)", bestPair[0], bestPair[1], relation, bestR),
		Impact:   impact,
	}
}

// recentChangeInsight compares the latest point against the previous one
// and fires when the jump alone exceeds the period threshold.
func recentChangeInsight(overall []float64, params periodParams) *model.KeyInsight {
	if len(overall) < 2 {
		return nil
	}

	jump := overall[len(overall)-1] - overall[len(overall)-2]
	if math.Abs(jump) < params.significanceThreshold {
		return nil
	}

	impact := "medium"
	if math.Abs(jump) >= 1.5*params.significanceThreshold {
		impact = "high"
	}

	verb := "jumped"
	if jump < 0 {
		verb = "dropped"
	}

	return &model.KeyInsight{
		Category: "recent_change",
		Message:  fmt.Sprintf("Latest audit %s %.1f points against the previous one", verb, math.Abs(jump)),
		Impact:   impact,
	}
}

// volatilityInsight fires when the overall score swings widely across the
// window.
func volatilityInsight(overall []float64) *model.KeyInsight {
	sd := stddev(overall)
	if sd < volatilityNotable {
		return nil
	}

	return &model.KeyInsight{
		Category: "volatility",
		Message:  fmt.Sprintf("Overall score is volatile (standard deviation %.1f points)", sd),
		Impact:   "medium",
	}
}

// pairedSeries extracts the values of two metrics restricted to records
// where both are populated, keeping the pairs aligned.
func pairedSeries(records []*model.PerformanceHistoryRecord, metricA, metricB string) (xs, ys []float64) {
	for _, r := range records {
		a, okA := r.Metric(metricA)
		b, okB := r.Metric(metricB)
		if okA && okB {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	return xs, ys
}
