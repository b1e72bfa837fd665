package score

import (
	"fmt"

	"github.com/sitegauge/sitegauge/internal/model"
)

// Metrics carries the fetch-derived measurements the scorers consume.
type Metrics struct {
	// LoadTimeMs is the total retrieval time in milliseconds.
	LoadTimeMs int64

	// FirstPaintEstimateMs is the static first-paint estimate.
	FirstPaintEstimateMs int64

	// ByteSize is the response body size in bytes.
	ByteSize int64
}

// Performance penalty thresholds and deductions.
const (
	loadTimeSlowMs        = 3000
	loadTimeSlowMsPenalty = 30
	loadTimeFairMs        = 2000
	loadTimeFairMsPenalty = 15

	firstPaintSlowMs      = 2000
	firstPaintSlowPenalty = 20

	heavyPageBytes   = 1024 * 1024
	heavyPagePenalty = 15

	manyResourcesCount   = 50
	manyResourcesPenalty = 10
)

// Performance scores page speed and weight from the fetch measurements
// and the document's resource count.
func Performance(doc *model.Document, metrics Metrics) model.PerformanceMetrics {
	result := model.PerformanceMetrics{
		LoadTimeMs:           metrics.LoadTimeMs,
		FirstPaintEstimateMs: metrics.FirstPaintEstimateMs,
		ByteSize:             metrics.ByteSize,
		ResourceCount:        doc.ResourceCount,
	}

	scoreValue := 100.0

	switch {
	case metrics.LoadTimeMs > loadTimeSlowMs:
		scoreValue -= loadTimeSlowMsPenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Page load time %dms exceeds 3 seconds", metrics.LoadTimeMs))
		result.Recommendations = append(result.Recommendations, "Reduce server response time and page weight to bring load time under 2 seconds")
	case metrics.LoadTimeMs > loadTimeFairMs:
		scoreValue -= loadTimeFairMsPenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Page load time %dms exceeds 2 seconds", metrics.LoadTimeMs))
		result.Recommendations = append(result.Recommendations, "Aim for a load time under 2 seconds")
	}

	if metrics.FirstPaintEstimateMs > firstPaintSlowMs {
		scoreValue -= firstPaintSlowPenalty
		result.Issues = append(result.Issues, "Estimated first paint exceeds 2 seconds")
		result.Recommendations = append(result.Recommendations, "Inline critical CSS and defer non-essential scripts to speed up first paint")
	}

	if metrics.ByteSize > heavyPageBytes {
		scoreValue -= heavyPagePenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Page size %d bytes exceeds 1MB", metrics.ByteSize))
		result.Recommendations = append(result.Recommendations, "Compress images and minify assets to reduce page weight below 1MB")
	}

	if doc.ResourceCount > manyResourcesCount {
		scoreValue -= manyResourcesPenalty
		result.Issues = append(result.Issues, fmt.Sprintf("%d HTTP-triggering elements found (scripts, stylesheets, images)", doc.ResourceCount))
		result.Recommendations = append(result.Recommendations, "Bundle scripts and stylesheets to reduce request count")
	}

	result.Score = model.ClampScore(scoreValue)
	return result
}
