package score

import (
	"fmt"
	"strings"

	"github.com/sitegauge/sitegauge/internal/model"
)

// Mobile component weights. Viewport quality contributes up to 20 points
// directly; the four sub-scores contribute their weighted share of 100.
const (
	viewportPoints         = 20
	weightTouchTargets     = 0.25
	weightTextReadability  = 0.20
	weightMobilePerf       = 0.20
	weightMobileSEO        = 0.15
)

// Mobile scores mobile-friendliness from the document and fetch metrics:
// 20*viewportQuality + 0.25*touchTargets + 0.20*readability +
// 0.20*mobilePerformance + 0.15*mobileSEO.
func Mobile(doc *model.Document, metrics Metrics) model.MobileAnalysis {
	result := model.MobileAnalysis{}

	result.ViewportQuality = viewportQuality(doc.MetaContent("viewport"))
	result.TouchTargetScore = touchTargetScore(doc, &result)
	result.TextReadabilityScore = textReadabilityScore(doc, result.ViewportQuality, &result)
	result.MobilePerformanceScore = mobilePerformanceScore(doc, metrics, &result)
	result.MobileSEOScore = mobileSEOScore(doc, result.ViewportQuality, &result)

	result.Score = model.ClampScore(
		viewportPoints*result.ViewportQuality +
			weightTouchTargets*result.TouchTargetScore +
			weightTextReadability*result.TextReadabilityScore +
			weightMobilePerf*result.MobilePerformanceScore +
			weightMobileSEO*result.MobileSEOScore,
	)

	return result
}

// viewportQuality is 1.0 when the viewport declares both device-width and
// initial-scale=1, 0.5 when present but incomplete, 0 when absent.
func viewportQuality(viewport string) float64 {
	if viewport == "" {
		return 0
	}
	lower := strings.ReplaceAll(strings.ToLower(viewport), " ", "")
	if strings.Contains(lower, "width=device-width") && strings.Contains(lower, "initial-scale=1") {
		return 1.0
	}
	return 0.5
}

// touchTargetScore penalizes anchors with no discernible text, which tend
// to be icon links too small to tap reliably. Static analysis cannot
// measure rendered target sizes, so empty-text anchors stand in as the
// observable signal.
func touchTargetScore(doc *model.Document, result *model.MobileAnalysis) float64 {
	score := 100.0

	empty := 0
	for _, anchor := range doc.Anchors {
		if anchor.Text == "" {
			empty++
		}
	}

	if empty > 0 {
		penalty := float64(empty * 5)
		if penalty > 60 {
			penalty = 60
		}
		score -= penalty
		result.Issues = append(result.Issues, fmt.Sprintf("%d links have no text content, suggesting small touch targets", empty))
		result.Recommendations = append(result.Recommendations, "Give icon links accessible text and at least 44x44px touch areas")
	}

	return model.ClampScore(score)
}

// textReadabilityScore approximates mobile readability: without a
// viewport the browser renders a zoomed-out desktop layout, and a page
// with substantial text but no headings is hard to scan on small screens.
func textReadabilityScore(doc *model.Document, viewport float64, result *model.MobileAnalysis) float64 {
	score := 100.0

	if viewport == 0 {
		score -= 40
		result.Issues = append(result.Issues, "Text renders at desktop scale on mobile without a viewport tag")
	}

	if doc.WordCount > 200 && len(doc.Headings) == 0 {
		score -= 10
		result.Issues = append(result.Issues, "Long text content has no headings to break it up")
		result.Recommendations = append(result.Recommendations, "Add headings so mobile readers can scan the content")
	}

	return model.ClampScore(score)
}

// mobilePerformanceScore penalizes weight and request count harder than
// the desktop performance scorer, reflecting cellular constraints.
func mobilePerformanceScore(doc *model.Document, metrics Metrics, result *model.MobileAnalysis) float64 {
	score := 100.0

	switch {
	case metrics.ByteSize > 1024*1024:
		score -= 30
		result.Issues = append(result.Issues, "Page weight over 1MB is slow on cellular connections")
		result.Recommendations = append(result.Recommendations, "Serve responsive images and compress assets for mobile")
	case metrics.ByteSize > 512*1024:
		score -= 15
		result.Issues = append(result.Issues, "Page weight over 512KB may be slow on cellular connections")
	}

	if doc.ResourceCount > 50 {
		score -= 20
		result.Issues = append(result.Issues, fmt.Sprintf("%d resource requests strain mobile connections", doc.ResourceCount))
	}

	switch {
	case metrics.LoadTimeMs > 3000:
		score -= 20
	case metrics.LoadTimeMs > 2000:
		score -= 10
	}

	return model.ClampScore(score)
}

// mobileSEOScore checks the tags mobile search results depend on.
func mobileSEOScore(doc *model.Document, viewport float64, result *model.MobileAnalysis) float64 {
	score := 100.0

	if viewport == 0 {
		score -= 25
		result.Issues = append(result.Issues, "No viewport meta tag; search engines may not treat the page as mobile-friendly")
		result.Recommendations = append(result.Recommendations, `Add <meta name="viewport" content="width=device-width, initial-scale=1">`)
	}

	if doc.Title == "" {
		score -= 15
		result.Issues = append(result.Issues, "Missing title hurts mobile search snippets")
	}

	if doc.MetaContent("description") == "" {
		score -= 10
		result.Issues = append(result.Issues, "Missing meta description hurts mobile search snippets")
	}

	return model.ClampScore(score)
}
