package trend

import (
	"fmt"
	"sort"

	"github.com/sitegauge/sitegauge/internal/model"
)

// maxRecommendations caps the derived recommendation list.
const maxRecommendations = 5

// prioritized pairs a recommendation with its ordering priority.
type prioritized struct {
	text     string
	priority int
}

// deriveRecommendations turns the significant changes and volatility into
// actionable recommendations, deterministically ordered by priority and
// capped to the top five. Regressions outrank volatility, which outranks
// improvement reinforcement.
func deriveRecommendations(improvements, regressions []model.SignificantChange, overall []float64) []string {
	var candidates []prioritized

	for _, reg := range regressions {
		priority := 50
		switch reg.Magnitude {
		case model.MagnitudeMajor:
			priority = 90
		case model.MagnitudeModerate:
			priority = 70
		}
		candidates = append(candidates, prioritized{
			text:     regressionAction(reg.Category),
			priority: priority,
		})
	}

	if stddev(overall) >= volatilityNotable {
		candidates = append(candidates, prioritized{
			text:     "Investigate why scores swing between audits; inconsistent deploys or flaky third-party resources are common causes",
			priority: 60,
		})
	}

	for _, imp := range improvements {
		candidates = append(candidates, prioritized{
			text:     fmt.Sprintf("Recent %s improvements are holding; keep the changes that drove them in place", imp.Category),
			priority: 30,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})

	seen := make(map[string]bool)
	var recommendations []string
	for _, c := range candidates {
		if seen[c.text] {
			continue
		}
		seen[c.text] = true
		recommendations = append(recommendations, c.text)
		if len(recommendations) == maxRecommendations {
			break
		}
	}

	return recommendations
}

// regressionAction maps a regressing metric to its remediation.
func regressionAction(category string) string {
	switch category {
	case "SEO":
		return "Review recent content and meta tag changes; the SEO score is regressing"
	case "Accessibility":
		return "Audit recent markup changes for accessibility regressions (alt text, labels, landmarks)"
	case "Mobile":
		return "Check viewport configuration and mobile layout; the mobile score is regressing"
	case "Performance":
		return "Profile page weight and load time; the performance score is regressing"
	default:
		return "Investigate the overall score regression across recent audits"
	}
}

// improvementCauses lists heuristic explanations for a rising metric.
func improvementCauses(category string) []string {
	switch category {
	case "SEO":
		return []string{"Improved meta tags or content structure", "Broken links fixed"}
	case "Accessibility":
		return []string{"Alt text or form labels added", "Semantic landmarks introduced"}
	case "Mobile":
		return []string{"Viewport configuration fixed", "Page weight reduced"}
	case "Performance":
		return []string{"Assets compressed or removed", "Server response time improved"}
	default:
		return []string{"Improvements across one or more categories"}
	}
}

// regressionCauses lists heuristic explanations for a falling metric.
func regressionCauses(category string) []string {
	switch category {
	case "SEO":
		return []string{"Meta tags removed or truncated", "New broken links", "Content restructured"}
	case "Accessibility":
		return []string{"New images without alt text", "Form fields added without labels"}
	case "Mobile":
		return []string{"Viewport tag removed or changed", "Page weight increased"}
	case "Performance":
		return []string{"Page weight increased", "Server response slowed", "More third-party scripts"}
	default:
		return []string{"Regressions across one or more categories"}
	}
}
