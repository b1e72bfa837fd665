package score

import (
	"fmt"

	"github.com/sitegauge/sitegauge/internal/model"
)

// Accessibility scoring constants.
const (
	criticalIssuePenalty = 15
	warningIssuePenalty  = 5

	principleCriticalPenalty = 20
	principleWarningPenalty  = 10
)

// Accessibility detects accessibility issues in the document, classifies
// them by WCAG principle and level, and derives the category score:
// 100 - 15 per critical issue - 5 per warning, floored at 0. Each WCAG
// principle additionally gets its own sub-score of
// 100 - 20 per critical - 10 per warning within that principle.
func Accessibility(doc *model.Document) (model.AccessibilityScoring, []model.AccessibilityIssue) {
	issues := detectIssues(doc)

	result := model.AccessibilityScoring{
		PrincipleScores: map[model.WCAGPrinciple]float64{
			model.PrinciplePerceivable:    100,
			model.PrincipleOperable:       100,
			model.PrincipleUnderstandable: 100,
			model.PrincipleRobust:         100,
		},
	}

	criticalLevelA := 0
	criticalLevelAOrAA := 0

	for _, issue := range issues {
		result.Issues = append(result.Issues, issue.Description)

		var principlePenalty float64
		switch issue.Severity {
		case model.SeverityCritical:
			result.CriticalCount++
			principlePenalty = principleCriticalPenalty
			if issue.Level == model.LevelA {
				criticalLevelA++
			}
			if issue.Level == model.LevelA || issue.Level == model.LevelAA {
				criticalLevelAOrAA++
			}
		case model.SeverityWarning:
			result.WarningCount++
			principlePenalty = principleWarningPenalty
		}

		result.PrincipleScores[issue.Principle] = model.ClampScore(
			result.PrincipleScores[issue.Principle] - principlePenalty,
		)
	}

	result.Score = model.ClampScore(
		100 - float64(result.CriticalCount*criticalIssuePenalty) - float64(result.WarningCount*warningIssuePenalty),
	)

	switch {
	case criticalLevelAOrAA == 0:
		result.Compliance = model.ComplianceAA
	case criticalLevelA == 0:
		result.Compliance = model.ComplianceA
	default:
		result.Compliance = model.ComplianceNone
	}

	result.Recommendations = accessibilityRecommendations(issues)

	return result, issues
}

// detectIssues runs the accessibility rules against the document.
// Rules are heuristic approximations of WCAG success criteria, not a
// certification.
func detectIssues(doc *model.Document) []model.AccessibilityIssue {
	var issues []model.AccessibilityIssue

	if doc.Title == "" {
		issues = append(issues, model.AccessibilityIssue{
			Rule:        "page-title",
			Description: "Page has no title (WCAG 2.4.2)",
			Severity:    model.SeverityCritical,
			Level:       model.LevelA,
			Principle:   model.PrincipleOperable,
			Context:     "head",
		})
	}

	if doc.Lang == "" {
		issues = append(issues, model.AccessibilityIssue{
			Rule:        "html-lang",
			Description: "Document language is not declared (WCAG 3.1.1)",
			Severity:    model.SeverityCritical,
			Level:       model.LevelA,
			Principle:   model.PrincipleUnderstandable,
			Context:     "html",
		})
	}

	for i, img := range doc.Images {
		if !img.HasAlt {
			issues = append(issues, model.AccessibilityIssue{
				Rule:        "img-alt",
				Description: fmt.Sprintf("Image %q has no alt attribute (WCAG 1.1.1)", displaySrc(img.Src)),
				Severity:    model.SeverityCritical,
				Level:       model.LevelA,
				Principle:   model.PrinciplePerceivable,
				Context:     fmt.Sprintf("img[%d]", i),
			})
		}
	}

	for _, form := range doc.Forms {
		for _, input := range form.Inputs {
			switch input.Type {
			case "hidden", "submit", "button", "image", "reset":
				continue
			}
			if !input.HasLabel {
				issues = append(issues, model.AccessibilityIssue{
					Rule:        "label-missing",
					Description: fmt.Sprintf("Form input %q has no associated label (WCAG 1.3.1)", inputName(input)),
					Severity:    model.SeverityCritical,
					Level:       model.LevelA,
					Principle:   model.PrinciplePerceivable,
					Context:     formContext(form, input),
				})
			}
		}
	}

	if doc.Landmarks.Count() == 0 {
		issues = append(issues, model.AccessibilityIssue{
			Rule:        "landmarks",
			Description: "No semantic landmark elements found (header, nav, main, footer)",
			Severity:    model.SeverityWarning,
			Level:       model.LevelAA,
			Principle:   model.PrincipleRobust,
			Context:     "body",
		})
	}

	if skips := doc.HeadingSkips(); skips > 0 {
		issues = append(issues, model.AccessibilityIssue{
			Rule:        "heading-order",
			Description: fmt.Sprintf("Heading levels are skipped in %d places (WCAG 1.3.1)", skips),
			Severity:    model.SeverityWarning,
			Level:       model.LevelAA,
			Principle:   model.PrinciplePerceivable,
		})
	}

	if doc.H1Count() > 1 {
		issues = append(issues, model.AccessibilityIssue{
			Rule:        "multiple-h1",
			Description: fmt.Sprintf("Page has %d h1 headings", doc.H1Count()),
			Severity:    model.SeverityWarning,
			Level:       model.LevelAA,
			Principle:   model.PrinciplePerceivable,
		})
	}

	return issues
}

// accessibilityRecommendations derives one recommendation per distinct
// triggered rule, preserving first-seen order.
func accessibilityRecommendations(issues []model.AccessibilityIssue) []string {
	byRule := map[string]string{
		"page-title":    "Give the page a descriptive title",
		"html-lang":     "Declare the document language on the html element",
		"img-alt":       "Add alt text to every content image",
		"label-missing": "Associate every form input with a visible label or aria-label",
		"landmarks":     "Structure the page with header, nav, main, and footer landmarks",
		"heading-order": "Keep heading levels sequential for screen-reader navigation",
		"multiple-h1":   "Use a single h1 per page",
	}

	seen := make(map[string]bool)
	var recommendations []string
	for _, issue := range issues {
		if seen[issue.Rule] {
			continue
		}
		seen[issue.Rule] = true
		if rec, ok := byRule[issue.Rule]; ok {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

// displaySrc truncates long image sources for issue messages.
func displaySrc(src string) string {
	if src == "" {
		return "(no src)"
	}
	if len(src) > 60 {
		return src[:57] + "..."
	}
	return src
}

// inputName returns the best identifier for an input in issue messages.
func inputName(input model.FormInput) string {
	if input.Name != "" {
		return input.Name
	}
	if input.ID != "" {
		return input.ID
	}
	return input.Type
}

// formContext locates an input inside its form for issue context.
func formContext(form model.Form, input model.FormInput) string {
	ctx := "form"
	if form.ID != "" {
		ctx += "#" + form.ID
	}
	if input.ID != "" {
		return ctx + " > #" + input.ID
	}
	if input.Name != "" {
		return ctx + " > [name=" + input.Name + "]"
	}
	return ctx
}
