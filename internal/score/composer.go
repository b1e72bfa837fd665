package score

import (
	"github.com/sitegauge/sitegauge/internal/model"
)

// LinkSummary carries the link checker's results into composition.
type LinkSummary struct {
	// BrokenLinks lists the failing links found.
	BrokenLinks []model.BrokenLink

	// InternalCount is the number of distinct same-origin links.
	InternalCount int

	// ExternalCount is the number of distinct cross-origin links.
	ExternalCount int
}

// Compose runs the four category scorers and assembles the immutable
// AuditReport. The composer is the only component that constructs
// reports; nothing mutates a report after this function returns.
func Compose(pageURL string, doc *model.Document, metrics Metrics, links LinkSummary, stats model.PageStatistics) *model.AuditReport {
	report := model.NewAuditReport(pageURL)

	report.MetaTags = AnalyzeMetaTags(doc)

	report.Performance = Performance(doc, metrics)
	report.Accessibility, report.AccessibilityIssues = Accessibility(doc)
	report.Mobile = Mobile(doc, metrics)
	report.SEO = SEO(doc, report.MetaTags, report.Performance, links.BrokenLinks)

	// The SEO score is the audit's overall score by contract.
	report.OverallScore = report.SEO.Score

	report.BrokenLinks = links.BrokenLinks

	stats.InternalLinkCount = links.InternalCount
	stats.ExternalLinkCount = links.ExternalCount
	report.Statistics = stats

	report.Recommendations = mergeRecommendations(
		report.SEO.Recommendations,
		report.Accessibility.Recommendations,
		report.Mobile.Recommendations,
		report.Performance.Recommendations,
	)

	return report
}

// AnalyzeMetaTags classifies the SEO-relevant meta tags with their
// presence, content, and status. Title and description are judged against
// their ideal length bands; the rest by presence alone.
func AnalyzeMetaTags(doc *model.Document) model.MetaTagAnalysis {
	analysis := model.MetaTagAnalysis{
		Title:       model.ClassifyTag(doc.Title, model.TitleMinLength, model.TitleMaxLength),
		Description: model.ClassifyTag(doc.MetaContent("description"), model.DescriptionMinLength, model.DescriptionMaxLength),
		Viewport:    model.ClassifyTag(doc.MetaContent("viewport"), 0, 0),
		Canonical:   model.ClassifyTag(doc.Canonical, 0, 0),
	}

	analysis.OpenGraph = classifyTagGroup(
		doc.MetaContent("og:title"),
		doc.MetaContent("og:description"),
	)
	analysis.TwitterCard = classifyTagGroup(
		doc.MetaContent("twitter:card"),
		doc.MetaContent("twitter:title"),
	)

	return analysis
}

// classifyTagGroup classifies a pair of related tags: good when both are
// present, warning when only one is, error when neither.
func classifyTagGroup(primary, secondary string) model.MetaTag {
	tag := model.MetaTag{
		Present: primary != "" || secondary != "",
		Content: primary,
		Length:  len([]rune(primary)),
	}

	switch {
	case primary != "" && secondary != "":
		tag.Status = model.TagStatusGood
	case tag.Present:
		tag.Status = model.TagStatusWarning
	default:
		tag.Status = model.TagStatusError
	}

	return tag
}

// mergeRecommendations concatenates the per-category recommendation
// lists, dropping exact duplicates while preserving order.
func mergeRecommendations(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, rec := range list {
			if seen[rec] {
				continue
			}
			seen[rec] = true
			merged = append(merged, rec)
		}
	}
	return merged
}
