package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sitegauge/sitegauge/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. The CLI layer adds color where a terminal is attached
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the audit report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeScores(&sb, report)
	w.writeMetaTags(&sb, report)
	w.writeAccessibility(&sb, report)
	w.writeBrokenLinks(&sb, report)
	w.writeRecommendations(&sb, report.Recommendations)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteTrend outputs the trend analysis in human-readable format.
func (w *SimpleWriter) WriteTrend(analysis *model.TrendAnalysis) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SITEGAUGE TREND ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Period:     %s\n", analysis.TimePeriod))
	sb.WriteString(fmt.Sprintf("Direction:  %s (%s)\n", analysis.OverallTrend, analysis.TrendStrength))
	sb.WriteString(fmt.Sprintf("Confidence: %.0f/100 (%d data points)\n", analysis.ConfidenceScore, analysis.DataPoints))
	sb.WriteString(fmt.Sprintf("Computed:   %s\n", analysis.AnalysisDate.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")

	w.writeChanges(&sb, "IMPROVEMENTS", analysis.Improvements)
	w.writeChanges(&sb, "REGRESSIONS", analysis.Regressions)

	if len(analysis.KeyInsights) > 0 || w.showEmpty {
		w.writeSectionRule(&sb, "KEY INSIGHTS")
		if len(analysis.KeyInsights) == 0 {
			sb.WriteString("  No insights for this period\n")
		}
		for _, insight := range analysis.KeyInsights {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", strings.ToUpper(insight.Impact), insight.Message))
		}
		sb.WriteString("\n")
	}

	w.writeRecommendations(&sb, analysis.Recommendations)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeSectionRule writes a dashed section header.
func (w *SimpleWriter) writeSectionRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SITEGAUGE AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URL:        %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Audit Date: %s\n", report.AnalysisDate.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Report ID:  %s\n", report.ID))
	sb.WriteString("\n")
}

// writeScores writes the category score summary.
func (w *SimpleWriter) writeScores(sb *strings.Builder, report *model.AuditReport) {
	w.writeSectionRule(sb, "SCORES")

	sb.WriteString(fmt.Sprintf("  OVERALL:       %5.1f %s\n", report.OverallScore, scoreBar(report.OverallScore)))
	sb.WriteString(fmt.Sprintf("  SEO:           %5.1f %s\n", report.SEO.Score, scoreBar(report.SEO.Score)))
	sb.WriteString(fmt.Sprintf("  Accessibility: %5.1f %s  (WCAG %s)\n",
		report.Accessibility.Score, scoreBar(report.Accessibility.Score), report.Accessibility.Compliance))
	sb.WriteString(fmt.Sprintf("  Mobile:        %5.1f %s\n", report.Mobile.Score, scoreBar(report.Mobile.Score)))
	sb.WriteString(fmt.Sprintf("  Performance:   %5.1f %s\n", report.Performance.Score, scoreBar(report.Performance.Score)))
	sb.WriteString("\n")

	if w.verbose {
		sb.WriteString(fmt.Sprintf("  Load time:     %d ms\n", report.Performance.LoadTimeMs))
		sb.WriteString(fmt.Sprintf("  Page size:     %d bytes\n", report.Performance.ByteSize))
		sb.WriteString(fmt.Sprintf("  Resources:     %d\n", report.Performance.ResourceCount))
		sb.WriteString(fmt.Sprintf("  Words:         %d\n", report.Statistics.WordCount))
		sb.WriteString("\n")
	}
}

// writeMetaTags writes the meta tag analysis section.
func (w *SimpleWriter) writeMetaTags(sb *strings.Builder, report *model.AuditReport) {
	w.writeSectionRule(sb, "META TAGS")

	tags := []struct {
		name string
		tag  model.MetaTag
	}{
		{"Title", report.MetaTags.Title},
		{"Description", report.MetaTags.Description},
		{"Open Graph", report.MetaTags.OpenGraph},
		{"Twitter Card", report.MetaTags.TwitterCard},
		{"Viewport", report.MetaTags.Viewport},
		{"Canonical", report.MetaTags.Canonical},
	}

	for _, t := range tags {
		indicator := tagIndicator(t.tag.Status)
		if t.tag.Present && t.tag.Length > 0 {
			sb.WriteString(fmt.Sprintf("  [%s] %-13s %d chars\n", indicator, t.name, t.tag.Length))
		} else if t.tag.Present {
			sb.WriteString(fmt.Sprintf("  [%s] %-13s present\n", indicator, t.name))
		} else {
			sb.WriteString(fmt.Sprintf("  [%s] %-13s missing\n", indicator, t.name))
		}
	}
	sb.WriteString("\n")
}

// writeAccessibility writes the accessibility issue section.
func (w *SimpleWriter) writeAccessibility(sb *strings.Builder, report *model.AuditReport) {
	if len(report.AccessibilityIssues) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "ACCESSIBILITY ISSUES")

	if len(report.AccessibilityIssues) == 0 {
		sb.WriteString("  No issues detected\n\n")
		return
	}

	for _, issue := range report.AccessibilityIssues {
		indicator := "!"
		if issue.Severity == model.SeverityCritical {
			indicator = "!!!"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s (WCAG %s, %s)\n", indicator, issue.Description, issue.Level, issue.Principle))
		if w.verbose && issue.Context != "" {
			sb.WriteString(fmt.Sprintf("      at %s\n", issue.Context))
		}
	}
	sb.WriteString("\n")
}

// writeBrokenLinks writes the broken link section.
func (w *SimpleWriter) writeBrokenLinks(sb *strings.Builder, report *model.AuditReport) {
	if len(report.BrokenLinks) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "BROKEN LINKS")

	if len(report.BrokenLinks) == 0 {
		sb.WriteString("  No broken links found\n\n")
		return
	}

	for _, link := range report.BrokenLinks {
		sb.WriteString(fmt.Sprintf("  [%d] %s (%s)\n", link.StatusCode, link.URL, link.Scope))
		if w.verbose && link.Context != "" {
			sb.WriteString(fmt.Sprintf("      at %s\n", link.Context))
		}
	}
	sb.WriteString("\n")
}

// writeChanges writes one significant-change section.
func (w *SimpleWriter) writeChanges(sb *strings.Builder, title string, changes []model.SignificantChange) {
	if len(changes) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, title)

	if len(changes) == 0 {
		sb.WriteString("  None\n\n")
		return
	}

	for _, change := range changes {
		sb.WriteString(fmt.Sprintf("  * %s (%s, %+.1f points)\n", change.Description, change.Magnitude, change.ScoreChange))
		if w.verbose {
			for _, cause := range change.PossibleCauses {
				sb.WriteString(fmt.Sprintf("      - %s\n", cause))
			}
		}
	}
	sb.WriteString("\n")
}

// writeRecommendations writes the recommendation section.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, recommendations []string) {
	if len(recommendations) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "RECOMMENDATIONS")

	if len(recommendations) == 0 {
		sb.WriteString("  None\n\n")
		return
	}

	for i, rec := range recommendations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitegauge\n")
	sb.WriteString("https://github.com/sitegauge/sitegauge\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// scoreBar renders a ten-segment bar for a [0,100] score.
func scoreBar(score float64) string {
	filled := int(score / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

// tagIndicator returns a short visual indicator for a tag status.
func tagIndicator(status model.TagStatus) string {
	switch status {
	case model.TagStatusGood:
		return "+"
	case model.TagStatusWarning:
		return "~"
	case model.TagStatusError:
		return "x"
	default:
		return "?"
	}
}
