package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/sitegauge/sitegauge/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the audit report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeScores(md, report)
	w.writeMetaTags(md, report)
	w.writeAccessibility(md, report)
	w.writeBrokenLinks(md, report)
	w.writeRecommendations(md, report.Recommendations)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteTrend outputs the trend analysis in Markdown format.
func (w *MarkdownWriter) WriteTrend(analysis *model.TrendAnalysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Trend Analysis")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Period", string(analysis.TimePeriod)},
			{"Direction", string(analysis.OverallTrend)},
			{"Strength", string(analysis.TrendStrength)},
			{"Confidence", fmt.Sprintf("%.0f/100", analysis.ConfidenceScore)},
			{"Data Points", strconv.Itoa(analysis.DataPoints)},
			{"Computed", analysis.AnalysisDate.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	w.writeTrendAlert(md, analysis)
	w.writeChanges(md, "Improvements", analysis.Improvements)
	w.writeChanges(md, "Regressions", analysis.Regressions)

	if len(analysis.KeyInsights) > 0 {
		md.H2("Key Insights")
		md.PlainText("")

		rows := make([][]string, len(analysis.KeyInsights))
		for i, insight := range analysis.KeyInsights {
			rows[i] = []string{insight.Category, insight.Message, insight.Impact}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Finding", "Impact"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeRecommendations(md, analysis.Recommendations)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("Website Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Audit Date", report.AnalysisDate.Format("2006-01-02 15:04:05 MST")},
			{"Report ID", report.ID},
		},
	})
	md.PlainText("")
}

// writeScores writes the category score summary with an alert.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Scores")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score"},
		Rows: [][]string{
			{"**Overall**", "**" + formatScore(report.OverallScore) + "**"},
			{"SEO", formatScore(report.SEO.Score)},
			{"Accessibility", formatScore(report.Accessibility.Score) + " (WCAG " + string(report.Accessibility.Compliance) + ")"},
			{"Mobile", formatScore(report.Mobile.Score)},
			{"Performance", formatScore(report.Performance.Score)},
		},
	})
	md.PlainText("")

	switch {
	case report.OverallScore >= 90:
		md.Tip("Excellent. This page scores well across all audit categories.")
	case report.OverallScore >= 70:
		md.Note("Good overall, with room for improvement in the flagged areas.")
	case report.OverallScore >= 50:
		md.Importantf("Overall score %.1f indicates several issues worth addressing.", report.OverallScore)
	default:
		md.Warningf("Overall score %.1f is low. Review the recommendations below.", report.OverallScore)
	}
	md.PlainText("")
}

// writeMetaTags writes the meta tag analysis table.
func (w *MarkdownWriter) writeMetaTags(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Meta Tags")
	md.PlainText("")

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

	rows := make([][]string, len(tags))
	for i, t := range tags {
		length := "-"
		if t.tag.Length > 0 {
			length = strconv.Itoa(t.tag.Length)
		}
		rows[i] = []string{t.name, statusEmoji(t.tag.Status), length}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Status", "Length"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAccessibility writes the accessibility section with a severity chart.
func (w *MarkdownWriter) writeAccessibility(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Accessibility")
	md.PlainText("")

	if len(report.AccessibilityIssues) == 0 {
		md.PlainText("No accessibility issues detected.")
		md.PlainText("")
		return
	}

	w.writeSeverityChart(md, report.Accessibility)

	rows := make([][]string, len(report.AccessibilityIssues))
	for i, issue := range report.AccessibilityIssues {
		context := issue.Context
		if context == "" {
			context = "-"
		}
		rows[i] = []string{
			issue.Rule,
			truncateString(issue.Description, 60),
			string(issue.Severity),
			string(issue.Level),
			context,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rule", "Description", "Severity", "WCAG", "Context"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSeverityChart writes a mermaid pie chart of issue severities.
func (w *MarkdownWriter) writeSeverityChart(md *markdown.Markdown, scoring model.AccessibilityScoring) {
	if scoring.CriticalCount == 0 && scoring.WarningCount == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Accessibility Issue Severity"),
		piechart.WithShowData(true),
	)

	if scoring.CriticalCount > 0 {
		chart.LabelAndIntValue("Critical", uint64(scoring.CriticalCount))
	}
	if scoring.WarningCount > 0 {
		chart.LabelAndIntValue("Warning", uint64(scoring.WarningCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeBrokenLinks writes the broken link table.
func (w *MarkdownWriter) writeBrokenLinks(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Broken Links")
	md.PlainText("")

	if len(report.BrokenLinks) == 0 {
		md.PlainText("No broken links found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.BrokenLinks))
	for i, link := range report.BrokenLinks {
		context := link.Context
		if context == "" {
			context = "-"
		}
		rows[i] = []string{
			truncateString(link.URL, 60),
			strconv.Itoa(link.StatusCode),
			string(link.Scope),
			truncateString(context, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Scope", "Context"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTrendAlert writes an alert reflecting the trend direction.
func (w *MarkdownWriter) writeTrendAlert(md *markdown.Markdown, analysis *model.TrendAnalysis) {
	switch analysis.OverallTrend {
	case model.TrendImproving:
		md.Tip(fmt.Sprintf("Scores are improving over the %s window (%s trend).", analysis.TimePeriod, analysis.TrendStrength))
	case model.TrendDeclining:
		md.Warningf("Scores are declining over the %s window (%s trend).", analysis.TimePeriod, analysis.TrendStrength)
	default:
		md.Note(fmt.Sprintf("Scores are stable over the %s window.", analysis.TimePeriod))
	}
	md.PlainText("")
}

// writeChanges writes one significant-change table.
func (w *MarkdownWriter) writeChanges(md *markdown.Markdown, title string, changes []model.SignificantChange) {
	if len(changes) == 0 {
		return
	}

	md.H2(title)
	md.PlainText("")

	rows := make([][]string, len(changes))
	for i, change := range changes {
		rows[i] = []string{
			change.Category,
			string(change.Magnitude),
			fmt.Sprintf("%+.1f", change.ScoreChange),
			fmt.Sprintf("%+.1f%%", change.PercentageChange),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Magnitude", "Points", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, change := range changes {
		if len(change.PossibleCauses) > 0 {
			md.Details(change.Description, "- "+joinCauses(change.PossibleCauses))
		}
	}
	md.PlainText("")
}

// writeRecommendations writes the recommendation list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, recommendations []string) {
	md.H2("Recommendations")
	md.PlainText("")

	if len(recommendations) == 0 {
		md.PlainText("No recommendations.")
		md.PlainText("")
		return
	}

	md.BulletList(recommendations...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitegauge](https://github.com/sitegauge/sitegauge)*")
}

// formatScore renders a score with one decimal place.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// statusEmoji returns a visual indicator for a tag status.
func statusEmoji(status model.TagStatus) string {
	switch status {
	case model.TagStatusGood:
		return "✅"
	case model.TagStatusWarning:
		return "⚠️"
	case model.TagStatusError:
		return "❌"
	default:
		return "?"
	}
}

// joinCauses formats possible causes as markdown list lines.
func joinCauses(causes []string) string {
	out := ""
	for i, cause := range causes {
		if i > 0 {
			out += "\n- "
		}
		out += cause
	}
	return out
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
