package model

import (
	"time"

	"github.com/google/uuid"
)

// TagStatus classifies the state of a single meta tag.
type TagStatus string

// Meta tag status values.
const (
	// TagStatusGood means the tag is present and within its ideal length band.
	TagStatusGood TagStatus = "good"

	// TagStatusWarning means the tag is present but outside the ideal band.
	TagStatusWarning TagStatus = "warning"

	// TagStatusError means the tag is absent.
	TagStatusError TagStatus = "error"
)

// Ideal length bands for the title and description meta tags.
// These bands come from common search-result truncation limits and are
// part of the stable scoring contract.
const (
	// TitleMinLength is the lower bound of the ideal title band.
	TitleMinLength = 30

	// TitleMaxLength is the upper bound of the ideal title band.
	TitleMaxLength = 60

	// DescriptionMinLength is the lower bound of the ideal description band.
	DescriptionMinLength = 120

	// DescriptionMaxLength is the upper bound of the ideal description band.
	DescriptionMaxLength = 160
)

// MetaTag describes one analyzed meta tag with its presence, content,
// and status classification.
type MetaTag struct {
	// Present is true if the tag exists in the document head.
	Present bool `json:"present"`

	// Content is the tag's content attribute (or element text for <title>).
	Content string `json:"content,omitempty"`

	// Length is the character count of Content.
	Length int `json:"length"`

	// Status classifies the tag as good, warning, or error.
	Status TagStatus `json:"status"`
}

// ClassifyTag builds a MetaTag for content with the given ideal length band.
// A zero band (min == max == 0) means presence alone determines the status.
func ClassifyTag(content string, minLen, maxLen int) MetaTag {
	tag := MetaTag{
		Present: content != "",
		Content: content,
		Length:  len([]rune(content)),
	}

	switch {
	case !tag.Present:
		tag.Status = TagStatusError
	case minLen == 0 && maxLen == 0:
		tag.Status = TagStatusGood
	case tag.Length >= minLen && tag.Length <= maxLen:
		tag.Status = TagStatusGood
	default:
		tag.Status = TagStatusWarning
	}

	return tag
}

// MetaTagAnalysis holds the classification of the SEO-relevant meta tags.
type MetaTagAnalysis struct {
	// Title is the <title> element classification (ideal band 30-60 chars).
	Title MetaTag `json:"title"`

	// Description is the meta description classification (ideal band 120-160 chars).
	Description MetaTag `json:"description"`

	// OpenGraph reflects Open Graph (og:*) tag presence.
	// Status is good when both og:title and og:description exist,
	// warning when only some og tags exist, error when none do.
	OpenGraph MetaTag `json:"open_graph"`

	// TwitterCard reflects Twitter card (twitter:*) tag presence.
	TwitterCard MetaTag `json:"twitter_card"`

	// Viewport is the viewport meta tag classification.
	Viewport MetaTag `json:"viewport"`

	// Canonical is the canonical link element classification.
	Canonical MetaTag `json:"canonical"`
}

// WCAGPrinciple identifies one of the four WCAG principles.
type WCAGPrinciple string

// WCAG principle values.
const (
	PrinciplePerceivable    WCAGPrinciple = "perceivable"
	PrincipleOperable       WCAGPrinciple = "operable"
	PrincipleUnderstandable WCAGPrinciple = "understandable"
	PrincipleRobust         WCAGPrinciple = "robust"
)

// IssueSeverity classifies an accessibility issue.
type IssueSeverity string

// Accessibility issue severities.
const (
	// SeverityCritical issues block assistive-technology users.
	SeverityCritical IssueSeverity = "critical"

	// SeverityWarning issues degrade but do not block access.
	SeverityWarning IssueSeverity = "warning"
)

// WCAGLevel is a WCAG conformance level (A, AA, AAA).
type WCAGLevel string

// WCAG conformance levels.
const (
	LevelA   WCAGLevel = "A"
	LevelAA  WCAGLevel = "AA"
	LevelAAA WCAGLevel = "AAA"
)

// AccessibilityIssue is one detected accessibility problem.
type AccessibilityIssue struct {
	// Rule is a short stable identifier (e.g., "img-alt", "label-missing").
	Rule string `json:"rule"`

	// Description is a human-readable explanation of the issue.
	Description string `json:"description"`

	// Severity is critical or warning.
	Severity IssueSeverity `json:"severity"`

	// Level is the WCAG success-criterion level the issue maps to.
	Level WCAGLevel `json:"level"`

	// Principle is the WCAG principle the issue falls under.
	Principle WCAGPrinciple `json:"principle"`

	// Context locates the issue in the document (e.g., "img[3]", "form#login").
	Context string `json:"context,omitempty"`
}

// ComplianceLevel is the heuristic WCAG compliance summary.
// It is an approximation, not a legal certification.
type ComplianceLevel string

// Compliance summary values.
const (
	ComplianceAA   ComplianceLevel = "AA"
	ComplianceA    ComplianceLevel = "A"
	ComplianceNone ComplianceLevel = "None"
)

// AccessibilityScoring is the accessibility category result.
type AccessibilityScoring struct {
	// Score is the overall accessibility score in [0,100].
	Score float64 `json:"score"`

	// PrincipleScores holds one sub-score per WCAG principle, each in [0,100].
	PrincipleScores map[WCAGPrinciple]float64 `json:"principle_scores"`

	// Compliance is the heuristic compliance level (AA, A, or None).
	Compliance ComplianceLevel `json:"compliance"`

	// CriticalCount is the number of critical issues found.
	CriticalCount int `json:"critical_count"`

	// WarningCount is the number of warning issues found.
	WarningCount int `json:"warning_count"`

	// Issues lists the detected problems in document order.
	Issues []string `json:"issues,omitempty"`

	// Recommendations lists suggested fixes in priority order.
	Recommendations []string `json:"recommendations,omitempty"`
}

// SEOScoring is the SEO category result with its five weighted sub-scores.
type SEOScoring struct {
	// Score is the weighted SEO score in [0,100].
	// This value is also the AuditReport's overall score.
	Score float64 `json:"score"`

	// MetaTags sub-score (weight 30%).
	MetaTags float64 `json:"meta_tags"`

	// ContentStructure sub-score (weight 25%).
	ContentStructure float64 `json:"content_structure"`

	// TechnicalSEO sub-score (weight 20%).
	TechnicalSEO float64 `json:"technical_seo"`

	// Performance sub-score (weight 15%).
	Performance float64 `json:"performance"`

	// UserExperience sub-score (weight 10%).
	UserExperience float64 `json:"user_experience"`

	// Issues lists the detected problems.
	Issues []string `json:"issues,omitempty"`

	// Recommendations lists suggested fixes.
	Recommendations []string `json:"recommendations,omitempty"`
}

// MobileAnalysis is the mobile-friendliness category result.
type MobileAnalysis struct {
	// Score is the mobile score in [0,100].
	Score float64 `json:"score"`

	// ViewportQuality is 1.0 when the viewport meta declares both
	// device-width and initial-scale=1, 0.5 when present but incomplete,
	// and 0 when absent. It contributes up to 20 points.
	ViewportQuality float64 `json:"viewport_quality"`

	// TouchTargetScore sub-score in [0,100] (weight 25%).
	TouchTargetScore float64 `json:"touch_target_score"`

	// TextReadabilityScore sub-score in [0,100] (weight 20%).
	TextReadabilityScore float64 `json:"text_readability_score"`

	// MobilePerformanceScore sub-score in [0,100] (weight 20%).
	MobilePerformanceScore float64 `json:"mobile_performance_score"`

	// MobileSEOScore sub-score in [0,100] (weight 15%).
	MobileSEOScore float64 `json:"mobile_seo_score"`

	// Issues lists the detected problems.
	Issues []string `json:"issues,omitempty"`

	// Recommendations lists suggested fixes.
	Recommendations []string `json:"recommendations,omitempty"`
}

// PerformanceMetrics holds fetch-derived timing and weight measurements
// plus the performance score computed from them.
type PerformanceMetrics struct {
	// Score is the performance score in [0,100].
	Score float64 `json:"score"`

	// LoadTimeMs is the total retrieval time in milliseconds.
	LoadTimeMs int64 `json:"load_time_ms"`

	// FirstPaintEstimateMs is a static-analysis estimate of first paint.
	// Without rendering the page we approximate it from load time and
	// document weight; see the fetch package.
	FirstPaintEstimateMs int64 `json:"first_paint_estimate_ms"`

	// ByteSize is the response body size in bytes.
	ByteSize int64 `json:"byte_size"`

	// ResourceCount is the number of HTTP-triggering elements
	// (script, stylesheet, and img tags) in the document.
	ResourceCount int `json:"resource_count"`

	// Issues lists the detected problems.
	Issues []string `json:"issues,omitempty"`

	// Recommendations lists suggested fixes.
	Recommendations []string `json:"recommendations,omitempty"`
}

// LinkScope classifies a link as internal or external to the audited origin.
type LinkScope string

// Link scope values.
const (
	LinkInternal LinkScope = "internal"
	LinkExternal LinkScope = "external"
)

// BrokenLink is one failing link found during link-integrity checking.
// Links are deduplicated by absolute URL within a single audit run.
type BrokenLink struct {
	// URL is the absolute URL that failed.
	URL string `json:"url"`

	// StatusCode is the HTTP status observed (always >= 400).
	// Links failing without any HTTP status are not recorded.
	StatusCode int `json:"status_code"`

	// Context locates the anchor in the document: the nearest enclosing
	// landmark element plus tag, id, and first class of the anchor.
	Context string `json:"context,omitempty"`

	// Scope is internal or external.
	Scope LinkScope `json:"scope"`
}

// PageStatistics aggregates raw counts gathered during analysis.
// These feed the scorers and are kept on the report for display.
type PageStatistics struct {
	// WordCount is the visible text word count.
	WordCount int `json:"word_count"`

	// HeadingCount is the total number of h1-h6 elements.
	HeadingCount int `json:"heading_count"`

	// ImageCount is the total number of img elements.
	ImageCount int `json:"image_count"`

	// ImagesMissingAlt is the number of img elements lacking alt text.
	ImagesMissingAlt int `json:"images_missing_alt"`

	// LinkCount is the total number of anchors with a usable href.
	LinkCount int `json:"link_count"`

	// InternalLinkCount is the number of same-origin or relative links.
	InternalLinkCount int `json:"internal_link_count"`

	// ExternalLinkCount is the number of cross-origin links.
	ExternalLinkCount int `json:"external_link_count"`

	// FormCount is the number of form elements.
	FormCount int `json:"form_count"`

	// UnlabeledInputCount is the number of form inputs without an
	// associated label (by for/id pairing or aria-label).
	UnlabeledInputCount int `json:"unlabeled_input_count"`
}

// AuditReport is the complete result of one audit run.
// It is created once by the score composer and never mutated afterwards;
// corrections require a new report.
type AuditReport struct {
	// ID is the generated unique identifier of this report.
	ID string `json:"id"`

	// URL is the audited URL after normalization.
	URL string `json:"url"`

	// OverallScore is the weighted overall score in [0,100].
	// It equals the SEO category score.
	OverallScore float64 `json:"overall_score"`

	// MetaTags is the meta tag analysis.
	MetaTags MetaTagAnalysis `json:"meta_tag_analysis"`

	// AccessibilityIssues lists all detected accessibility issues.
	AccessibilityIssues []AccessibilityIssue `json:"accessibility_issues,omitempty"`

	// Accessibility is the accessibility category scoring.
	Accessibility AccessibilityScoring `json:"accessibility_scoring"`

	// SEO is the SEO category scoring.
	SEO SEOScoring `json:"seo_scoring"`

	// Mobile is the mobile-friendliness analysis.
	Mobile MobileAnalysis `json:"mobile_analysis"`

	// BrokenLinks lists failing links found during the audit.
	BrokenLinks []BrokenLink `json:"broken_links,omitempty"`

	// Performance holds timing and weight metrics with their score.
	Performance PerformanceMetrics `json:"performance_metrics"`

	// Recommendations is the merged, deduplicated recommendation list
	// across all categories.
	Recommendations []string `json:"recommendations,omitempty"`

	// Statistics holds raw page counts gathered during analysis.
	Statistics PageStatistics `json:"statistics"`

	// AnalysisDate is when the audit was performed.
	AnalysisDate time.Time `json:"analysis_date"`
}

// NewAuditReport creates a report shell for the given URL with a fresh
// identifier and timestamp. The composer fills in the remaining fields
// before the report is handed to the store.
func NewAuditReport(url string) *AuditReport {
	return &AuditReport{
		ID:           uuid.NewString(),
		URL:          url,
		AnalysisDate: time.Now(),
	}
}

// ClampScore bounds a score to the [0,100] range.
// Every score and sub-score in a report passes through this before storage
// so accumulated penalties can never push a value out of range.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
