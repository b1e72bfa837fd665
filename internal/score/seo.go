package score

import (
	"fmt"

	"github.com/sitegauge/sitegauge/internal/model"
)

// SEO sub-score weights. They must sum to 1.0.
const (
	weightMetaTags         = 0.30
	weightContentStructure = 0.25
	weightTechnicalSEO     = 0.20
	weightPerformance      = 0.15
	weightUserExperience   = 0.10
)

// Meta tag penalties.
const (
	missingTitlePenalty       = 25
	longTitlePenalty          = 10
	shortTitlePenalty         = 5
	missingDescriptionPenalty = 20
	descriptionBandPenalty    = 10
	missingOpenGraphPenalty   = 10
	missingTwitterPenalty     = 5
)

// Content structure penalties.
const (
	missingH1Penalty      = 20
	multipleH1Penalty     = 10
	headingSkipPenalty    = 5
	headingSkipCap        = 15
	missingAltPenalty     = 3
	missingAltCap         = 15
	thinContentWords      = 300
	thinContentPenalty    = 10
)

// Technical SEO penalties.
const (
	missingCanonicalPenalty      = 10
	missingLangPenalty           = 10
	missingStructuredDataPenalty = 15
)

// User experience penalties.
const (
	brokenLinkPenalty        = 5
	brokenLinkCap            = 30
	missingViewportUXPenalty = 15
	unlabeledInputPenalty    = 5
	unlabeledInputCap        = 20
)

// SEO computes the weighted SEO score from its five sub-scores.
// The result's Score is also the audit's overall score.
func SEO(doc *model.Document, meta model.MetaTagAnalysis, perf model.PerformanceMetrics, brokenLinks []model.BrokenLink) model.SEOScoring {
	result := model.SEOScoring{}

	result.MetaTags = scoreMetaTags(meta, &result)
	result.ContentStructure = scoreContentStructure(doc, &result)
	result.TechnicalSEO = scoreTechnicalSEO(doc, &result)
	result.Performance = perf.Score
	result.UserExperience = scoreUserExperience(doc, meta, brokenLinks, &result)

	result.Score = model.ClampScore(
		weightMetaTags*result.MetaTags +
			weightContentStructure*result.ContentStructure +
			weightTechnicalSEO*result.TechnicalSEO +
			weightPerformance*result.Performance +
			weightUserExperience*result.UserExperience,
	)

	return result
}

// scoreMetaTags penalizes missing or out-of-band title, description,
// Open Graph, and Twitter card tags.
func scoreMetaTags(meta model.MetaTagAnalysis, result *model.SEOScoring) float64 {
	score := 100.0

	switch {
	case !meta.Title.Present:
		score -= missingTitlePenalty
		result.Issues = append(result.Issues, "Page has no title tag")
		result.Recommendations = append(result.Recommendations, "Add a descriptive title between 30 and 60 characters")
	case meta.Title.Length > model.TitleMaxLength:
		score -= longTitlePenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Title is %d characters, over the 60-character limit", meta.Title.Length))
		result.Recommendations = append(result.Recommendations, "Shorten the title to at most 60 characters")
	case meta.Title.Length < model.TitleMinLength:
		score -= shortTitlePenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Title is %d characters, under the 30-character minimum", meta.Title.Length))
		result.Recommendations = append(result.Recommendations, "Expand the title to at least 30 characters")
	}

	switch {
	case !meta.Description.Present:
		score -= missingDescriptionPenalty
		result.Issues = append(result.Issues, "Page has no meta description")
		result.Recommendations = append(result.Recommendations, "Add a meta description between 120 and 160 characters")
	case meta.Description.Status == model.TagStatusWarning:
		score -= descriptionBandPenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Meta description is %d characters, outside the 120-160 band", meta.Description.Length))
		result.Recommendations = append(result.Recommendations, "Adjust the meta description to 120-160 characters")
	}

	if !meta.OpenGraph.Present {
		score -= missingOpenGraphPenalty
		result.Issues = append(result.Issues, "No Open Graph tags found")
		result.Recommendations = append(result.Recommendations, "Add og:title and og:description for link previews")
	}

	if !meta.TwitterCard.Present {
		score -= missingTwitterPenalty
		result.Issues = append(result.Issues, "No Twitter card tags found")
		result.Recommendations = append(result.Recommendations, "Add twitter:card markup for link previews")
	}

	return model.ClampScore(score)
}

// scoreContentStructure penalizes heading problems, missing alt text,
// and thin content.
func scoreContentStructure(doc *model.Document, result *model.SEOScoring) float64 {
	score := 100.0

	switch h1s := doc.H1Count(); {
	case h1s == 0:
		score -= missingH1Penalty
		result.Issues = append(result.Issues, "Page has no h1 heading")
		result.Recommendations = append(result.Recommendations, "Add exactly one h1 describing the page")
	case h1s > 1:
		score -= multipleH1Penalty
		result.Issues = append(result.Issues, fmt.Sprintf("Page has %d h1 headings", h1s))
		result.Recommendations = append(result.Recommendations, "Use a single h1 and demote the others")
	}

	if skips := doc.HeadingSkips(); skips > 0 {
		penalty := float64(skips * headingSkipPenalty)
		if penalty > headingSkipCap {
			penalty = headingSkipCap
		}
		score -= penalty
		result.Issues = append(result.Issues, fmt.Sprintf("Heading sequence skips levels in %d places", skips))
		result.Recommendations = append(result.Recommendations, "Keep heading levels sequential (h1, h2, h3) without skips")
	}

	if missing := doc.ImagesMissingAlt(); missing > 0 {
		penalty := float64(missing * missingAltPenalty)
		if penalty > missingAltCap {
			penalty = missingAltCap
		}
		score -= penalty
		result.Issues = append(result.Issues, fmt.Sprintf("%d images are missing alt text", missing))
		result.Recommendations = append(result.Recommendations, "Add alt attributes to all content images")
	}

	if doc.WordCount < thinContentWords {
		score -= thinContentPenalty
		result.Issues = append(result.Issues, fmt.Sprintf("Page has only %d words of visible text", doc.WordCount))
		result.Recommendations = append(result.Recommendations, "Expand content; pages under 300 words rarely rank well")
	}

	return model.ClampScore(score)
}

// scoreTechnicalSEO penalizes missing canonical link, lang attribute,
// and structured-data markup.
func scoreTechnicalSEO(doc *model.Document, result *model.SEOScoring) float64 {
	score := 100.0

	if doc.Canonical == "" {
		score -= missingCanonicalPenalty
		result.Issues = append(result.Issues, "No canonical link element found")
		result.Recommendations = append(result.Recommendations, "Add a canonical link to prevent duplicate-content dilution")
	}

	if doc.Lang == "" {
		score -= missingLangPenalty
		result.Issues = append(result.Issues, "The html element has no lang attribute")
		result.Recommendations = append(result.Recommendations, "Declare the page language with <html lang=\"...\">")
	}

	if !doc.HasStructuredData {
		score -= missingStructuredDataPenalty
		result.Issues = append(result.Issues, "No structured-data markup found")
		result.Recommendations = append(result.Recommendations, "Add JSON-LD structured data for rich search results")
	}

	return model.ClampScore(score)
}

// scoreUserExperience penalizes broken links, a missing viewport, and
// unlabeled form inputs.
func scoreUserExperience(doc *model.Document, meta model.MetaTagAnalysis, brokenLinks []model.BrokenLink, result *model.SEOScoring) float64 {
	score := 100.0

	if n := len(brokenLinks); n > 0 {
		penalty := float64(n * brokenLinkPenalty)
		if penalty > brokenLinkCap {
			penalty = brokenLinkCap
		}
		score -= penalty
		result.Issues = append(result.Issues, fmt.Sprintf("%d broken links found", n))
		result.Recommendations = append(result.Recommendations, "Fix or remove broken links")
	}

	if !meta.Viewport.Present {
		score -= missingViewportUXPenalty
		result.Issues = append(result.Issues, "No viewport meta tag found")
		result.Recommendations = append(result.Recommendations, "Add a responsive viewport meta tag")
	}

	if unlabeled := doc.UnlabeledInputs(); unlabeled > 0 {
		penalty := float64(unlabeled * unlabeledInputPenalty)
		if penalty > unlabeledInputCap {
			penalty = unlabeledInputCap
		}
		score -= penalty
		result.Issues = append(result.Issues, fmt.Sprintf("%d form inputs have no associated label", unlabeled))
		result.Recommendations = append(result.Recommendations, "Associate every form input with a label")
	}

	return model.ClampScore(score)
}
