package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sitegauge/sitegauge/internal/model"
)

// Analyze parses the markup into a Document.
// The returned Document is owned exclusively by the calling audit run and
// is never mutated after this function returns.
func Analyze(htmlSource string) *model.Document {
	doc := &model.Document{
		Meta: make(map[string]string),
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSource))
	if err != nil {
		// goquery's parser is permissive; this only happens on reader
		// failures. An empty Document is still a valid result.
		return doc
	}

	doc.Title = strings.TrimSpace(parsed.Find("head title").First().Text())
	doc.Lang, _ = parsed.Find("html").Attr("lang")
	doc.Canonical, _ = parsed.Find(`head link[rel="canonical"]`).Attr("href")

	extractMeta(parsed, doc)
	extractHeadings(parsed, doc)
	extractImages(parsed, doc)
	extractAnchors(parsed, doc)
	extractForms(parsed, doc)

	doc.Landmarks = model.Landmarks{
		Header: parsed.Find("header").Length() > 0,
		Nav:    parsed.Find("nav").Length() > 0,
		Main:   parsed.Find("main").Length() > 0,
		Footer: parsed.Find("footer").Length() > 0,
	}

	doc.HasStructuredData = parsed.Find(`script[type="application/ld+json"]`).Length() > 0 ||
		parsed.Find("[itemscope]").Length() > 0

	doc.ResourceCount = parsed.Find("script").Length() +
		parsed.Find(`link[rel="stylesheet"]`).Length() +
		parsed.Find("img").Length()

	doc.WordCount = countWords(parsed)

	return doc
}

// extractMeta collects meta tags keyed by name, or by property for the
// Open Graph tags that use it instead.
func extractMeta(parsed *goquery.Document, doc *model.Document) {
	parsed.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		if name != "" && content != "" {
			doc.Meta[strings.ToLower(name)] = content
		}
	})
}

// extractHeadings records the h1-h6 sequence in document order.
func extractHeadings(parsed *goquery.Document, doc *model.Document) {
	parsed.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(s.Nodes[0].Data[1] - '0')
		doc.Headings = append(doc.Headings, model.Heading{
			Level: level,
			Text:  strings.TrimSpace(s.Text()),
		})
	})
}

// extractImages records every img element, distinguishing a missing alt
// attribute from an empty one (empty alt marks a decorative image).
func extractImages(parsed *goquery.Document, doc *model.Document) {
	parsed.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")
		doc.Images = append(doc.Images, model.Image{
			Src:    src,
			Alt:    alt,
			HasAlt: hasAlt,
		})
	})
}

// extractAnchors records every a element with an href, along with the DOM
// context used to report broken links.
func extractAnchors(parsed *goquery.Document, doc *model.Document) {
	parsed.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}
		doc.Anchors = append(doc.Anchors, model.Anchor{
			Href:    strings.TrimSpace(href),
			Text:    strings.TrimSpace(s.Text()),
			Context: anchorContext(s),
		})
	})
}

// anchorContext describes where an anchor sits: the nearest enclosing
// landmark element, then the anchor's tag with id and first class.
// Example: "nav > a#home.brand".
func anchorContext(s *goquery.Selection) string {
	var b strings.Builder

	landmark := s.ParentsFiltered("header, nav, main, footer, aside").First()
	if landmark.Length() > 0 {
		b.WriteString(landmark.Nodes[0].Data)
		b.WriteString(" > ")
	}

	b.WriteString("a")
	if id, ok := s.Attr("id"); ok && id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	if class, ok := s.Attr("class"); ok {
		if first := strings.Fields(class); len(first) > 0 {
			b.WriteString(".")
			b.WriteString(first[0])
		}
	}

	return b.String()
}

// extractForms records each form with its fields and whether each field
// has an associated label. Association is checked three ways: a label
// with a matching for attribute, wrapping inside a label element, or an
// aria-label attribute on the field itself.
func extractForms(parsed *goquery.Document, doc *model.Document) {
	// Collect label targets once for the whole document. Labels outside
	// the form element still associate by id.
	labeledIDs := make(map[string]bool)
	parsed.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("for"); ok && id != "" {
			labeledIDs[id] = true
		}
	})

	parsed.Find("form").Each(func(_ int, formSel *goquery.Selection) {
		form := model.Form{}
		form.ID, _ = formSel.Attr("id")

		formSel.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
			input := model.FormInput{Type: fieldType(s)}
			input.Name, _ = s.Attr("name")
			input.ID, _ = s.Attr("id")

			ariaLabel, _ := s.Attr("aria-label")
			input.HasLabel = labeledIDs[input.ID] ||
				s.ParentsFiltered("label").Length() > 0 ||
				strings.TrimSpace(ariaLabel) != ""

			form.Inputs = append(form.Inputs, input)
		})

		doc.Forms = append(doc.Forms, form)
	})
}

// fieldType returns the effective type of a form field.
func fieldType(s *goquery.Selection) string {
	switch s.Nodes[0].Data {
	case "select":
		return "select"
	case "textarea":
		return "textarea"
	}
	if t, ok := s.Attr("type"); ok && t != "" {
		return strings.ToLower(t)
	}
	return "text"
}

// countWords counts words in the visible body text, skipping script,
// style, and noscript contents.
func countWords(parsed *goquery.Document) int {
	body := parsed.Find("body")
	if body.Length() == 0 {
		return 0
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}

	return len(strings.Fields(b.String()))
}

// Statistics derives the raw page counts kept on the audit report.
// Link scope counts require the audited base URL for classification and
// are filled in by the link checker.
func Statistics(doc *model.Document) model.PageStatistics {
	return model.PageStatistics{
		WordCount:           doc.WordCount,
		HeadingCount:        len(doc.Headings),
		ImageCount:          len(doc.Images),
		ImagesMissingAlt:    doc.ImagesMissingAlt(),
		LinkCount:           len(doc.Anchors),
		FormCount:           len(doc.Forms),
		UnlabeledInputCount: doc.UnlabeledInputs(),
	}
}
