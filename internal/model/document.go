package model

// Document is the parsed structural view of one fetched page.
// It is built once by the analyzer and owned exclusively by one audit run;
// the scorers and the link checker only read it.
//
// Design decision: We store extracted structure rather than the parse tree
// because:
//  1. Scorers become pure functions of plain data, trivially testable
//  2. The DOM can be released as soon as analysis completes
//  3. Malformed markup degrades to a sparse (but valid) Document
type Document struct {
	// Title is the text of the <title> element.
	Title string `json:"title,omitempty"`

	// Meta maps meta tag names (or property attributes for Open Graph)
	// to their content values.
	Meta map[string]string `json:"meta,omitempty"`

	// Lang is the lang attribute of the html element.
	Lang string `json:"lang,omitempty"`

	// Canonical is the href of the canonical link element.
	Canonical string `json:"canonical,omitempty"`

	// Headings is the heading sequence in document order.
	Headings []Heading `json:"headings,omitempty"`

	// Images lists all img elements.
	Images []Image `json:"images,omitempty"`

	// Anchors lists all a elements carrying an href.
	Anchors []Anchor `json:"anchors,omitempty"`

	// Forms lists all form elements with their inputs.
	Forms []Form `json:"forms,omitempty"`

	// Landmarks records which semantic landmark elements are present.
	Landmarks Landmarks `json:"landmarks"`

	// HasStructuredData is true when the page carries JSON-LD or
	// microdata markup.
	HasStructuredData bool `json:"has_structured_data"`

	// ResourceCount is the number of HTTP-triggering elements
	// (script, stylesheet link, img).
	ResourceCount int `json:"resource_count"`

	// WordCount is the number of words in the visible body text.
	WordCount int `json:"word_count"`
}

// Heading is one h1-h6 element.
type Heading struct {
	// Level is 1 through 6.
	Level int `json:"level"`

	// Text is the trimmed heading text.
	Text string `json:"text,omitempty"`
}

// Image is one img element.
type Image struct {
	// Src is the image source attribute as written.
	Src string `json:"src,omitempty"`

	// Alt is the alt attribute value.
	Alt string `json:"alt,omitempty"`

	// HasAlt distinguishes an empty alt attribute (decorative image,
	// acceptable) from a missing one (accessibility failure).
	HasAlt bool `json:"has_alt"`
}

// Anchor is one a element with an href.
type Anchor struct {
	// Href is the href attribute as written (possibly relative).
	Href string `json:"href"`

	// Text is the trimmed anchor text.
	Text string `json:"text,omitempty"`

	// Context locates the anchor: nearest enclosing landmark element
	// plus tag, id, and first class (e.g., "nav > a#home.brand").
	Context string `json:"context,omitempty"`
}

// Form is one form element.
type Form struct {
	// ID is the form's id attribute.
	ID string `json:"id,omitempty"`

	// Inputs lists the form's input, select, and textarea fields.
	Inputs []FormInput `json:"inputs,omitempty"`
}

// FormInput is one input, select, or textarea field.
type FormInput struct {
	// Type is the input type (text, email, select, textarea, ...).
	Type string `json:"type"`

	// Name is the name attribute.
	Name string `json:"name,omitempty"`

	// ID is the id attribute.
	ID string `json:"id,omitempty"`

	// HasLabel is true when a label references the field via for/id
	// pairing, the field is wrapped by a label, or it carries an
	// aria-label attribute.
	HasLabel bool `json:"has_label"`
}

// Landmarks records the presence of semantic landmark elements.
type Landmarks struct {
	// Header is true if a header element exists.
	Header bool `json:"header"`

	// Nav is true if a nav element exists.
	Nav bool `json:"nav"`

	// Main is true if a main element exists.
	Main bool `json:"main"`

	// Footer is true if a footer element exists.
	Footer bool `json:"footer"`
}

// Count returns the number of landmark elements present (0-4).
func (l Landmarks) Count() int {
	count := 0
	for _, present := range []bool{l.Header, l.Nav, l.Main, l.Footer} {
		if present {
			count++
		}
	}
	return count
}

// MetaContent returns the content of the named meta tag, or "".
func (d *Document) MetaContent(name string) string {
	return d.Meta[name]
}

// H1Count returns the number of h1 headings.
func (d *Document) H1Count() int {
	count := 0
	for _, h := range d.Headings {
		if h.Level == 1 {
			count++
		}
	}
	return count
}

// HeadingSkips returns the number of places where the heading sequence
// jumps more than one level down (e.g., h1 followed by h3).
func (d *Document) HeadingSkips() int {
	skips := 0
	for i := 1; i < len(d.Headings); i++ {
		if d.Headings[i].Level > d.Headings[i-1].Level+1 {
			skips++
		}
	}
	return skips
}

// ImagesMissingAlt returns the number of images lacking an alt attribute.
func (d *Document) ImagesMissingAlt() int {
	count := 0
	for _, img := range d.Images {
		if !img.HasAlt {
			count++
		}
	}
	return count
}

// UnlabeledInputs returns the number of form inputs without an
// associated label. Hidden and submit-style inputs are excluded because
// they never need labels.
func (d *Document) UnlabeledInputs() int {
	count := 0
	for _, form := range d.Forms {
		for _, input := range form.Inputs {
			switch input.Type {
			case "hidden", "submit", "button", "image", "reset":
				continue
			}
			if !input.HasLabel {
				count++
			}
		}
	}
	return count
}
