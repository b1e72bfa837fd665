package analyzer

import (
	"strings"
	"testing"
)

// samplePage is a small but structurally complete page exercising every
// extractor.
const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>  Sample Page  </title>
  <meta name="description" content="A sample page for testing.">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="robots" content="index,follow">
  <meta property="og:title" content="Sample Page OG">
  <link rel="canonical" href="https://example.com/sample">
  <link rel="stylesheet" href="/main.css">
  <script type="application/ld+json">{"@type":"WebPage"}</script>
</head>
<body>
  <header><a href="/" id="home" class="brand logo">Home</a></header>
  <nav><a href="/docs">Docs</a><a href="/blog">Blog</a></nav>
  <main>
    <h1>Main Title</h1>
    <h2>Section One</h2>
    <h3>Detail</h3>
    <p>Some visible words for counting purposes.</p>
    <img src="/photo.jpg" alt="A photo">
    <img src="/decor.png" alt="">
    <img src="/naked.png">
    <a href="https://external.example.org/page">External</a>
    <form id="contact">
      <label for="email">Email</label>
      <input type="email" id="email" name="email">
      <label>Name <input type="text" name="name"></label>
      <input type="search" name="q" aria-label="Search">
      <input type="text" name="orphan">
      <select name="topic"><option>General</option></select>
      <textarea name="message"></textarea>
    </form>
  </main>
  <footer><a href="/imprint">Imprint</a></footer>
  <script>var hidden = "these words are not counted";</script>
</body>
</html>`

// TestAnalyze tests full document extraction from markup.
func TestAnalyze(t *testing.T) {
	t.Parallel()

	doc := Analyze(samplePage)

	t.Run("extracts trimmed title", func(t *testing.T) {
		t.Parallel()
		if doc.Title != "Sample Page" {
			t.Errorf("expected title 'Sample Page', got %q", doc.Title)
		}
	})

	t.Run("extracts lang and canonical", func(t *testing.T) {
		t.Parallel()
		if doc.Lang != "en" {
			t.Errorf("expected lang 'en', got %q", doc.Lang)
		}
		if doc.Canonical != "https://example.com/sample" {
			t.Errorf("expected canonical link, got %q", doc.Canonical)
		}
	})

	t.Run("extracts meta tags by name and property", func(t *testing.T) {
		t.Parallel()
		if doc.Meta["description"] != "A sample page for testing." {
			t.Errorf("expected description meta, got %q", doc.Meta["description"])
		}
		if !strings.Contains(doc.Meta["viewport"], "width=device-width") {
			t.Errorf("expected viewport meta, got %q", doc.Meta["viewport"])
		}
		if doc.Meta["og:title"] != "Sample Page OG" {
			t.Errorf("expected og:title via property attribute, got %q", doc.Meta["og:title"])
		}
	})

	t.Run("extracts headings in order with levels", func(t *testing.T) {
		t.Parallel()
		if len(doc.Headings) != 3 {
			t.Fatalf("expected 3 headings, got %d", len(doc.Headings))
		}
		wantLevels := []int{1, 2, 3}
		for i, want := range wantLevels {
			if doc.Headings[i].Level != want {
				t.Errorf("heading %d: expected level %d, got %d", i, want, doc.Headings[i].Level)
			}
		}
		if doc.Headings[0].Text != "Main Title" {
			t.Errorf("expected first heading 'Main Title', got %q", doc.Headings[0].Text)
		}
	})

	t.Run("distinguishes missing alt from empty alt", func(t *testing.T) {
		t.Parallel()
		if len(doc.Images) != 3 {
			t.Fatalf("expected 3 images, got %d", len(doc.Images))
		}
		if !doc.Images[0].HasAlt || doc.Images[0].Alt != "A photo" {
			t.Errorf("expected first image with alt text, got %+v", doc.Images[0])
		}
		if !doc.Images[1].HasAlt || doc.Images[1].Alt != "" {
			t.Errorf("expected decorative image with empty alt, got %+v", doc.Images[1])
		}
		if doc.Images[2].HasAlt {
			t.Errorf("expected third image without alt attribute, got %+v", doc.Images[2])
		}
		if doc.ImagesMissingAlt() != 1 {
			t.Errorf("expected 1 image missing alt, got %d", doc.ImagesMissingAlt())
		}
	})

	t.Run("extracts anchors with context", func(t *testing.T) {
		t.Parallel()
		if len(doc.Anchors) != 5 {
			t.Fatalf("expected 5 anchors, got %d", len(doc.Anchors))
		}
		if doc.Anchors[0].Context != "header > a#home.brand" {
			t.Errorf("expected context 'header > a#home.brand', got %q", doc.Anchors[0].Context)
		}
		if doc.Anchors[1].Context != "nav > a" {
			t.Errorf("expected context 'nav > a', got %q", doc.Anchors[1].Context)
		}
	})

	t.Run("extracts form fields with label association", func(t *testing.T) {
		t.Parallel()
		if len(doc.Forms) != 1 {
			t.Fatalf("expected 1 form, got %d", len(doc.Forms))
		}
		form := doc.Forms[0]
		if form.ID != "contact" {
			t.Errorf("expected form id 'contact', got %q", form.ID)
		}
		if len(form.Inputs) != 6 {
			t.Fatalf("expected 6 inputs, got %d", len(form.Inputs))
		}

		labeled := map[string]bool{}
		for _, input := range form.Inputs {
			labeled[input.Name] = input.HasLabel
		}
		if !labeled["email"] {
			t.Error("expected email input labeled via for attribute")
		}
		if !labeled["name"] {
			t.Error("expected name input labeled via wrapping label")
		}
		if !labeled["q"] {
			t.Error("expected search input labeled via aria-label")
		}
		if labeled["orphan"] {
			t.Error("expected orphan input to be unlabeled")
		}
		if doc.UnlabeledInputs() != 3 {
			t.Errorf("expected 3 unlabeled inputs, got %d", doc.UnlabeledInputs())
		}
	})

	t.Run("detects landmarks", func(t *testing.T) {
		t.Parallel()
		if !doc.Landmarks.Header || !doc.Landmarks.Nav || !doc.Landmarks.Main || !doc.Landmarks.Footer {
			t.Errorf("expected all landmarks present, got %+v", doc.Landmarks)
		}
	})

	t.Run("detects structured data", func(t *testing.T) {
		t.Parallel()
		if !doc.HasStructuredData {
			t.Error("expected structured data detection via ld+json script")
		}
	})

	t.Run("counts resources", func(t *testing.T) {
		t.Parallel()
		// 2 scripts + 1 stylesheet + 3 images
		if doc.ResourceCount != 6 {
			t.Errorf("expected resource count 6, got %d", doc.ResourceCount)
		}
	})

	t.Run("counts visible words only", func(t *testing.T) {
		t.Parallel()
		if doc.WordCount == 0 {
			t.Error("expected non-zero word count")
		}
		// The script body must not inflate the count; the visible text is
		// well under 60 words.
		if doc.WordCount > 60 {
			t.Errorf("word count %d suggests script text was counted", doc.WordCount)
		}
	})
}

// TestAnalyzeMinimalInputs tests degenerate markup.
func TestAnalyzeMinimalInputs(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty document", func(t *testing.T) {
		t.Parallel()

		doc := Analyze("")
		if doc.Title != "" {
			t.Errorf("expected empty title, got %q", doc.Title)
		}
		if len(doc.Headings) != 0 || len(doc.Images) != 0 || len(doc.Anchors) != 0 {
			t.Error("expected no extracted elements")
		}
	})

	t.Run("anchors without href are skipped", func(t *testing.T) {
		t.Parallel()

		doc := Analyze(`<body><a name="top">Top</a><a href="   ">Blank</a><a href="/ok">OK</a></body>`)
		if len(doc.Anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(doc.Anchors))
		}
		if doc.Anchors[0].Href != "/ok" {
			t.Errorf("expected href '/ok', got %q", doc.Anchors[0].Href)
		}
	})

	t.Run("itemscope counts as structured data", func(t *testing.T) {
		t.Parallel()

		doc := Analyze(`<body><div itemscope itemtype="https://schema.org/Person"></div></body>`)
		if !doc.HasStructuredData {
			t.Error("expected structured data via itemscope")
		}
	})
}

// TestStatistics tests derivation of the raw page counts.
func TestStatistics(t *testing.T) {
	t.Parallel()

	doc := Analyze(samplePage)
	stats := Statistics(doc)

	if stats.WordCount != doc.WordCount {
		t.Errorf("expected WordCount %d, got %d", doc.WordCount, stats.WordCount)
	}
	if stats.HeadingCount != 3 {
		t.Errorf("expected HeadingCount 3, got %d", stats.HeadingCount)
	}
	if stats.ImageCount != 3 {
		t.Errorf("expected ImageCount 3, got %d", stats.ImageCount)
	}
	if stats.ImagesMissingAlt != 1 {
		t.Errorf("expected ImagesMissingAlt 1, got %d", stats.ImagesMissingAlt)
	}
	if stats.LinkCount != 5 {
		t.Errorf("expected LinkCount 5, got %d", stats.LinkCount)
	}
	if stats.FormCount != 1 {
		t.Errorf("expected FormCount 1, got %d", stats.FormCount)
	}
	if stats.UnlabeledInputCount != 3 {
		t.Errorf("expected UnlabeledInputCount 3, got %d", stats.UnlabeledInputCount)
	}
}
