package score

import (
	"testing"

	"github.com/sitegauge/sitegauge/internal/model"
)

func TestViewportQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		viewport string
		want     float64
	}{
		{"absent", "", 0},
		{"complete", "width=device-width, initial-scale=1", 1.0},
		{"complete without spaces", "width=device-width,initial-scale=1.0", 1.0},
		{"complete uppercase", "WIDTH=DEVICE-WIDTH, INITIAL-SCALE=1", 1.0},
		{"width only", "width=device-width", 0.5},
		{"scale only", "initial-scale=1", 0.5},
		{"fixed width", "width=1024", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := viewportQuality(tt.viewport); got != tt.want {
				t.Errorf("viewportQuality(%q) = %v, want %v", tt.viewport, got, tt.want)
			}
		})
	}
}

func TestMobile(t *testing.T) {
	t.Parallel()

	t.Run("mobile-ready page scores 100", func(t *testing.T) {
		t.Parallel()

		result := Mobile(perfectDocument(), fastMetrics())
		if result.Score != 100 {
			t.Errorf("Score = %v, want 100", result.Score)
		}
		if result.ViewportQuality != 1.0 {
			t.Errorf("ViewportQuality = %v, want 1.0", result.ViewportQuality)
		}
	})

	t.Run("missing viewport cascades through three components", func(t *testing.T) {
		t.Parallel()

		doc := perfectDocument()
		delete(doc.Meta, "viewport")
		result := Mobile(doc, fastMetrics())

		if result.ViewportQuality != 0 {
			t.Fatalf("ViewportQuality = %v, want 0", result.ViewportQuality)
		}
		if result.TextReadabilityScore != 60 {
			t.Errorf("TextReadabilityScore = %v, want 60", result.TextReadabilityScore)
		}
		if result.MobileSEOScore != 75 {
			t.Errorf("MobileSEOScore = %v, want 75", result.MobileSEOScore)
		}
		// 0 viewport points + 0.25*100 + 0.20*60 + 0.20*100 + 0.15*75
		if result.Score != 68.25 {
			t.Errorf("Score = %v, want 68.25", result.Score)
		}
	})

	t.Run("empty-text anchors lower the touch target score", func(t *testing.T) {
		t.Parallel()

		doc := perfectDocument()
		doc.Anchors = []model.Anchor{
			{Href: "/a", Text: "A"},
			{Href: "/b"},
			{Href: "/c"},
			{Href: "/d"},
		}
		result := Mobile(doc, fastMetrics())
		if result.TouchTargetScore != 85 {
			t.Errorf("TouchTargetScore = %v, want 85 (three icon links at 5 each)", result.TouchTargetScore)
		}
	})

	t.Run("touch target penalty is capped at 60", func(t *testing.T) {
		t.Parallel()

		doc := perfectDocument()
		doc.Anchors = make([]model.Anchor, 20) // all without text
		result := Mobile(doc, fastMetrics())
		if result.TouchTargetScore != 40 {
			t.Errorf("TouchTargetScore = %v, want 40", result.TouchTargetScore)
		}
	})

	t.Run("long text without headings hurts readability", func(t *testing.T) {
		t.Parallel()

		doc := perfectDocument()
		doc.Headings = nil
		doc.WordCount = 800
		result := Mobile(doc, fastMetrics())
		if result.TextReadabilityScore != 90 {
			t.Errorf("TextReadabilityScore = %v, want 90", result.TextReadabilityScore)
		}
	})

	t.Run("mobile performance penalizes weight harder than desktop", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			metrics Metrics
			doc     func() *model.Document
			want    float64
		}{
			{
				"over 1MB",
				Metrics{LoadTimeMs: 500, ByteSize: 2 * 1024 * 1024},
				perfectDocument,
				70,
			},
			{
				"over 512KB",
				Metrics{LoadTimeMs: 500, ByteSize: 700 * 1024},
				perfectDocument,
				85,
			},
			{
				"many resources",
				Metrics{LoadTimeMs: 500, ByteSize: 1024},
				func() *model.Document {
					d := perfectDocument()
					d.ResourceCount = 60
					return d
				},
				80,
			},
			{
				"slow load",
				Metrics{LoadTimeMs: 3500, ByteSize: 1024},
				perfectDocument,
				80,
			},
			{
				"fair load",
				Metrics{LoadTimeMs: 2500, ByteSize: 1024},
				perfectDocument,
				90,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				result := Mobile(tt.doc(), tt.metrics)
				if result.MobilePerformanceScore != tt.want {
					t.Errorf("MobilePerformanceScore = %v, want %v", result.MobilePerformanceScore, tt.want)
				}
			})
		}
	})

	t.Run("mobile SEO checks title and description", func(t *testing.T) {
		t.Parallel()

		doc := perfectDocument()
		doc.Title = ""
		delete(doc.Meta, "description")
		result := Mobile(doc, fastMetrics())
		if result.MobileSEOScore != 75 {
			t.Errorf("MobileSEOScore = %v, want 75 (15+10 deducted)", result.MobileSEOScore)
		}
	})
}
