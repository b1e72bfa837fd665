package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sitegauge/sitegauge/internal/fetch"
	"github.com/sitegauge/sitegauge/internal/linkcheck"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/repository"
	"github.com/sitegauge/sitegauge/internal/safeurl"
	"github.com/sitegauge/sitegauge/internal/trend"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>A Reasonably Descriptive Page Title For Tests</title>
<meta name="description" content="This description sits comfortably inside the recommended length band for search snippets, covering the page content in enough detail to be useful.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://example.com/">
<script type="application/ld+json">{"@context":"https://schema.org"}</script>
</head>
<body>
<header><a href="/">Home</a></header>
<nav><a href="/docs">Docs</a><a href="/missing">Gone</a></nav>
<main>
<h1>Welcome</h1>
<h2>Details</h2>
<p>Some body copy long enough to register as content for the analyzer.</p>
<img src="/hero.png" alt="Hero image">
</main>
<footer><a href="/imprint">Imprint</a></footer>
</body>
</html>`

// rewriteTransport sends every request to the test server regardless of
// hostname; the safety gate blocks the loopback address httptest listens
// on, so audits target public-looking hostnames instead.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGate() *safeurl.Gate {
	return safeurl.NewGate(
		safeurl.WithLogger(testLogger()),
		safeurl.WithLookup(func(_ context.Context, _ string) ([]net.IPAddr, error) {
			return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
		}),
	)
}

// testServer serves the sample page at / and a 404 at /missing.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, samplePage)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// testEngine wires an engine against the test server and an in-memory
// repository.
func testEngine(t *testing.T, server *httptest.Server, repo repository.Repository, opts ...Option) *Engine {
	t.Helper()

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: &rewriteTransport{target: target}}

	gate := testGate()
	fetcher := fetch.NewFetcher(gate, fetch.WithClient(client))
	checker := linkcheck.NewChecker(gate,
		linkcheck.WithClient(client),
		linkcheck.WithLogger(testLogger()),
	)

	opts = append([]Option{WithLogger(testLogger())}, opts...)
	return NewEngine(fetcher, checker, repo, opts...)
}

func TestEngineAudit(t *testing.T) {
	t.Parallel()

	t.Run("full audit produces a scored, persisted report", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewMemory()
		engine := testEngine(t, testServer(t), repo)

		report, err := engine.Audit(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("Audit() = %v", err)
		}

		if report.URL != "https://example.com/" {
			t.Errorf("URL = %q", report.URL)
		}
		if report.OverallScore <= 0 || report.OverallScore > 100 {
			t.Errorf("OverallScore = %v, want in (0, 100]", report.OverallScore)
		}
		if report.OverallScore != report.SEO.Score {
			t.Errorf("OverallScore = %v, want SEO score %v", report.OverallScore, report.SEO.Score)
		}
		if report.Accessibility.Score == 0 {
			t.Error("Accessibility.Score = 0, want scored category")
		}
		if report.MetaTags.Title.Status != model.TagStatusGood {
			t.Errorf("Title.Status = %q, want good", report.MetaTags.Title.Status)
		}
		if report.Performance.ByteSize == 0 {
			t.Error("Performance.ByteSize = 0, want measured size")
		}

		// The /missing link from the sample page must be flagged.
		if len(report.BrokenLinks) != 1 {
			t.Fatalf("BrokenLinks = %+v, want the 404 link", report.BrokenLinks)
		}
		if report.BrokenLinks[0].StatusCode != http.StatusNotFound {
			t.Errorf("BrokenLinks[0].StatusCode = %d", report.BrokenLinks[0].StatusCode)
		}
		if report.Statistics.InternalLinkCount != 4 {
			t.Errorf("InternalLinkCount = %d, want 4", report.Statistics.InternalLinkCount)
		}

		// Persisted report and tracking state.
		stored, err := repo.GetAuditReport(context.Background(), report.ID)
		if err != nil {
			t.Fatalf("GetAuditReport() = %v", err)
		}
		if stored.OverallScore != report.OverallScore {
			t.Errorf("stored score = %v, want %v", stored.OverallScore, report.OverallScore)
		}
		tracking, err := repo.GetTracking(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("GetTracking() = %v", err)
		}
		if tracking.TotalAudits != 1 {
			t.Errorf("TotalAudits = %d, want 1", tracking.TotalAudits)
		}
	})

	t.Run("bare hostname is normalized before fetching", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewMemory()
		engine := testEngine(t, testServer(t), repo)

		report, err := engine.Audit(context.Background(), "example.com")
		if err != nil {
			t.Fatalf("Audit() = %v", err)
		}
		if report.URL != "https://example.com" {
			t.Errorf("URL = %q, want normalized https URL", report.URL)
		}
	})

	t.Run("link checking can be disabled", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewMemory()
		engine := testEngine(t, testServer(t), repo, WithLinkChecking(false))

		report, err := engine.Audit(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("Audit() = %v", err)
		}
		if len(report.BrokenLinks) != 0 {
			t.Errorf("BrokenLinks = %+v, want none with link checking off", report.BrokenLinks)
		}
		if report.Statistics.InternalLinkCount != 0 {
			t.Errorf("InternalLinkCount = %d, want 0", report.Statistics.InternalLinkCount)
		}
	})

	t.Run("invalid URL is rejected before any request", func(t *testing.T) {
		t.Parallel()

		engine := testEngine(t, testServer(t), repository.NewMemory())
		if _, err := engine.Audit(context.Background(), "   "); !errors.Is(err, safeurl.ErrInvalidURL) {
			t.Errorf("Audit(blank) = %v, want ErrInvalidURL", err)
		}
	})

	t.Run("unsafe target is rejected", func(t *testing.T) {
		t.Parallel()

		engine := testEngine(t, testServer(t), repository.NewMemory())
		_, err := engine.Audit(context.Background(), "http://127.0.0.1/admin")
		var unsafeErr *safeurl.UnsafeTargetError
		if !errors.As(err, &unsafeErr) {
			t.Errorf("Audit(loopback) = %v, want UnsafeTargetError", err)
		}
	})

	t.Run("repeat audits build history", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewMemory()
		engine := testEngine(t, testServer(t), repo)
		ctx := context.Background()

		if _, err := engine.Audit(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("Audit() = %v", err)
		}
		if _, err := engine.Audit(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("Audit() = %v", err)
		}

		tracking, err := repo.GetTracking(ctx, "https://example.com/page")
		if err != nil {
			t.Fatalf("GetTracking() = %v", err)
		}
		if tracking.TotalAudits != 2 {
			t.Errorf("TotalAudits = %d, want 2", tracking.TotalAudits)
		}
		records, err := repo.HistorySince(ctx, tracking.ID, time.Time{})
		if err != nil {
			t.Fatalf("HistorySince() = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("history records = %d, want 2", len(records))
		}
	})

	t.Run("attached trend worker refreshes analyses", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewMemory()
		trendEngine := trend.NewEngine(repo, trend.WithLogger(testLogger()))
		worker := trend.NewWorker(trendEngine, repo, trend.WithWorkerLogger(testLogger()))

		engine := testEngine(t, testServer(t), repo, WithTrendWorker(worker))

		ctx := context.Background()
		worker.Start(ctx)
		if _, err := engine.Audit(ctx, "https://example.com/"); err != nil {
			t.Fatalf("Audit() = %v", err)
		}
		worker.Stop()

		tracking, err := repo.GetTracking(ctx, "https://example.com")
		if err != nil {
			t.Fatalf("GetTracking() = %v", err)
		}
		analysis, err := repo.GetTrendAnalysis(ctx, tracking.ID, model.Period30d)
		if err != nil {
			t.Fatalf("GetTrendAnalysis() = %v", err)
		}
		// One audit is below every period's minimum.
		if analysis.DataPoints != 1 {
			t.Errorf("DataPoints = %d, want 1", analysis.DataPoints)
		}
	})
}
