package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitegauge/sitegauge/internal/analyzer"
	"github.com/sitegauge/sitegauge/internal/fetch"
	"github.com/sitegauge/sitegauge/internal/linkcheck"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/repository"
	"github.com/sitegauge/sitegauge/internal/safeurl"
	"github.com/sitegauge/sitegauge/internal/score"
	"github.com/sitegauge/sitegauge/internal/trend"
)

// Engine runs the audit sequence end to end.
//
// Design decision: All collaborators are constructor parameters rather
// than package-level singletons because:
//  1. Tests can substitute an httptest-backed fetcher or an in-memory repository
//  2. Two engines with different configurations can coexist in one process
//  3. The dependency graph is visible at the composition root
type Engine struct {
	// fetcher retrieves pages; it consults the safety gate itself.
	fetcher *fetch.Fetcher

	// checker probes link integrity on the analyzed document.
	checker *linkcheck.Checker

	// repo persists reports, tracking state, and history records.
	repo repository.Repository

	// worker refreshes trend analyses after each recorded audit.
	// Nil disables trend refresh.
	worker *trend.Worker

	// checkLinks controls whether the link integrity pass runs.
	checkLinks bool

	// logger is used for structured logging during audits.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTrendWorker attaches a trend worker. After each recorded audit
// the engine enqueues the tracking for background trend refresh.
func WithTrendWorker(worker *trend.Worker) Option {
	return func(e *Engine) {
		e.worker = worker
	}
}

// WithLinkChecking toggles the link integrity pass. Default is on.
func WithLinkChecking(enabled bool) Option {
	return func(e *Engine) {
		e.checkLinks = enabled
	}
}

// NewEngine creates an audit engine with the given collaborators.
func NewEngine(fetcher *fetch.Fetcher, checker *linkcheck.Checker, repo repository.Repository, opts ...Option) *Engine {
	e := &Engine{
		fetcher:    fetcher,
		checker:    checker,
		repo:       repo,
		checkLinks: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Audit runs the full audit sequence for rawURL and returns the
// composed report. The report is persisted and the URL's tracking
// record updated before the function returns; trend refresh happens
// asynchronously when a worker is attached.
func (e *Engine) Audit(ctx context.Context, rawURL string) (*model.AuditReport, error) {
	target, err := safeurl.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	e.logger.Info("starting audit", "url", target)
	startTime := time.Now()

	result, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	doc := analyzer.Analyze(result.HTML)

	links := score.LinkSummary{}
	if e.checkLinks && e.checker != nil {
		checkResult := e.checker.Check(ctx, doc, target)
		links.BrokenLinks = checkResult.BrokenLinks
		links.InternalCount = checkResult.InternalCount
		links.ExternalCount = checkResult.ExternalCount
	}

	report := score.Compose(target, doc, score.Metrics{
		LoadTimeMs:           result.ElapsedMs,
		FirstPaintEstimateMs: result.FirstPaintEstimateMs,
		ByteSize:             result.ByteSize,
	}, links, analyzer.Statistics(doc))

	if err := e.record(ctx, report); err != nil {
		return nil, err
	}

	e.logger.Info("audit complete",
		"url", target,
		"overall_score", report.OverallScore,
		"broken_links", len(report.BrokenLinks),
		"elapsed", time.Since(startTime),
	)

	return report, nil
}

// record persists the report, bumps the tracking state, and queues the
// tracking for trend refresh.
func (e *Engine) record(ctx context.Context, report *model.AuditReport) error {
	if err := e.repo.SaveAuditReport(ctx, report); err != nil {
		return fmt.Errorf("failed to persist report: %w", err)
	}

	tracking, err := e.repo.RecordAudit(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to record audit history: %w", err)
	}

	if e.worker != nil {
		e.worker.RecordAppended(tracking.ID)
	}
	return nil
}
