package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/model"
)

// BatchResult pairs one requested URL with its outcome. Exactly one of
// Report and Err is set.
type BatchResult struct {
	// URL is the requested URL as given, before normalization.
	URL string

	// Report is the completed audit report, nil when the audit failed.
	Report *model.AuditReport

	// Err is the audit failure, nil on success.
	Err error
}

// BatchProcessor audits multiple URLs concurrently.
//
// Design decision: Batching lives beside the Engine rather than inside
// it because:
//  1. It keeps the Engine focused on single-audit execution
//  2. It allows different batch strategies (rate limiting, retries)
//  3. Single audits pay no synchronization cost
type BatchProcessor struct {
	// engine executes the individual audits.
	engine *Engine

	// concurrency is the maximum number of simultaneous audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a batch processor around an engine.
func NewBatchProcessor(engine *Engine, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		engine:      engine,
		concurrency: config.DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch audits the given URLs concurrently, respecting the
// configured concurrency limit and context cancellation.
//
// Results keep the input order. A failed audit does not abort the
// batch; its error is recorded in the corresponding BatchResult. The
// error return is non-nil only when the batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]BatchResult, error) {
	bp.logger.Info("starting batch audit",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]BatchResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("auditing",
				"url", url,
				"index", i+1,
				"total", len(urls),
			)

			report, err := bp.engine.Audit(ctx, url)

			bp.mu.Lock()
			results[i] = BatchResult{URL: url, Report: report, Err: err}
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("audit failed", "url", url, "error", err)
			}

			// Failures stay in the result slice; they never abort the batch.
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch audit complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
