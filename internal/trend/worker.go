package trend

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sitegauge/sitegauge/internal/model"
)

// TrendStore persists computed analyses. Saving replaces any prior
// analysis for the same (tracking, period) pair.
type TrendStore interface {
	// SaveTrendAnalysis stores the analysis, replacing the current one
	// for its (tracking, period) pair.
	SaveTrendAnalysis(ctx context.Context, analysis *model.TrendAnalysis) error
}

// Worker recomputes trend analyses in the background.
//
// Design decision: The append-record step emits tracking IDs into an
// explicit queue that this worker consumes, rather than spawning a
// goroutine inline after the write, because:
//  1. The write path stays free of hidden concurrency
//  2. The error channel is owned here: logged, never surfaced upstream
//  3. Tests can drive the worker synchronously via ProcessTracking
type Worker struct {
	// engine computes the analyses.
	engine *Engine

	// store persists them.
	store TrendStore

	// queue carries tracking IDs awaiting recomputation. It is never
	// closed: RecordAppended must stay safe to call at any time, so
	// shutdown is signalled through done instead.
	queue chan string

	// done is closed by Stop to shut the consumer down.
	done chan struct{}

	// logger for structured logging.
	logger *slog.Logger

	// wg tracks the consumer goroutine.
	wg sync.WaitGroup

	// closeOnce guards the done signal.
	closeOnce sync.Once
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueueSize sets the pending-notification buffer size.
func WithQueueSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.queue = make(chan string, n)
		}
	}
}

// WithWorkerLogger sets a custom logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

// NewWorker creates a Worker computing with engine and saving to store.
func NewWorker(engine *Engine, store TrendStore, opts ...WorkerOption) *Worker {
	w := &Worker{
		engine: engine,
		store:  store,
		queue:  make(chan string, 64),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Start launches the consumer goroutine. It drains the queue until Stop
// is called or the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				w.drain(ctx)
				return
			case trackingID := <-w.queue:
				w.ProcessTracking(ctx, trackingID)
			}
		}
	}()
}

// drain processes notifications already buffered at shutdown.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case trackingID := <-w.queue:
			w.ProcessTracking(ctx, trackingID)
		default:
			return
		}
	}
}

// Stop signals shutdown, lets the consumer finish buffered work, and
// waits for it to exit. Notifications sent after Stop are dropped.
func (w *Worker) Stop() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
}

// RecordAppended notifies the worker that a new performance-history
// record exists for the tracking. It never blocks the caller: when the
// queue is full the notification is dropped and the trend data simply
// stays stale until the next audit, which is acceptable for advisory
// output.
func (w *Worker) RecordAppended(trackingID string) {
	select {
	case <-w.done:
		w.logger.Warn("trend worker stopped, dropping notification",
			"tracking_id", trackingID,
		)
		return
	default:
	}
	select {
	case w.queue <- trackingID:
	default:
		w.logger.Warn("trend queue full, dropping notification",
			"tracking_id", trackingID,
		)
	}
}

// ProcessTracking recomputes all four look-back windows concurrently.
// Window failures are isolated: each is logged and the others proceed.
// There is no cancellation path beyond the parent context; once started,
// each window runs to completion or failure.
func (w *Worker) ProcessTracking(ctx context.Context, trackingID string) {
	var g errgroup.Group

	for _, period := range model.AllPeriods {
		g.Go(func() error {
			analysis, err := w.engine.Generate(ctx, trackingID, period)
			if err != nil {
				w.logger.Error("trend analysis failed",
					"tracking_id", trackingID,
					"period", period,
					"error", err,
				)
				return nil // isolated: never propagate
			}
			if err := w.store.SaveTrendAnalysis(ctx, analysis); err != nil {
				w.logger.Error("trend analysis save failed",
					"tracking_id", trackingID,
					"period", period,
					"error", err,
				)
			}
			return nil
		})
	}

	_ = g.Wait() // errors are handled per window above
}
