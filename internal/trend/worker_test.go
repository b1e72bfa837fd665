package trend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sitegauge/sitegauge/internal/model"
)

// captureStore is a TrendStore recording every saved analysis.
type captureStore struct {
	mu      sync.Mutex
	saved   []*model.TrendAnalysis
	saveErr error
}

func (s *captureStore) SaveTrendAnalysis(_ context.Context, analysis *model.TrendAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, analysis)
	return nil
}

func (s *captureStore) periods() map[model.TimePeriod]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	periods := make(map[model.TimePeriod]bool)
	for _, analysis := range s.saved {
		periods[analysis.TimePeriod] = true
	}
	return periods
}

func TestProcessTracking(t *testing.T) {
	t.Parallel()

	t.Run("computes and saves every window", func(t *testing.T) {
		t.Parallel()

		store := &captureStore{}
		engine := newTestEngine(&fakeSource{records: series(70, 72, 74)})
		worker := NewWorker(engine, store, WithWorkerLogger(testEngineLogger()))

		worker.ProcessTracking(context.Background(), "trk-1")

		periods := store.periods()
		if len(periods) != len(model.AllPeriods) {
			t.Fatalf("saved %d distinct periods, want %d", len(periods), len(model.AllPeriods))
		}
		for _, period := range model.AllPeriods {
			if !periods[period] {
				t.Errorf("no analysis saved for period %s", period)
			}
		}
		for _, analysis := range store.saved {
			if analysis.TrackingID != "trk-1" {
				t.Errorf("TrackingID = %q, want trk-1", analysis.TrackingID)
			}
		}
	})

	t.Run("save failures are swallowed", func(t *testing.T) {
		t.Parallel()

		store := &captureStore{saveErr: errors.New("disk full")}
		engine := newTestEngine(&fakeSource{records: series(70, 72, 74)})
		worker := NewWorker(engine, store, WithWorkerLogger(testEngineLogger()))

		// Must not panic or block; errors go to the log only.
		worker.ProcessTracking(context.Background(), "trk-1")
	})

	t.Run("engine failures are isolated per window", func(t *testing.T) {
		t.Parallel()

		store := &captureStore{}
		engine := newTestEngine(&fakeSource{err: errors.New("query failed")})
		worker := NewWorker(engine, store, WithWorkerLogger(testEngineLogger()))

		worker.ProcessTracking(context.Background(), "trk-1")
		if len(store.periods()) != 0 {
			t.Errorf("saved %d analyses despite engine failures", len(store.periods()))
		}
	})
}

func TestWorkerLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("queued notifications are drained before stop returns", func(t *testing.T) {
		t.Parallel()

		store := &captureStore{}
		engine := newTestEngine(&fakeSource{records: series(70, 72, 74)})
		worker := NewWorker(engine, store, WithWorkerLogger(testEngineLogger()))

		worker.Start(context.Background())
		worker.RecordAppended("trk-1")
		worker.Stop()

		if len(store.periods()) != len(model.AllPeriods) {
			t.Errorf("saved %d distinct periods after Stop, want %d", len(store.periods()), len(model.AllPeriods))
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		t.Parallel()

		worker := NewWorker(newTestEngine(&fakeSource{}), &captureStore{}, WithWorkerLogger(testEngineLogger()))
		worker.Start(context.Background())
		worker.Stop()
		worker.Stop()
	})

	t.Run("notify after stop is dropped, not fatal", func(t *testing.T) {
		t.Parallel()

		store := &captureStore{}
		engine := newTestEngine(&fakeSource{records: series(70, 72, 74)})
		worker := NewWorker(engine, store, WithWorkerLogger(testEngineLogger()))

		worker.Start(context.Background())
		worker.Stop()

		before := len(store.periods())
		worker.RecordAppended("trk-late")
		if got := len(store.periods()); got != before {
			t.Errorf("saved %d distinct periods after late notification, want %d", got, before)
		}
	})

	t.Run("full queue never blocks the caller", func(t *testing.T) {
		t.Parallel()

		// No consumer running: the second notification must be dropped.
		worker := NewWorker(newTestEngine(&fakeSource{}), &captureStore{},
			WithQueueSize(1), WithWorkerLogger(testEngineLogger()))
		worker.RecordAppended("trk-1")
		worker.RecordAppended("trk-2")
	})
}
