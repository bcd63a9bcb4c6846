package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type Trigger interface {
	Trigger(ctx context.Context) (bool, error)
}

type Purger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// SnapshotScheduler периодически запускает снимок истории и вычищает записи
// старше срока хранения.
type SnapshotScheduler struct {
	trigger   Trigger
	purger    Purger
	interval  time.Duration
	retention time.Duration

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewSnapshotScheduler(trigger Trigger, purger Purger, interval time.Duration) *SnapshotScheduler {
	return &SnapshotScheduler{
		trigger:  trigger,
		purger:   purger,
		interval: interval,
	}
}

func (w *SnapshotScheduler) WithRetention(retention time.Duration) *SnapshotScheduler {
	w.retention = retention
	return w
}

func (w *SnapshotScheduler) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scheduler is already running")
	}

	if w.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("snapshot scheduler stopped with error", "error", err)
		}
	}()

	return nil
}

func (w *SnapshotScheduler) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *SnapshotScheduler) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run выполняет первый проход сразу, затем раз в интервал.
func (w *SnapshotScheduler) Run(ctx context.Context) error {
	logger(ctx).Info("snapshot scheduler started", "interval", w.interval, "retention", w.retention)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.tick(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("snapshot scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *SnapshotScheduler) tick(ctx context.Context) {
	started, err := w.trigger.Trigger(ctx)
	switch {
	case err != nil:
		logger(ctx).Error("failed to trigger snapshot", "error", err)
	case !started:
		logger(ctx).Debug("snapshot already pending")
	}

	if w.retention <= 0 {
		return
	}

	if _, err := w.purger.PurgeOlderThan(ctx, w.retention); err != nil {
		logger(ctx).Error("failed to purge history", "error", err)
	}
}
