// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DefaultWorkerInterval is how often the scheduled sync fires when no
// interval is configured.
const DefaultWorkerInterval = 6 * time.Hour

// Worker triggers a sync over all enabled links on an interval.
type Worker struct {
	trigger  *TriggerSyncUseCase
	interval time.Duration
}

// NewWorker creates a new sync worker.
func NewWorker(trigger *TriggerSyncUseCase, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultWorkerInterval
	}
	return &Worker{
		trigger:  trigger,
		interval: interval,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Sync worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sync worker shutting down")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick starts one scheduled sync. Nothing-to-sync and an already running
// job are normal states, not failures.
func (w *Worker) tick(ctx context.Context) {
	output, err := w.trigger.Execute(ctx, TriggerSyncInput{})
	if err != nil {
		if errors.Is(err, domainerror.ErrNothingToSync) || errors.Is(err, domainerror.ErrSyncAlreadyRunning) {
			slog.Debug("Skipping scheduled sync", "reason", err)
			return
		}
		slog.Error("Scheduled sync failed to start", "error", err)
		return
	}
	slog.Info("Scheduled sync started", "job_id", output.JobID, "links", output.Links)
}
