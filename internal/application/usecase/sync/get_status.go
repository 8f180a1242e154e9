// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// GetStatusInput represents the input for querying the sync status.
type GetStatusInput struct{}

// GetStatusOutput represents the current sync status.
type GetStatusOutput struct {
	Running   bool        `json:"running"`
	JobID     string      `json:"job_id,omitempty"`
	StartedAt string      `json:"started_at,omitempty"`
	LastError string      `json:"last_error,omitempty"`
	LastRun   *RunSummary `json:"last_run,omitempty"`
}

// GetStatusUseCase handles sync status queries.
type GetStatusUseCase struct {
	runRepo adapter.SyncRunRepository
	tracker RunTracker
}

// NewGetStatusUseCase creates a new GetStatusUseCase instance.
func NewGetStatusUseCase(runRepo adapter.SyncRunRepository, tracker RunTracker) *GetStatusUseCase {
	return &GetStatusUseCase{
		runRepo: runRepo,
		tracker: tracker,
	}
}

// Execute reports whether a sync is in flight and how the last one went.
// The tracker covers jobs started by this process; the run table covers
// syncs started elsewhere.
func (uc *GetStatusUseCase) Execute(ctx context.Context, input GetStatusInput) (*GetStatusOutput, error) {
	output := &GetStatusOutput{}

	if uc.tracker != nil {
		output.Running = uc.tracker.IsRunning()
		output.JobID = uc.tracker.JobID()
		output.LastError = uc.tracker.LastError()
		if output.Running && !uc.tracker.StartedAt().IsZero() {
			output.StartedAt = uc.tracker.StartedAt().Format(time.RFC3339)
		}
	}
	if !output.Running {
		running, err := uc.runRepo.HasRunning(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check for running syncs: %w", err)
		}
		output.Running = running
	}

	recent, err := uc.runRepo.FindRecent(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sync runs: %w", err)
	}
	if len(recent) > 0 {
		output.LastRun = toRunSummary(recent[0].Run, recent[0].Link)
	}
	return output, nil
}
