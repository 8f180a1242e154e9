// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// GetRunInput represents the input for retrieving one sync run.
type GetRunInput struct {
	ID uuid.UUID
}

// GetRunOutput represents the output of retrieving one sync run.
type GetRunOutput struct {
	Run *RunSummary `json:"run"`
}

// GetRunUseCase handles retrieving a single sync run.
type GetRunUseCase struct {
	runRepo  adapter.SyncRunRepository
	linkRepo adapter.AccountLinkRepository
}

// NewGetRunUseCase creates a new GetRunUseCase instance.
func NewGetRunUseCase(runRepo adapter.SyncRunRepository, linkRepo adapter.AccountLinkRepository) *GetRunUseCase {
	return &GetRunUseCase{
		runRepo:  runRepo,
		linkRepo: linkRepo,
	}
}

// Execute retrieves one sync run by ID.
func (uc *GetRunUseCase) Execute(ctx context.Context, input GetRunInput) (*GetRunOutput, error) {
	run, err := uc.runRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSyncRunNotFound) {
			return nil, domainerror.NewSyncError(
				domainerror.ErrCodeSyncRunNotFound,
				"Sync run not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}

	var link *entity.AccountLink
	if found, linkErr := uc.linkRepo.FindByID(ctx, run.AccountLinkID); linkErr == nil {
		link = found
	}
	return &GetRunOutput{Run: toRunSummary(run, link)}, nil
}
