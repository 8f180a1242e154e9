// Package discrepancy contains balance discrepancy review use cases.
package discrepancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// IgnoreDiscrepancyInput represents the input for ignoring a discrepancy.
type IgnoreDiscrepancyInput struct {
	DiscrepancyID uuid.UUID
	Note          string
}

// IgnoreDiscrepancyOutput represents the output for ignoring a discrepancy.
type IgnoreDiscrepancyOutput struct {
	Discrepancy *entity.Discrepancy
}

// IgnoreDiscrepancyUseCase handles closing a discrepancy without fixing it.
type IgnoreDiscrepancyUseCase struct {
	discrepancyRepo adapter.DiscrepancyRepository
}

// NewIgnoreDiscrepancyUseCase creates a new IgnoreDiscrepancyUseCase instance.
func NewIgnoreDiscrepancyUseCase(discrepancyRepo adapter.DiscrepancyRepository) *IgnoreDiscrepancyUseCase {
	return &IgnoreDiscrepancyUseCase{
		discrepancyRepo: discrepancyRepo,
	}
}

// Execute marks the discrepancy as ignored, accepting the disagreement as it
// stands. The next sync still raises a fresh discrepancy if the balances keep
// disagreeing.
func (uc *IgnoreDiscrepancyUseCase) Execute(ctx context.Context, input IgnoreDiscrepancyInput) (*IgnoreDiscrepancyOutput, error) {
	discrepancy, err := uc.discrepancyRepo.FindByID(ctx, input.DiscrepancyID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDiscrepancyNotFound) {
			return nil, domainerror.NewSyncError(
				domainerror.ErrCodeDiscrepancyNotFound,
				"discrepancy not found",
				domainerror.ErrDiscrepancyNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find discrepancy: %w", err)
	}

	if discrepancy.Status != entity.DiscrepancyStatusOpen {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeDiscrepancyClosed,
			"discrepancy is already closed",
			domainerror.ErrDiscrepancyClosed,
		)
	}

	discrepancy.Ignore(strings.TrimSpace(input.Note))

	if err := uc.discrepancyRepo.Update(ctx, discrepancy); err != nil {
		return nil, fmt.Errorf("failed to update discrepancy: %w", err)
	}

	return &IgnoreDiscrepancyOutput{Discrepancy: discrepancy}, nil
}
