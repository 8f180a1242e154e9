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

// ResolveDiscrepancyInput represents the input for resolving a discrepancy.
type ResolveDiscrepancyInput struct {
	DiscrepancyID uuid.UUID
	Note          string
}

// ResolveDiscrepancyOutput represents the output for resolving a discrepancy.
type ResolveDiscrepancyOutput struct {
	Discrepancy *entity.Discrepancy
}

// ResolveDiscrepancyUseCase handles closing a discrepancy as fixed.
type ResolveDiscrepancyUseCase struct {
	discrepancyRepo adapter.DiscrepancyRepository
}

// NewResolveDiscrepancyUseCase creates a new ResolveDiscrepancyUseCase instance.
func NewResolveDiscrepancyUseCase(discrepancyRepo adapter.DiscrepancyRepository) *ResolveDiscrepancyUseCase {
	return &ResolveDiscrepancyUseCase{
		discrepancyRepo: discrepancyRepo,
	}
}

// Execute marks the discrepancy as resolved. The note should say what fixed
// the balance, a missing transaction entered by hand for example. If the
// balances still disagree, the next sync raises a fresh discrepancy.
func (uc *ResolveDiscrepancyUseCase) Execute(ctx context.Context, input ResolveDiscrepancyInput) (*ResolveDiscrepancyOutput, error) {
	discrepancy, err := uc.findOpen(ctx, input.DiscrepancyID)
	if err != nil {
		return nil, err
	}

	discrepancy.Resolve(strings.TrimSpace(input.Note))

	if err := uc.discrepancyRepo.Update(ctx, discrepancy); err != nil {
		return nil, fmt.Errorf("failed to update discrepancy: %w", err)
	}

	return &ResolveDiscrepancyOutput{Discrepancy: discrepancy}, nil
}

func (uc *ResolveDiscrepancyUseCase) findOpen(ctx context.Context, id uuid.UUID) (*entity.Discrepancy, error) {
	discrepancy, err := uc.discrepancyRepo.FindByID(ctx, id)
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
	return discrepancy, nil
}
