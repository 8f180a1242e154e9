// Package discrepancy contains balance discrepancy review use cases.
package discrepancy

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// ListDiscrepanciesInput represents the input for listing discrepancies.
// An empty Status lists every discrepancy regardless of state.
type ListDiscrepanciesInput struct {
	Status string
}

// ListDiscrepanciesOutput represents the output for listing discrepancies.
type ListDiscrepanciesOutput struct {
	Discrepancies []*entity.DiscrepancyWithLink
	OpenCount     int64
}

// ListDiscrepanciesUseCase handles listing balance discrepancies.
type ListDiscrepanciesUseCase struct {
	discrepancyRepo adapter.DiscrepancyRepository
}

// NewListDiscrepanciesUseCase creates a new ListDiscrepanciesUseCase instance.
func NewListDiscrepanciesUseCase(discrepancyRepo adapter.DiscrepancyRepository) *ListDiscrepanciesUseCase {
	return &ListDiscrepanciesUseCase{
		discrepancyRepo: discrepancyRepo,
	}
}

// Execute retrieves discrepancies with their links and accounts, newest first.
func (uc *ListDiscrepanciesUseCase) Execute(ctx context.Context, input ListDiscrepanciesInput) (*ListDiscrepanciesOutput, error) {
	// Validate status filter
	status := entity.DiscrepancyStatus(input.Status)
	switch status {
	case "", entity.DiscrepancyStatusOpen, entity.DiscrepancyStatusResolved, entity.DiscrepancyStatusIgnored:
	default:
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeInvalidDiscrepancyStatus,
			fmt.Sprintf("status must be open, resolved or ignored (got %q)", input.Status),
			domainerror.ErrInvalidDiscrepancyStatus,
		)
	}

	discrepancies, err := uc.discrepancyRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to find discrepancies: %w", err)
	}

	openCount, err := uc.discrepancyRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open discrepancies: %w", err)
	}

	return &ListDiscrepanciesOutput{
		Discrepancies: discrepancies,
		OpenCount:     openCount,
	}, nil
}
