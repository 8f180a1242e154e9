// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// GetLinkedInput represents the input for listing linked splits.
type GetLinkedInput struct {
	AccountID *uuid.UUID
	Limit     int
	Offset    int
}

// GetLinkedOutput represents the output for listing linked splits.
type GetLinkedOutput struct {
	Splits []adapter.LinkedSplitData
	Total  int64
	Limit  int
	Offset int
}

// GetLinkedUseCase handles listing splits that carry a feed reference.
type GetLinkedUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetLinkedUseCase creates a new GetLinkedUseCase instance.
func NewGetLinkedUseCase(reconciliationRepo adapter.ReconciliationRepository) *GetLinkedUseCase {
	return &GetLinkedUseCase{
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute retrieves linked splits, newest first. A nil AccountID covers all
// linked accounts.
func (uc *GetLinkedUseCase) Execute(ctx context.Context, input GetLinkedInput) (*GetLinkedOutput, error) {
	limit, offset := clampReviewWindow(input.Limit, input.Offset)

	splits, total, err := uc.reconciliationRepo.GetLinkedSplits(ctx, input.AccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &GetLinkedOutput{
		Splits: splits,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
