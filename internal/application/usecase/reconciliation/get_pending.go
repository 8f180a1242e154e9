// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// GetPendingInput represents the input for listing pending splits.
type GetPendingInput struct {
	AccountID *uuid.UUID
	Limit     int
	Offset    int
}

// GetPendingOutput represents the output for listing pending splits.
type GetPendingOutput struct {
	Splits []adapter.PendingSplitData
	Total  int64
	Limit  int
	Offset int
}

// GetPendingUseCase handles listing splits that carry no feed reference yet.
type GetPendingUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetPendingUseCase creates a new GetPendingUseCase instance.
func NewGetPendingUseCase(reconciliationRepo adapter.ReconciliationRepository) *GetPendingUseCase {
	return &GetPendingUseCase{
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute retrieves pending splits, oldest first. A nil AccountID covers all
// linked accounts.
func (uc *GetPendingUseCase) Execute(ctx context.Context, input GetPendingInput) (*GetPendingOutput, error) {
	limit, offset := clampReviewWindow(input.Limit, input.Offset)

	splits, total, err := uc.reconciliationRepo.GetPendingSplits(ctx, input.AccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &GetPendingOutput{
		Splits: splits,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
