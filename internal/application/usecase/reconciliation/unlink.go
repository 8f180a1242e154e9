// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// UnlinkInput represents the input for releasing a split's feed reference.
type UnlinkInput struct {
	SplitID uuid.UUID
}

// UnlinkOutput represents the result of unlinking.
type UnlinkOutput struct {
	Split              *entity.Split
	ReleasedExternalID string
}

// UnlinkUseCase handles releasing the feed reference a split carries.
type UnlinkUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
}

// NewUnlinkUseCase creates a new UnlinkUseCase instance.
func NewUnlinkUseCase(transactionRepo adapter.LedgerTransactionRepository) *UnlinkUseCase {
	return &UnlinkUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute clears the split's feed reference. A reconciled split drops back to
// cleared, and a later sync may adopt the released feed item onto another
// split or import it fresh.
func (uc *UnlinkUseCase) Execute(ctx context.Context, input UnlinkInput) (*UnlinkOutput, error) {
	split, err := uc.transactionRepo.FindSplitByID(ctx, input.SplitID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSplitNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeSplitNotFound,
				"split not found",
				domainerror.ErrSplitNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find split: %w", err)
	}

	if split.ExternalID == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeSplitNotLinked,
			"split carries no feed reference",
			domainerror.ErrSplitNotLinked,
		)
	}

	released := *split.ExternalID
	split.ClearExternalReference()

	if err := uc.transactionRepo.UpdateSplit(ctx, split); err != nil {
		return nil, fmt.Errorf("failed to update split: %w", err)
	}

	return &UnlinkOutput{
		Split:              split,
		ReleasedExternalID: released,
	}, nil
}
