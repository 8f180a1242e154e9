// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DeleteAccountInput represents the input for account deletion.
type DeleteAccountInput struct {
	AccountID uuid.UUID
}

// DeleteAccountOutput represents the output of account deletion.
type DeleteAccountOutput struct {
	Success bool
}

// DeleteAccountUseCase handles account deletion logic.
type DeleteAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewDeleteAccountUseCase creates a new DeleteAccountUseCase instance.
func NewDeleteAccountUseCase(accountRepo adapter.AccountRepository) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account deletion. An account with children or with
// splits posted to it cannot be deleted.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) (*DeleteAccountOutput, error) {
	// Find the existing account
	if _, err := uc.accountRepo.FindByID(ctx, input.AccountID); err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeAccountNotFound,
				"account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Check for child accounts
	hasChildren, err := uc.accountRepo.HasChildren(ctx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for child accounts: %w", err)
	}
	if hasChildren {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountHasChildren,
			"cannot delete an account that has child accounts",
			domainerror.ErrAccountHasChildren,
		)
	}

	// Check for posted splits
	hasSplits, err := uc.accountRepo.HasSplits(ctx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for splits: %w", err)
	}
	if hasSplits {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountHasSplits,
			"cannot delete an account with splits posted to it",
			domainerror.ErrAccountHasSplits,
		)
	}

	if err := uc.accountRepo.Delete(ctx, input.AccountID); err != nil {
		return nil, fmt.Errorf("failed to delete account: %w", err)
	}

	return &DeleteAccountOutput{
		Success: true,
	}, nil
}
