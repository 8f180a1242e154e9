// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction update. A nil
// Splits slice keeps the existing splits; a non-nil slice replaces them all.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	Date          *time.Time // Optional
	Description   *string    // Optional
	Splits        []SplitInput
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.LedgerTransaction
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
	accountRepo     adapter.AccountRepository
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.LedgerTransactionRepository,
	accountRepo adapter.AccountRepository,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Execute performs the transaction update. Splits cannot be replaced while
// any existing split is reconciled or carries a bank feed reference; those
// must be unlinked first so the feed link is released deliberately.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	// Find the existing transaction
	transaction, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	// Replace splits if provided
	if input.Splits != nil {
		for _, split := range transaction.Splits {
			if split.ExternalID != nil || split.ReconcileState == entity.ReconcileStateReconciled {
				return nil, domainerror.NewTransactionError(
					domainerror.ErrCodeSplitReconciled,
					"transaction has reconciled or bank-linked splits, unlink them before replacing splits",
					domainerror.ErrSplitReconciled,
				)
			}
		}

		splits, currency, err := buildSplits(ctx, uc.accountRepo, input.Splits)
		if err != nil {
			return nil, err
		}
		for _, split := range splits {
			split.TransactionID = transaction.ID
		}
		transaction.Splits = splits
		transaction.Currency = currency
	}

	// Update date if provided
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionDate,
				"transaction date is required",
				domainerror.ErrInvalidTransactionDate,
			)
		}
		transaction.Date = *input.Date
	}

	// Update description if provided
	if input.Description != nil {
		if len(*input.Description) > MaxDescriptionLength {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeDescriptionTooLong,
				fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
				domainerror.ErrDescriptionTooLong,
			)
		}
		transaction.Description = *input.Description
	}

	if err := ensureBalanced(ctx, uc.accountRepo, transaction); err != nil {
		return nil, err
	}
	transaction.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &UpdateTransactionOutput{
		Transaction: transaction,
	}, nil
}
