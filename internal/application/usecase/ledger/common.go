// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

const (
	// MaxAccountNameLength is the maximum allowed length for account names.
	MaxAccountNameLength = 100

	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 500

	// MaxMemoLength is the maximum allowed length for split memos.
	MaxMemoLength = 255
)

// SplitInput represents one split of a submitted transaction.
type SplitInput struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Memo      string
}

// buildSplits validates split inputs and resolves their accounts. All split
// accounts must share one currency, which becomes the transaction currency.
func buildSplits(ctx context.Context, accountRepo adapter.AccountRepository, inputs []SplitInput) ([]*entity.Split, string, error) {
	if len(inputs) == 0 {
		return nil, "", domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNeedsSplits,
			"a transaction needs at least one split",
			domainerror.ErrTransactionNeedsSplits,
		)
	}

	splits := make([]*entity.Split, 0, len(inputs))
	currency := ""
	for _, input := range inputs {
		if len(input.Memo) > MaxMemoLength {
			return nil, "", domainerror.NewTransactionError(
				domainerror.ErrCodeMemoTooLong,
				fmt.Sprintf("split memo must not exceed %d characters", MaxMemoLength),
				domainerror.ErrMemoTooLong,
			)
		}

		account, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, domainerror.ErrAccountNotFound) {
				return nil, "", domainerror.NewTransactionError(
					domainerror.ErrCodeSplitAccountNotFound,
					fmt.Sprintf("split account %s not found", input.AccountID),
					domainerror.ErrSplitAccountNotFound,
				)
			}
			return nil, "", fmt.Errorf("failed to resolve split account: %w", err)
		}

		if currency == "" {
			currency = account.Currency
		} else if !strings.EqualFold(account.Currency, currency) {
			return nil, "", domainerror.NewAccountError(
				domainerror.ErrCodeAccountCurrencyMismatch,
				fmt.Sprintf("account %s is kept in %s, not %s", account.FullName, account.Currency, currency),
				domainerror.ErrAccountCurrencyMismatch,
			)
		}

		splits = append(splits, entity.NewSplit(input.AccountID, input.Amount, input.Memo))
	}
	return splits, currency, nil
}

// ensureBalanced appends an imbalance split when the submitted splits do not
// sum to zero, so every committed transaction balances.
func ensureBalanced(ctx context.Context, accountRepo adapter.AccountRepository, transaction *entity.LedgerTransaction) error {
	missing := transaction.Imbalance()
	if missing.IsZero() {
		return nil
	}

	imbalance, err := accountRepo.FindOrCreateImbalance(ctx, transaction.Currency)
	if err != nil {
		return fmt.Errorf("failed to resolve imbalance account: %w", err)
	}
	split := entity.NewSplit(imbalance.ID, missing, "")
	split.TransactionID = transaction.ID
	transaction.Splits = append(transaction.Splits, split)
	return nil
}

// validateAccountName checks the shared account naming rules.
func validateAccountName(name string) error {
	if name == "" || strings.Contains(name, entity.AccountNameSeparator) {
		return domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountName,
			fmt.Sprintf("account name must not be empty or contain %q", entity.AccountNameSeparator),
			domainerror.ErrInvalidAccountName,
		)
	}
	if len(name) > MaxAccountNameLength {
		return domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountName,
			fmt.Sprintf("account name must not exceed %d characters", MaxAccountNameLength),
			domainerror.ErrInvalidAccountName,
		)
	}
	return nil
}
