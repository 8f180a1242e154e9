// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

const (
	defaultTransactionsLimit = 20
	maxTransactionsLimit     = 100
)

// ListTransactionsInput represents the input for transaction listing.
type ListTransactionsInput struct {
	AccountID *uuid.UUID // Optional, restrict to transactions touching this account
	StartDate *time.Time // Optional
	EndDate   *time.Time // Optional
	Search    string     // Optional, case-insensitive description match
	Page      int
	Limit     int
}

// ListTransactionsOutput represents the output of transaction listing.
type ListTransactionsOutput struct {
	Result *entity.TransactionListResult
}

// ListTransactionsUseCase handles transaction listing logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.LedgerTransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute lists transactions matching the filter, newest first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	pagination := adapter.TransactionPagination{
		Page:  input.Page,
		Limit: input.Limit,
	}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit <= 0 {
		pagination.Limit = defaultTransactionsLimit
	}
	if pagination.Limit > maxTransactionsLimit {
		pagination.Limit = maxTransactionsLimit
	}

	filter := adapter.TransactionFilter{
		AccountID: input.AccountID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Search:    strings.TrimSpace(input.Search),
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{
		Result: result,
	}, nil
}
