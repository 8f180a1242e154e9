// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	AccountID *uuid.UUID // restrict to transactions with a split on this account
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // Case-insensitive description match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// SplitWithTransaction pairs a split with the transaction it belongs to,
// used by the matching and reconciliation read paths.
type SplitWithTransaction struct {
	Split       *entity.Split
	Date        time.Time
	Description string
}

// LedgerTransactionRepository defines the interface for ledger transaction
// persistence operations.
type LedgerTransactionRepository interface {
	// Create creates a new transaction and its splits in the database.
	Create(ctx context.Context, transaction *entity.LedgerTransaction) error

	// FindByID retrieves a transaction with its splits by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerTransaction, error)

	// FindByIDWithAccounts retrieves a transaction with its splits and the
	// accounts they post to.
	FindByIDWithAccounts(ctx context.Context, id uuid.UUID) (*entity.TransactionWithSplits, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// Update updates a transaction and replaces its splits.
	Update(ctx context.Context, transaction *entity.LedgerTransaction) error

	// UpdateTransactionDate moves a transaction to a new date without
	// touching its splits.
	UpdateTransactionDate(ctx context.Context, id uuid.UUID, date time.Time) error

	// Delete soft-deletes a transaction and its splits.
	Delete(ctx context.Context, id uuid.UUID) error

	// Matching read paths

	// FindSplitsByAccount retrieves every split posted to the account with
	// its transaction date and description. The matcher builds its indexes
	// from this snapshot.
	FindSplitsByAccount(ctx context.Context, accountID uuid.UUID) ([]*SplitWithTransaction, error)

	// FindSplitByID retrieves a single split.
	FindSplitByID(ctx context.Context, id uuid.UUID) (*entity.Split, error)

	// FindSplitByExternalID retrieves the split on the account carrying the
	// given external reference.
	FindSplitByExternalID(ctx context.Context, accountID uuid.UUID, externalID string) (*entity.Split, error)

	// FindLatestByCounterparty retrieves the most recent transaction that has
	// a referenced split on the account recorded against the counterparty.
	// Returns the transaction with all splits loaded.
	FindLatestByCounterparty(ctx context.Context, accountID uuid.UUID, counterparty string) (*entity.LedgerTransaction, error)

	// UpdateSplit saves changes to a single split.
	UpdateSplit(ctx context.Context, split *entity.Split) error

	// Suggestion and rule read paths

	// FindImbalanceTransactions retrieves transactions that post to a
	// fallback account, oldest first.
	FindImbalanceTransactions(ctx context.Context, limit int) ([]*entity.LedgerTransaction, error)

	// CountImbalanceTransactions counts transactions that post to a fallback account.
	CountImbalanceTransactions(ctx context.Context) (int, error)

	// ReassignImbalanceSplits moves the fallback splits of the given
	// transactions to the account, returning how many splits moved.
	ReassignImbalanceSplits(ctx context.Context, transactionIDs []uuid.UUID, accountID uuid.UUID) (int64, error)

	// FindMatchingCounterparties finds referenced splits whose counterparty
	// matches the given regex pattern.
	FindMatchingCounterparties(ctx context.Context, pattern string, limit int) (*entity.PatternTestResult, error)

	// Report read paths

	// SumByAccountType sums split amounts per account type between two dates.
	SumByAccountType(ctx context.Context, start, end time.Time) (map[entity.AccountType]decimal.Decimal, error)

	// CountCreatedBetween counts transactions dated between two dates.
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}
