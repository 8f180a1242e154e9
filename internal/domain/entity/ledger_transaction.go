// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconcileState represents the reconciliation state of a split.
type ReconcileState string

const (
	// ReconcileStateNew marks a split that has never been checked against a
	// bank feed.
	ReconcileStateNew ReconcileState = "n"

	// ReconcileStateCleared marks a split that was matched once but whose
	// link has since been released.
	ReconcileStateCleared ReconcileState = "c"

	// ReconcileStateReconciled marks a split confirmed against a feed item.
	ReconcileStateReconciled ReconcileState = "y"
)

// Split represents one leg of a double-entry transaction. Amounts are
// signed: money flowing into the account is positive.
type Split struct {
	ID             uuid.UUID
	TransactionID  uuid.UUID
	AccountID      uuid.UUID
	Amount         decimal.Decimal
	Memo           string
	ReconcileState ReconcileState
	ExternalID     *string // bank feed reference, unique per account
	Counterparty   *string // raw remittance text the feed reported
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSplit creates a new Split entity in the unreconciled state.
func NewSplit(accountID uuid.UUID, amount decimal.Decimal, memo string) *Split {
	now := time.Now().UTC()

	return &Split{
		ID:             uuid.New(),
		AccountID:      accountID,
		Amount:         amount,
		Memo:           memo,
		ReconcileState: ReconcileStateNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetExternalReference tags the split with a bank feed reference and the
// counterparty text that came with it.
func (s *Split) SetExternalReference(externalID, counterparty string) {
	s.ExternalID = &externalID
	if counterparty != "" {
		s.Counterparty = &counterparty
	}
	s.UpdatedAt = time.Now().UTC()
}

// ClearExternalReference releases the split's link to a bank feed item.
// A reconciled split drops back to cleared.
func (s *Split) ClearExternalReference() {
	s.ExternalID = nil
	s.Counterparty = nil
	if s.ReconcileState == ReconcileStateReconciled {
		s.ReconcileState = ReconcileStateCleared
	}
	s.UpdatedAt = time.Now().UTC()
}

// MarkReconciled moves the split to the reconciled state.
func (s *Split) MarkReconciled() {
	s.ReconcileState = ReconcileStateReconciled
	s.UpdatedAt = time.Now().UTC()
}

// LedgerTransaction represents a dated double-entry transaction with its splits.
type LedgerTransaction struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Currency    string
	Splits      []*Split
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewLedgerTransaction creates a new LedgerTransaction entity and stamps the
// given splits with its ID.
func NewLedgerTransaction(date time.Time, description, currency string, splits []*Split) *LedgerTransaction {
	now := time.Now().UTC()

	transaction := &LedgerTransaction{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
		Currency:    currency,
		Splits:      splits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, split := range splits {
		split.TransactionID = transaction.ID
	}
	return transaction
}

// Imbalance returns the amount missing for the transaction to balance.
// A balanced transaction returns zero; otherwise the result is the value a
// fallback split must carry.
func (t *LedgerTransaction) Imbalance() decimal.Decimal {
	sum := decimal.Zero
	for _, split := range t.Splits {
		sum = sum.Add(split.Amount)
	}
	return sum.Neg()
}

// IsBalanced reports whether the splits sum to zero.
func (t *LedgerTransaction) IsBalanced() bool {
	return t.Imbalance().IsZero()
}

// SplitForAccount returns the first split posted to the given account, or nil.
func (t *LedgerTransaction) SplitForAccount(accountID uuid.UUID) *Split {
	for _, split := range t.Splits {
		if split.AccountID == accountID {
			return split
		}
	}
	return nil
}

// TransactionWithSplits pairs a transaction with resolved account names for
// each split, used on read paths.
type TransactionWithSplits struct {
	Transaction *LedgerTransaction
	Accounts    map[uuid.UUID]*Account // keyed by split AccountID
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*TransactionWithSplits
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
