// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationRepository defines the interface for reconciliation persistence operations.
type ReconciliationRepository interface {
	// GetPendingSplits retrieves splits that carry no external reference,
	// oldest first. A nil accountID covers all accounts.
	GetPendingSplits(
		ctx context.Context,
		accountID *uuid.UUID,
		limit int,
		offset int,
	) ([]PendingSplitData, int64, error)

	// GetLinkedSplits retrieves splits that carry an external reference,
	// newest first. A nil accountID covers all accounts.
	GetLinkedSplits(
		ctx context.Context,
		accountID *uuid.UUID,
		limit int,
		offset int,
	) ([]LinkedSplitData, int64, error)

	// FindReferenceCandidates finds referenced splits on the account that
	// could duplicate a pending split. Uses date range and amount to narrow
	// the candidates.
	FindReferenceCandidates(
		ctx context.Context,
		accountID uuid.UUID,
		amount decimal.Decimal,
		dateRange DateRange,
	) ([]CandidateSplitData, error)

	// TallyReconcileStates counts an account's splits per reconcile state.
	TallyReconcileStates(ctx context.Context, accountID uuid.UUID) (*ReconcileTallyData, error)

	// GetReconciliationSummary retrieves summary statistics for reconciliation.
	GetReconciliationSummary(ctx context.Context) (*ReconciliationSummaryData, error)
}

// PendingSplitData represents a split waiting to be matched to a feed item.
type PendingSplitData struct {
	SplitID        uuid.UUID
	TransactionID  uuid.UUID
	AccountID      uuid.UUID
	AccountName    string
	Date           time.Time
	Description    string
	Memo           string
	Amount         decimal.Decimal
	ReconcileState string
}

// LinkedSplitData represents a split carrying a feed reference.
type LinkedSplitData struct {
	SplitID        uuid.UUID
	TransactionID  uuid.UUID
	AccountID      uuid.UUID
	AccountName    string
	Date           time.Time
	Description    string
	Memo           string
	Amount         decimal.Decimal
	ReconcileState string
	ExternalID     string
	Counterparty   *string
}

// CandidateSplitData represents a referenced split that may duplicate a
// pending split.
type CandidateSplitData struct {
	SplitID       uuid.UUID
	TransactionID uuid.UUID
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	ExternalID    string
	Counterparty  *string
}

// DateRange represents a date range for candidate matching.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ReconcileTallyData counts splits on an account per reconcile state.
type ReconcileTallyData struct {
	New        int64
	Cleared    int64
	Reconciled int64
	Referenced int64 // splits carrying an external reference
}

// ReconciliationSummaryData contains summary statistics for reconciliation.
type ReconciliationSummaryData struct {
	TotalPending    int
	TotalLinked     int
	TotalReconciled int
	OpenConflicts   int
}
