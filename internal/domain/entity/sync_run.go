// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncRunStatus represents the lifecycle state of a sync run.
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusCompleted SyncRunStatus = "completed"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun records one pass of importing a bank feed into a linked account:
// what was fetched, how each item was resolved, and whether the ledger
// balance agreed with the bank afterwards.
type SyncRun struct {
	ID            uuid.UUID
	AccountLinkID uuid.UUID
	Status        SyncRunStatus
	StartedAt     time.Time
	FinishedAt    *time.Time

	Fetched   int // booked items returned by the provider
	Confirmed int // items whose reference already sat on a split
	Linked    int // items that claimed an unreferenced split
	Created   int // items that became new transactions
	Conflicts int // items skipped over an amount mismatch
	Pending   int // pending items reported but not imported

	LedgerBalance decimal.Decimal
	BankBalance   decimal.Decimal
	BalanceInSync bool

	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSyncRun creates a running SyncRun for the given account link.
func NewSyncRun(accountLinkID uuid.UUID) *SyncRun {
	now := time.Now().UTC()

	return &SyncRun{
		ID:            uuid.New(),
		AccountLinkID: accountLinkID,
		Status:        SyncRunStatusRunning,
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Complete finishes the run with its counters and balance outcome.
func (r *SyncRun) Complete(ledgerBalance, bankBalance decimal.Decimal, inSync bool) {
	now := time.Now().UTC()
	r.Status = SyncRunStatusCompleted
	r.FinishedAt = &now
	r.LedgerBalance = ledgerBalance
	r.BankBalance = bankBalance
	r.BalanceInSync = inSync
	r.UpdatedAt = now
}

// Fail finishes the run with an error.
func (r *SyncRun) Fail(err error) {
	now := time.Now().UTC()
	r.Status = SyncRunStatusFailed
	r.FinishedAt = &now
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.UpdatedAt = now
}

// SyncRunWithLink pairs a run with the link it synced.
type SyncRunWithLink struct {
	Run  *SyncRun
	Link *AccountLink
}
