// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscrepancyStatus represents the lifecycle state of a balance discrepancy.
type DiscrepancyStatus string

const (
	DiscrepancyStatusOpen     DiscrepancyStatus = "open"
	DiscrepancyStatusResolved DiscrepancyStatus = "resolved"
	DiscrepancyStatusIgnored  DiscrepancyStatus = "ignored"
)

// Discrepancy records a disagreement between a ledger account balance and
// the balance the bank reported after a sync. At most one open discrepancy
// exists per account link; later syncs refresh it or resolve it.
type Discrepancy struct {
	ID            uuid.UUID
	AccountLinkID uuid.UUID
	LedgerBalance decimal.Decimal
	BankBalance   decimal.Decimal
	Difference    decimal.Decimal // ledger minus bank
	Status        DiscrepancyStatus
	Note          string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDiscrepancy creates an open Discrepancy for the given balances.
func NewDiscrepancy(accountLinkID uuid.UUID, ledgerBalance, bankBalance decimal.Decimal) *Discrepancy {
	now := time.Now().UTC()

	return &Discrepancy{
		ID:            uuid.New(),
		AccountLinkID: accountLinkID,
		LedgerBalance: ledgerBalance,
		BankBalance:   bankBalance,
		Difference:    ledgerBalance.Sub(bankBalance),
		Status:        DiscrepancyStatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Refresh updates an open discrepancy with the balances a later sync saw.
func (d *Discrepancy) Refresh(ledgerBalance, bankBalance decimal.Decimal) {
	d.LedgerBalance = ledgerBalance
	d.BankBalance = bankBalance
	d.Difference = ledgerBalance.Sub(bankBalance)
	d.UpdatedAt = time.Now().UTC()
}

// Resolve closes the discrepancy as fixed.
func (d *Discrepancy) Resolve(note string) {
	now := time.Now().UTC()
	d.Status = DiscrepancyStatusResolved
	d.Note = note
	d.ResolvedAt = &now
	d.UpdatedAt = now
}

// Ignore closes the discrepancy without treating it as fixed.
func (d *Discrepancy) Ignore(note string) {
	now := time.Now().UTC()
	d.Status = DiscrepancyStatusIgnored
	d.Note = note
	d.ResolvedAt = &now
	d.UpdatedAt = now
}

// DiscrepancyWithLink pairs a discrepancy with the link it was raised on.
type DiscrepancyWithLink struct {
	Discrepancy *Discrepancy
	Link        *AccountLink
	Account     *Account
}
