// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DateBasis selects which provider date a feed item is booked under.
type DateBasis string

const (
	DateBasisBooking DateBasis = "bookingDate"
	DateBasisValue   DateBasis = "valueDate"
)

// IsValidDateBasis reports whether the given string is a known date basis.
func IsValidDateBasis(b string) bool {
	return DateBasis(b) == DateBasisBooking || DateBasis(b) == DateBasisValue
}

// AccountLink connects a ledger account to a bank account exposed by the
// feed provider. Syncs walk enabled links.
type AccountLink struct {
	ID              uuid.UUID
	LedgerAccountID uuid.UUID
	RequisitionID   *uuid.UUID // requisition the bank account came from
	BankAccountID   string     // provider-side account identifier
	InstitutionID   string
	Alias           string
	DateBasis       DateBasis
	SyncEnabled     bool
	LastSyncedAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // Soft-delete support
}

// NewAccountLink creates a new AccountLink entity with syncing enabled.
func NewAccountLink(
	ledgerAccountID uuid.UUID,
	requisitionID *uuid.UUID,
	bankAccountID string,
	institutionID string,
	alias string,
	dateBasis DateBasis,
) *AccountLink {
	now := time.Now().UTC()

	if dateBasis == "" {
		dateBasis = DateBasisBooking
	}
	return &AccountLink{
		ID:              uuid.New(),
		LedgerAccountID: ledgerAccountID,
		RequisitionID:   requisitionID,
		BankAccountID:   bankAccountID,
		InstitutionID:   institutionID,
		Alias:           alias,
		DateBasis:       dateBasis,
		SyncEnabled:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MarkSynced records a completed sync against the link.
func (l *AccountLink) MarkSynced(at time.Time) {
	l.LastSyncedAt = &at
	l.UpdatedAt = time.Now().UTC()
}

// AccountLinkWithAccount pairs a link with its ledger account.
type AccountLinkWithAccount struct {
	Link    *AccountLink
	Account *Account
}
