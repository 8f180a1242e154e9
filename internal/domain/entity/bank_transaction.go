// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a transaction as reported by the feed provider. It is
// never persisted; syncs consume it and record the outcome on the ledger.
type BankTransaction struct {
	ExternalID  string // provider's stable transaction identifier
	BookingDate time.Time
	ValueDate   time.Time
	Amount      decimal.Decimal // signed, positive for inflows
	Currency    string
	Description string // raw remittance text
}

// DateFor returns the transaction date under the given basis. When the
// provider omitted the requested date the other one is used.
func (t BankTransaction) DateFor(basis DateBasis) time.Time {
	if basis == DateBasisValue {
		if !t.ValueDate.IsZero() {
			return t.ValueDate
		}
		return t.BookingDate
	}
	if !t.BookingDate.IsZero() {
		return t.BookingDate
	}
	return t.ValueDate
}

// BankBalance is an account balance as reported by the feed provider.
type BankBalance struct {
	Amount        decimal.Decimal
	Currency      string
	BalanceType   string // provider balance type the amount was taken from
	ReferenceDate *time.Time
}

// BankFeed bundles everything one provider fetch returns for an account.
type BankFeed struct {
	Booked  []BankTransaction
	Pending []BankTransaction
	Balance BankBalance
}

// Institution describes a bank the feed provider can connect to.
type Institution struct {
	ID                   string
	Name                 string
	BIC                  string
	TransactionTotalDays string
	Countries            []string
	Logo                 string
}
