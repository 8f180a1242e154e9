// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountType represents the kind of ledger account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeEquity    AccountType = "equity"
)

// AccountNameSeparator joins account names into a full hierarchical name,
// e.g. "Assets:Current Account".
const AccountNameSeparator = ":"

// ImbalanceAccountPrefix prefixes the per-currency fallback accounts that
// absorb the unbalanced remainder of a transaction.
const ImbalanceAccountPrefix = "Imbalance-"

// Account represents a node in the ledger account tree.
type Account struct {
	ID          uuid.UUID
	ParentID    *uuid.UUID // nil for top-level accounts
	Name        string
	FullName    string // parent names joined with AccountNameSeparator
	Type        AccountType
	Currency    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewAccount creates a new Account entity under the given parent.
// Pass a nil parent for a top-level account.
func NewAccount(name string, parent *Account, accountType AccountType, currency, description string) *Account {
	now := time.Now().UTC()

	account := &Account{
		ID:          uuid.New(),
		Name:        name,
		FullName:    name,
		Type:        accountType,
		Currency:    currency,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if parent != nil {
		account.ParentID = &parent.ID
		account.FullName = parent.FullName + AccountNameSeparator + name
	}
	return account
}

// NewImbalanceAccount creates the fallback account for a currency,
// e.g. "Imbalance-EUR".
func NewImbalanceAccount(currency string) *Account {
	return NewAccount(ImbalanceAccountName(currency), nil, AccountTypeEquity, currency, "Absorbs the unbalanced remainder of imported transactions")
}

// ImbalanceAccountName returns the name of the fallback account for a currency.
func ImbalanceAccountName(currency string) string {
	return ImbalanceAccountPrefix + strings.ToUpper(currency)
}

// IsImbalance reports whether the account is a per-currency fallback account.
func (a *Account) IsImbalance() bool {
	return a.ParentID == nil && strings.HasPrefix(a.Name, ImbalanceAccountPrefix)
}

// IsValidAccountType reports whether the given string is a known account type.
func IsValidAccountType(t string) bool {
	switch AccountType(t) {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense, AccountTypeEquity:
		return true
	}
	return false
}

// AccountWithChildren represents an account with its direct children, used
// when rendering the account tree.
type AccountWithChildren struct {
	Account  *Account
	Children []*AccountWithChildren
}
