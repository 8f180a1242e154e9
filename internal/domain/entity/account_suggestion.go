// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionStatus represents the status of an offset account suggestion.
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusApproved SuggestionStatus = "approved"
	SuggestionStatusRejected SuggestionStatus = "rejected"
	SuggestionStatusSkipped  SuggestionStatus = "skipped"
)

// MatchType represents the kind of counterparty matching a suggestion
// proposes for the payee rule derived from it.
type MatchType string

const (
	MatchTypeContains   MatchType = "contains"
	MatchTypeStartsWith MatchType = "startsWith"
	MatchTypeExact      MatchType = "exact"
)

// SuggestedAccountNew represents a new offsetting account proposed by the
// suggestion service.
type SuggestedAccountNew struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AccountSuggestion represents a generated proposal for where an imbalance
// transaction should be offset. The suggestion includes a counterparty
// match so that approving it can also create a payee rule, and can point at
// either an existing account or a new one.
type AccountSuggestion struct {
	ID                     uuid.UUID
	TransactionID          uuid.UUID            // Primary transaction that triggered the suggestion
	SuggestedAccountID     *uuid.UUID           // For an existing account (nullable)
	SuggestedAccountNew    *SuggestedAccountNew // For a new account (nullable)
	MatchType              MatchType
	MatchKeyword           string
	AffectedTransactionIDs []uuid.UUID
	Confidence             float64
	Reasoning              string
	Status                 SuggestionStatus
	PreviousSuggestion     *string // JSON for retry context
	RetryReason            *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewAccountSuggestion creates a new AccountSuggestion pointing at an
// existing account.
func NewAccountSuggestion(
	transactionID uuid.UUID,
	accountID uuid.UUID,
	matchType MatchType,
	matchKeyword string,
	affectedTransactionIDs []uuid.UUID,
	confidence float64,
	reasoning string,
) *AccountSuggestion {
	now := time.Now().UTC()

	return &AccountSuggestion{
		ID:                     uuid.New(),
		TransactionID:          transactionID,
		SuggestedAccountID:     &accountID,
		MatchType:              matchType,
		MatchKeyword:           matchKeyword,
		AffectedTransactionIDs: affectedTransactionIDs,
		Confidence:             confidence,
		Reasoning:              reasoning,
		Status:                 SuggestionStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// NewAccountSuggestionWithNewAccount creates a new AccountSuggestion
// proposing a fresh offsetting account.
func NewAccountSuggestionWithNewAccount(
	transactionID uuid.UUID,
	suggestedAccount SuggestedAccountNew,
	matchType MatchType,
	matchKeyword string,
	affectedTransactionIDs []uuid.UUID,
	confidence float64,
	reasoning string,
) *AccountSuggestion {
	now := time.Now().UTC()

	return &AccountSuggestion{
		ID:                     uuid.New(),
		TransactionID:          transactionID,
		SuggestedAccountNew:    &suggestedAccount,
		MatchType:              matchType,
		MatchKeyword:           matchKeyword,
		AffectedTransactionIDs: affectedTransactionIDs,
		Confidence:             confidence,
		Reasoning:              reasoning,
		Status:                 SuggestionStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// AccountSuggestionWithDetails represents a suggestion with its transaction
// and resolved account details.
type AccountSuggestionWithDetails struct {
	Suggestion               *AccountSuggestion
	Transaction              *LedgerTransaction
	Account                  *Account // Only populated if SuggestedAccountID is set
	AffectedTransactions     []*LedgerTransaction
	AffectedTransactionCount int
}

// SuggestionRunStatus represents the status of the offset suggestion process.
type SuggestionRunStatus struct {
	ImbalanceCount          int
	IsProcessing            bool
	PendingSuggestionsCount int
	JobID                   *string
}
