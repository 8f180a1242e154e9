// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AISuggestionRequest represents a request to suggest offsetting accounts
// for transactions that sit on a fallback account.
type AISuggestionRequest struct {
	Transactions     []*TransactionForAI
	ExistingAccounts []*AccountForAI
}

// TransactionForAI represents transaction data for suggestion processing.
type TransactionForAI struct {
	ID           uuid.UUID
	Description  string
	Counterparty string
	Amount       string
	Date         string
}

// AccountForAI represents account data for suggestion processing.
type AccountForAI struct {
	ID       uuid.UUID
	FullName string
	Type     string
}

// AISuggestionResult represents one offset suggestion from the service.
type AISuggestionResult struct {
	TransactionID          uuid.UUID
	SuggestedAccountID     *uuid.UUID                  // For an existing account
	SuggestedAccountNew    *entity.SuggestedAccountNew // For a new account
	MatchType              entity.MatchType
	MatchKeyword           string
	AffectedTransactionIDs []uuid.UUID
	Confidence             float64
	Reasoning              string
}

// AISuggestionService defines the interface for offset suggestion operations.
type AISuggestionService interface {
	// Suggest analyzes imbalance transactions and returns offset suggestions.
	Suggest(ctx context.Context, request *AISuggestionRequest) ([]*AISuggestionResult, error)

	// IsAvailable checks if the service is available and properly configured.
	IsAvailable() bool
}
