// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PayeeRule represents an offset-inference rule. During imports the rule's
// regex pattern is matched against the counterparty text of incoming feed
// items; on a hit the new transaction is balanced against the rule's account
// and optionally renamed.
type PayeeRule struct {
	ID          uuid.UUID
	Pattern     string    // Regex pattern to match against counterparty text
	AccountID   uuid.UUID // The offsetting account to post against on a match
	Description string    // Optional description override for created transactions
	Priority    int       // Higher priority rules are checked first
	IsActive    bool      // Allows disabling rules without deleting them
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewPayeeRule creates a new PayeeRule entity.
func NewPayeeRule(pattern string, accountID uuid.UUID, description string, priority int) *PayeeRule {
	now := time.Now().UTC()

	return &PayeeRule{
		ID:          uuid.New(),
		Pattern:     pattern,
		AccountID:   accountID,
		Description: description,
		Priority:    priority,
		IsActive:    true, // New rules are active by default
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PayeeRuleWithAccount represents a payee rule with its offsetting account.
type PayeeRuleWithAccount struct {
	Rule    *PayeeRule
	Account *Account
}

// RulePriorityUpdate represents a priority update for a single rule.
type RulePriorityUpdate struct {
	ID       uuid.UUID
	Priority int
}

// MatchingSplit represents a ledger split whose counterparty matches a
// pattern during rule testing.
type MatchingSplit struct {
	ID           uuid.UUID
	Counterparty string
	Description  string
	Amount       string
	Date         time.Time
}

// PatternTestResult represents the result of testing a pattern against
// recorded counterparties.
type PatternTestResult struct {
	MatchingSplits []*MatchingSplit
	MatchCount     int
}
