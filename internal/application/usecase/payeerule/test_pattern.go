// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

const (
	// DefaultMatchLimit is the default number of matching splits to return.
	DefaultMatchLimit = 10
	// MaxMatchLimit is the maximum number of matching splits to return.
	MaxMatchLimit = 100
)

// TestPatternInput represents the input for pattern testing.
type TestPatternInput struct {
	Pattern string
	Limit   int // Optional, defaults to DefaultMatchLimit
}

// TestPatternOutput represents the output of pattern testing.
type TestPatternOutput struct {
	MatchingSplits []*entity.MatchingSplit
	MatchCount     int
}

// TestPatternUseCase handles pattern testing logic.
type TestPatternUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
}

// NewTestPatternUseCase creates a new TestPatternUseCase instance.
func NewTestPatternUseCase(transactionRepo adapter.LedgerTransactionRepository) *TestPatternUseCase {
	return &TestPatternUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute runs the pattern against the counterparties recorded on imported
// splits, so a rule can be tried out before it is saved.
func (uc *TestPatternUseCase) Execute(ctx context.Context, input TestPatternInput) (*TestPatternOutput, error) {
	pattern := strings.TrimSpace(input.Pattern)
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	// Set default limit if not provided
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultMatchLimit
	} else if limit > MaxMatchLimit {
		limit = MaxMatchLimit
	}

	result, err := uc.transactionRepo.FindMatchingCounterparties(ctx, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find matching counterparties: %w", err)
	}

	return &TestPatternOutput{
		MatchingSplits: result.MatchingSplits,
		MatchCount:     result.MatchCount,
	}, nil
}
