// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// ListSuggestionsInput represents the input for listing pending suggestions.
type ListSuggestionsInput struct{}

// ListSuggestionsOutput represents the output of listing pending suggestions.
type ListSuggestionsOutput struct {
	Suggestions  []*entity.AccountSuggestionWithDetails
	TotalPending int
}

// ListSuggestionsUseCase handles retrieving pending suggestions for review.
type ListSuggestionsUseCase struct {
	suggestionRepo adapter.AISuggestionRepository
}

// NewListSuggestionsUseCase creates a new ListSuggestionsUseCase instance.
func NewListSuggestionsUseCase(suggestionRepo adapter.AISuggestionRepository) *ListSuggestionsUseCase {
	return &ListSuggestionsUseCase{
		suggestionRepo: suggestionRepo,
	}
}

// Execute retrieves the pending suggestions with their transactions and
// proposed accounts, oldest first.
func (uc *ListSuggestionsUseCase) Execute(ctx context.Context, input ListSuggestionsInput) (*ListSuggestionsOutput, error) {
	suggestions, err := uc.suggestionRepo.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending suggestions: %w", err)
	}

	return &ListSuggestionsOutput{
		Suggestions:  suggestions,
		TotalPending: len(suggestions),
	}, nil
}
