// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// ClearSuggestionsInput represents the input for clearing pending suggestions.
type ClearSuggestionsInput struct{}

// ClearSuggestionsOutput represents the output of clearing pending suggestions.
type ClearSuggestionsOutput struct {
	DeletedCount int `json:"deleted_count"`
}

// ClearSuggestionsUseCase handles discarding every pending suggestion, for
// example before a fresh run. Processed suggestions are kept.
type ClearSuggestionsUseCase struct {
	suggestionRepo adapter.AISuggestionRepository
}

// NewClearSuggestionsUseCase creates a new ClearSuggestionsUseCase instance.
func NewClearSuggestionsUseCase(suggestionRepo adapter.AISuggestionRepository) *ClearSuggestionsUseCase {
	return &ClearSuggestionsUseCase{
		suggestionRepo: suggestionRepo,
	}
}

// Execute deletes the pending suggestions and reports how many went away.
func (uc *ClearSuggestionsUseCase) Execute(ctx context.Context, input ClearSuggestionsInput) (*ClearSuggestionsOutput, error) {
	deleted, err := uc.suggestionRepo.DeletePending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete pending suggestions: %w", err)
	}

	return &ClearSuggestionsOutput{
		DeletedCount: deleted,
	}, nil
}
