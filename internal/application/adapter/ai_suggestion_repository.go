// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AISuggestionRepository defines the interface for offset suggestion persistence operations.
type AISuggestionRepository interface {
	// Create creates a new suggestion in the database.
	Create(ctx context.Context, suggestion *entity.AccountSuggestion) error

	// CreateBatch creates multiple suggestions in a single transaction.
	CreateBatch(ctx context.Context, suggestions []*entity.AccountSuggestion) error

	// GetByID retrieves a suggestion by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AccountSuggestion, error)

	// GetByIDWithDetails retrieves a suggestion with all related details.
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*entity.AccountSuggestionWithDetails, error)

	// GetPending retrieves all pending suggestions with details, oldest first.
	GetPending(ctx context.Context) ([]*entity.AccountSuggestionWithDetails, error)

	// GetPendingCount retrieves the count of pending suggestions.
	GetPendingCount(ctx context.Context) (int, error)

	// Update updates an existing suggestion in the database.
	Update(ctx context.Context, suggestion *entity.AccountSuggestion) error

	// DeleteByID deletes a suggestion by its ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeletePending deletes all pending suggestions.
	// Returns the number of deleted suggestions.
	DeletePending(ctx context.Context) (int, error)

	// ExistsPending checks if there are any pending suggestions.
	ExistsPending(ctx context.Context) (bool, error)
}
