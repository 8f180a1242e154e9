// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DeleteLinkInput represents the input for account link deletion.
type DeleteLinkInput struct {
	LinkID uuid.UUID
}

// DeleteLinkOutput represents the output of account link deletion.
type DeleteLinkOutput struct {
	Success bool
}

// DeleteLinkUseCase handles account link deletion logic.
type DeleteLinkUseCase struct {
	linkRepo adapter.AccountLinkRepository
}

// NewDeleteLinkUseCase creates a new DeleteLinkUseCase instance.
func NewDeleteLinkUseCase(linkRepo adapter.AccountLinkRepository) *DeleteLinkUseCase {
	return &DeleteLinkUseCase{
		linkRepo: linkRepo,
	}
}

// Execute deletes an account link. Past sync runs and reconciled splits keep
// their history; only future syncs stop.
func (uc *DeleteLinkUseCase) Execute(ctx context.Context, input DeleteLinkInput) (*DeleteLinkOutput, error) {
	if _, err := uc.linkRepo.FindByID(ctx, input.LinkID); err != nil {
		if errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			return nil, domainerror.NewLinkError(
				domainerror.ErrCodeAccountLinkNotFound,
				"account link not found",
				domainerror.ErrAccountLinkNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find account link: %w", err)
	}

	if err := uc.linkRepo.Delete(ctx, input.LinkID); err != nil {
		return nil, fmt.Errorf("failed to delete account link: %w", err)
	}

	return &DeleteLinkOutput{
		Success: true,
	}, nil
}
