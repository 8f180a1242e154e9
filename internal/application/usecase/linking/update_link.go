// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// UpdateLinkInput represents the input for account link update. The linked
// accounts themselves cannot change; delete and relink instead.
type UpdateLinkInput struct {
	LinkID      uuid.UUID
	Alias       *string // Optional
	DateBasis   *string // Optional
	SyncEnabled *bool   // Optional
}

// UpdateLinkOutput represents the output of account link update.
type UpdateLinkOutput struct {
	Link *entity.AccountLink
}

// UpdateLinkUseCase handles account link update logic.
type UpdateLinkUseCase struct {
	linkRepo adapter.AccountLinkRepository
}

// NewUpdateLinkUseCase creates a new UpdateLinkUseCase instance.
func NewUpdateLinkUseCase(linkRepo adapter.AccountLinkRepository) *UpdateLinkUseCase {
	return &UpdateLinkUseCase{
		linkRepo: linkRepo,
	}
}

// Execute performs the account link update.
func (uc *UpdateLinkUseCase) Execute(ctx context.Context, input UpdateLinkInput) (*UpdateLinkOutput, error) {
	// Find the existing link
	link, err := uc.linkRepo.FindByID(ctx, input.LinkID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			return nil, domainerror.NewLinkError(
				domainerror.ErrCodeAccountLinkNotFound,
				"account link not found",
				domainerror.ErrAccountLinkNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find account link: %w", err)
	}

	// Update alias if provided
	if input.Alias != nil {
		link.Alias = strings.TrimSpace(*input.Alias)
	}

	// Update date basis if provided
	if input.DateBasis != nil {
		if !entity.IsValidDateBasis(*input.DateBasis) {
			return nil, domainerror.NewLinkError(
				domainerror.ErrCodeInvalidDateBasis,
				fmt.Sprintf("date basis must be bookingDate or valueDate (got %q)", *input.DateBasis),
				domainerror.ErrInvalidDateBasis,
			)
		}
		link.DateBasis = entity.DateBasis(*input.DateBasis)
	}

	// Update sync flag if provided
	if input.SyncEnabled != nil {
		link.SyncEnabled = *input.SyncEnabled
	}

	link.UpdatedAt = time.Now().UTC()

	if err := uc.linkRepo.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to update account link: %w", err)
	}

	return &UpdateLinkOutput{
		Link: link,
	}, nil
}
