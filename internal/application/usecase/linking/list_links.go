// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// ListLinksInput represents the input for account link listing.
type ListLinksInput struct{}

// ListLinksOutput represents the output of account link listing.
type ListLinksOutput struct {
	Links []*entity.AccountLinkWithAccount
}

// ListLinksUseCase handles account link listing logic.
type ListLinksUseCase struct {
	linkRepo adapter.AccountLinkRepository
}

// NewListLinksUseCase creates a new ListLinksUseCase instance.
func NewListLinksUseCase(linkRepo adapter.AccountLinkRepository) *ListLinksUseCase {
	return &ListLinksUseCase{
		linkRepo: linkRepo,
	}
}

// Execute lists all account links with their ledger accounts.
func (uc *ListLinksUseCase) Execute(ctx context.Context, input ListLinksInput) (*ListLinksOutput, error) {
	links, err := uc.linkRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account links: %w", err)
	}

	return &ListLinksOutput{
		Links: links,
	}, nil
}
