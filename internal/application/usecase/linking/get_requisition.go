// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// GetRequisitionInput represents the input for requisition retrieval.
type GetRequisitionInput struct {
	RequisitionID uuid.UUID
}

// GetRequisitionOutput represents the output of requisition retrieval.
// LinkedBankAccounts marks the discovered accounts that already have a link.
type GetRequisitionOutput struct {
	Requisition        *entity.Requisition
	LinkedBankAccounts map[string]bool
}

// GetRequisitionUseCase handles requisition retrieval logic.
type GetRequisitionUseCase struct {
	requisitionRepo adapter.RequisitionRepository
	linkRepo        adapter.AccountLinkRepository
	feedClient      adapter.BankFeedClient
	tokenManager    adapter.FeedTokenManager
}

// NewGetRequisitionUseCase creates a new GetRequisitionUseCase instance.
func NewGetRequisitionUseCase(
	requisitionRepo adapter.RequisitionRepository,
	linkRepo adapter.AccountLinkRepository,
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
) *GetRequisitionUseCase {
	return &GetRequisitionUseCase{
		requisitionRepo: requisitionRepo,
		linkRepo:        linkRepo,
		feedClient:      feedClient,
		tokenManager:    tokenManager,
	}
}

// Execute retrieves a requisition, refreshing its status and discovered bank
// accounts from the provider. The consent flow completes on the provider's
// side, so the stored status is only current after a refresh.
func (uc *GetRequisitionUseCase) Execute(ctx context.Context, input GetRequisitionInput) (*GetRequisitionOutput, error) {
	requisition, err := uc.requisitionRepo.FindByID(ctx, input.RequisitionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrRequisitionNotFound) {
			return nil, domainerror.NewFeedError(
				domainerror.ErrCodeRequisitionNotFound,
				"requisition not found",
				domainerror.ErrRequisitionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find requisition: %w", err)
	}

	accessToken, err := uc.tokenManager.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain provider access token: %w", err)
	}
	provided, err := uc.feedClient.GetRequisition(ctx, accessToken, requisition.ProviderID)
	if err != nil {
		if errors.Is(err, domainerror.ErrRequisitionNotFound) {
			return nil, domainerror.NewFeedError(
				domainerror.ErrCodeRequisitionNotFound,
				"requisition no longer exists at the provider",
				err,
			)
		}
		return nil, wrapProviderError(ctx, uc.tokenManager, "refresh requisition", err)
	}

	requisition.UpdateFromProvider(provided.Status, provided.AccountIDs)
	if err := uc.requisitionRepo.Update(ctx, requisition); err != nil {
		return nil, fmt.Errorf("failed to store refreshed requisition: %w", err)
	}

	linked := make(map[string]bool, len(requisition.AccountIDs))
	for _, bankAccountID := range requisition.AccountIDs {
		if _, err := uc.linkRepo.FindByBankAccountID(ctx, bankAccountID); err != nil {
			if errors.Is(err, domainerror.ErrAccountLinkNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to check bank account link: %w", err)
		}
		linked[bankAccountID] = true
	}

	return &GetRequisitionOutput{
		Requisition:        requisition,
		LinkedBankAccounts: linked,
	}, nil
}
