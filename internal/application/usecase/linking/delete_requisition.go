// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DeleteRequisitionInput represents the input for requisition deletion.
type DeleteRequisitionInput struct {
	RequisitionID uuid.UUID
}

// DeleteRequisitionOutput represents the output of requisition deletion.
type DeleteRequisitionOutput struct {
	Success bool
}

// DeleteRequisitionUseCase handles requisition deletion logic.
type DeleteRequisitionUseCase struct {
	requisitionRepo adapter.RequisitionRepository
	feedClient      adapter.BankFeedClient
	tokenManager    adapter.FeedTokenManager
}

// NewDeleteRequisitionUseCase creates a new DeleteRequisitionUseCase instance.
func NewDeleteRequisitionUseCase(
	requisitionRepo adapter.RequisitionRepository,
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
) *DeleteRequisitionUseCase {
	return &DeleteRequisitionUseCase{
		requisitionRepo: requisitionRepo,
		feedClient:      feedClient,
		tokenManager:    tokenManager,
	}
}

// Execute deletes a requisition at the provider and locally, revoking the
// bank consent it carried. Links that came from it keep their history, but
// their syncs will fail until the bank account is captured by a new consent.
func (uc *DeleteRequisitionUseCase) Execute(ctx context.Context, input DeleteRequisitionInput) (*DeleteRequisitionOutput, error) {
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
	if err := uc.feedClient.DeleteRequisition(ctx, accessToken, requisition.ProviderID); err != nil {
		// Already gone at the provider; still delete the local record.
		if !errors.Is(err, domainerror.ErrRequisitionNotFound) {
			return nil, wrapProviderError(ctx, uc.tokenManager, "delete requisition", err)
		}
		slog.Debug("Requisition already deleted at the provider", "requisition_id", requisition.ID)
	}

	if err := uc.requisitionRepo.Delete(ctx, requisition.ID); err != nil {
		return nil, fmt.Errorf("failed to delete requisition: %w", err)
	}

	return &DeleteRequisitionOutput{
		Success: true,
	}, nil
}
