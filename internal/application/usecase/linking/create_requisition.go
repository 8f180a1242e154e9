// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// CreateRequisitionInput represents the input for starting a bank consent flow.
type CreateRequisitionInput struct {
	InstitutionID string
	RedirectURL   string // Optional, falls back to the configured default
}

// CreateRequisitionOutput represents the output of starting a consent flow.
// The end user must follow Requisition.Link to authorise access.
type CreateRequisitionOutput struct {
	Requisition *entity.Requisition
}

// CreateRequisitionUseCase handles consent flow creation logic.
type CreateRequisitionUseCase struct {
	requisitionRepo    adapter.RequisitionRepository
	feedClient         adapter.BankFeedClient
	tokenManager       adapter.FeedTokenManager
	defaultRedirectURL string
}

// NewCreateRequisitionUseCase creates a new CreateRequisitionUseCase instance.
func NewCreateRequisitionUseCase(
	requisitionRepo adapter.RequisitionRepository,
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
	defaultRedirectURL string,
) *CreateRequisitionUseCase {
	return &CreateRequisitionUseCase{
		requisitionRepo:    requisitionRepo,
		feedClient:         feedClient,
		tokenManager:       tokenManager,
		defaultRedirectURL: defaultRedirectURL,
	}
}

// Execute starts a consent flow at the provider and stores the requisition.
func (uc *CreateRequisitionUseCase) Execute(ctx context.Context, input CreateRequisitionInput) (*CreateRequisitionOutput, error) {
	institutionID := strings.TrimSpace(input.InstitutionID)
	if institutionID == "" {
		return nil, domainerror.NewFeedError(
			domainerror.ErrCodeInstitutionNotFound,
			"an institution id is required",
			domainerror.ErrInstitutionNotFound,
		)
	}

	redirectURL := strings.TrimSpace(input.RedirectURL)
	if redirectURL == "" {
		redirectURL = uc.defaultRedirectURL
	}

	accessToken, err := uc.tokenManager.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain provider access token: %w", err)
	}

	// The reference makes the consent flow traceable end to end; the provider
	// requires it to be unique.
	reference := uuid.New().String()
	provided, err := uc.feedClient.CreateRequisition(ctx, accessToken, institutionID, redirectURL, reference)
	if err != nil {
		return nil, wrapProviderError(ctx, uc.tokenManager, "create requisition", err)
	}

	requisition := entity.NewRequisition(provided.ID, institutionID, provided.Status, provided.Link, provided.Reference)
	if err := uc.requisitionRepo.Create(ctx, requisition); err != nil {
		return nil, fmt.Errorf("failed to store requisition: %w", err)
	}

	return &CreateRequisitionOutput{
		Requisition: requisition,
	}, nil
}
