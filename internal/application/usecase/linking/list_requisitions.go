// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// ListRequisitionsInput represents the input for requisition listing.
type ListRequisitionsInput struct{}

// ListRequisitionsOutput represents the output of requisition listing.
type ListRequisitionsOutput struct {
	Requisitions []*entity.Requisition
}

// ListRequisitionsUseCase handles requisition listing logic.
type ListRequisitionsUseCase struct {
	requisitionRepo adapter.RequisitionRepository
}

// NewListRequisitionsUseCase creates a new ListRequisitionsUseCase instance.
func NewListRequisitionsUseCase(requisitionRepo adapter.RequisitionRepository) *ListRequisitionsUseCase {
	return &ListRequisitionsUseCase{
		requisitionRepo: requisitionRepo,
	}
}

// Execute lists the stored requisitions, newest first. Statuses reflect the
// last refresh, not the provider's live state.
func (uc *ListRequisitionsUseCase) Execute(ctx context.Context, input ListRequisitionsInput) (*ListRequisitionsOutput, error) {
	requisitions, err := uc.requisitionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requisitions: %w", err)
	}

	return &ListRequisitionsOutput{
		Requisitions: requisitions,
	}, nil
}
