// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DeletePayeeRuleInput represents the input for payee rule deletion.
type DeletePayeeRuleInput struct {
	RuleID uuid.UUID
}

// DeletePayeeRuleOutput represents the output of payee rule deletion.
type DeletePayeeRuleOutput struct {
	Success bool
}

// DeletePayeeRuleUseCase handles payee rule deletion logic.
type DeletePayeeRuleUseCase struct {
	ruleRepo adapter.PayeeRuleRepository
}

// NewDeletePayeeRuleUseCase creates a new DeletePayeeRuleUseCase instance.
func NewDeletePayeeRuleUseCase(ruleRepo adapter.PayeeRuleRepository) *DeletePayeeRuleUseCase {
	return &DeletePayeeRuleUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the payee rule deletion. Transactions the rule created
// keep their offsets.
func (uc *DeletePayeeRuleUseCase) Execute(ctx context.Context, input DeletePayeeRuleInput) (*DeletePayeeRuleOutput, error) {
	if _, err := uc.ruleRepo.FindByID(ctx, input.RuleID); err != nil {
		if errors.Is(err, domainerror.ErrPayeeRuleNotFound) {
			return nil, domainerror.NewPayeeRuleError(
				domainerror.ErrCodePayeeRuleNotFound,
				"payee rule not found",
				domainerror.ErrPayeeRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find payee rule: %w", err)
	}

	if err := uc.ruleRepo.Delete(ctx, input.RuleID); err != nil {
		return nil, fmt.Errorf("failed to delete payee rule: %w", err)
	}

	return &DeletePayeeRuleOutput{Success: true}, nil
}
