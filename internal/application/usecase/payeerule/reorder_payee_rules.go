// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// ReorderPayeeRulesInput represents the input for reordering payee rules.
type ReorderPayeeRulesInput struct {
	Order []RulePriorityInput
}

// RulePriorityInput represents a priority update for a single rule.
type RulePriorityInput struct {
	ID       uuid.UUID
	Priority int
}

// ReorderPayeeRulesOutput represents the output of reordering payee rules.
type ReorderPayeeRulesOutput struct {
	Rules []*entity.PayeeRuleWithAccount
}

// ReorderPayeeRulesUseCase handles payee rules reordering logic.
type ReorderPayeeRulesUseCase struct {
	ruleRepo adapter.PayeeRuleRepository
}

// NewReorderPayeeRulesUseCase creates a new ReorderPayeeRulesUseCase instance.
func NewReorderPayeeRulesUseCase(ruleRepo adapter.PayeeRuleRepository) *ReorderPayeeRulesUseCase {
	return &ReorderPayeeRulesUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the payee rules reordering and returns the full rule list
// in its new order.
func (uc *ReorderPayeeRulesUseCase) Execute(ctx context.Context, input ReorderPayeeRulesInput) (*ReorderPayeeRulesOutput, error) {
	// Validate that at least one rule is provided
	if len(input.Order) == 0 {
		return nil, domainerror.NewPayeeRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"at least one rule must be provided",
			domainerror.ErrPayeeRuleMissingFields,
		)
	}

	// Verify all rules exist before touching any priority
	for _, update := range input.Order {
		if _, err := uc.ruleRepo.FindByID(ctx, update.ID); err != nil {
			return nil, domainerror.NewPayeeRuleError(
				domainerror.ErrCodePayeeRuleNotFound,
				fmt.Sprintf("payee rule not found: %s", update.ID),
				domainerror.ErrPayeeRuleNotFound,
			)
		}
	}

	updates := make([]entity.RulePriorityUpdate, len(input.Order))
	for i, update := range input.Order {
		updates[i] = entity.RulePriorityUpdate{
			ID:       update.ID,
			Priority: update.Priority,
		}
	}

	if err := uc.ruleRepo.UpdatePriorities(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to update rule priorities: %w", err)
	}

	rules, err := uc.ruleRepo.FindAllWithAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated rules: %w", err)
	}

	return &ReorderPayeeRulesOutput{Rules: rules}, nil
}
