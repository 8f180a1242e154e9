// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// ListPayeeRulesInput represents the input for listing payee rules.
type ListPayeeRulesInput struct {
	ActiveOnly bool // If true, only return active rules
}

// ListPayeeRulesOutput represents the output of listing payee rules.
type ListPayeeRulesOutput struct {
	Rules []*entity.PayeeRuleWithAccount
}

// ListPayeeRulesUseCase handles listing payee rules logic.
type ListPayeeRulesUseCase struct {
	ruleRepo adapter.PayeeRuleRepository
}

// NewListPayeeRulesUseCase creates a new ListPayeeRulesUseCase instance.
func NewListPayeeRulesUseCase(ruleRepo adapter.PayeeRuleRepository) *ListPayeeRulesUseCase {
	return &ListPayeeRulesUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute retrieves payee rules with their offsetting accounts, highest
// priority first. Imports check the rules in this order.
func (uc *ListPayeeRulesUseCase) Execute(ctx context.Context, input ListPayeeRulesInput) (*ListPayeeRulesOutput, error) {
	rules, err := uc.ruleRepo.FindAllWithAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payee rules: %w", err)
	}

	if input.ActiveOnly {
		filtered := make([]*entity.PayeeRuleWithAccount, 0, len(rules))
		for _, rule := range rules {
			if rule.Rule.IsActive {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	return &ListPayeeRulesOutput{Rules: rules}, nil
}
