// Package payeerule contains payee rule use cases.
package payeerule

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

// UpdatePayeeRuleInput represents the input for payee rule update.
type UpdatePayeeRuleInput struct {
	RuleID      uuid.UUID
	Pattern     *string    // Optional
	AccountID   *uuid.UUID // Optional
	Description *string    // Optional
	Priority    *int       // Optional
	IsActive    *bool      // Optional
}

// UpdatePayeeRuleOutput represents the output of payee rule update.
type UpdatePayeeRuleOutput struct {
	Rule *entity.PayeeRuleWithAccount
}

// UpdatePayeeRuleUseCase handles payee rule update logic.
type UpdatePayeeRuleUseCase struct {
	ruleRepo    adapter.PayeeRuleRepository
	accountRepo adapter.AccountRepository
}

// NewUpdatePayeeRuleUseCase creates a new UpdatePayeeRuleUseCase instance.
func NewUpdatePayeeRuleUseCase(
	ruleRepo adapter.PayeeRuleRepository,
	accountRepo adapter.AccountRepository,
) *UpdatePayeeRuleUseCase {
	return &UpdatePayeeRuleUseCase{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
}

// Execute performs the payee rule update.
func (uc *UpdatePayeeRuleUseCase) Execute(ctx context.Context, input UpdatePayeeRuleInput) (*UpdatePayeeRuleOutput, error) {
	// Find the existing rule
	rule, err := uc.ruleRepo.FindByID(ctx, input.RuleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPayeeRuleNotFound) {
			return nil, domainerror.NewPayeeRuleError(
				domainerror.ErrCodePayeeRuleNotFound,
				"payee rule not found",
				domainerror.ErrPayeeRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find payee rule: %w", err)
	}

	// Update pattern if provided
	if input.Pattern != nil {
		pattern := strings.TrimSpace(*input.Pattern)
		if err := validatePattern(pattern); err != nil {
			return nil, err
		}

		if pattern != rule.Pattern {
			exists, err := uc.ruleRepo.ExistsByPatternExcluding(ctx, pattern, input.RuleID)
			if err != nil {
				return nil, fmt.Errorf("failed to check pattern existence: %w", err)
			}
			if exists {
				return nil, domainerror.NewPayeeRuleError(
					domainerror.ErrCodePayeeRulePatternExists,
					"a rule with this pattern already exists",
					domainerror.ErrPayeeRulePatternExists,
				)
			}
		}

		rule.Pattern = pattern
	}

	// Update offsetting account if provided
	var account *entity.Account
	if input.AccountID != nil {
		account, err = uc.accountRepo.FindByID(ctx, *input.AccountID)
		if err != nil {
			return nil, domainerror.NewPayeeRuleError(
				domainerror.ErrCodeAccountNotFoundForRule,
				"offsetting account not found",
				domainerror.ErrAccountNotFoundForRule,
			)
		}
		rule.AccountID = *input.AccountID
	} else {
		account, _ = uc.accountRepo.FindByID(ctx, rule.AccountID)
	}

	// Update description if provided
	if input.Description != nil {
		rule.Description = strings.TrimSpace(*input.Description)
	}

	// Update priority if provided
	if input.Priority != nil {
		rule.Priority = *input.Priority
	}

	// Update is_active if provided
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	rule.UpdatedAt = time.Now().UTC()

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update payee rule: %w", err)
	}

	return &UpdatePayeeRuleOutput{
		Rule: &entity.PayeeRuleWithAccount{
			Rule:    rule,
			Account: account,
		},
	}, nil
}
