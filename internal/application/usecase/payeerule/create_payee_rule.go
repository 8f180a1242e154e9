// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

const (
	// MaxPatternLength is the maximum allowed length for regex patterns.
	MaxPatternLength = 255
)

// CreatePayeeRuleInput represents the input for payee rule creation.
type CreatePayeeRuleInput struct {
	Pattern     string
	AccountID   uuid.UUID
	Description string // Optional description override for created transactions
	Priority    *int   // Optional, defaults to max priority + 1
}

// CreatePayeeRuleOutput represents the output of payee rule creation.
type CreatePayeeRuleOutput struct {
	Rule *entity.PayeeRuleWithAccount
}

// CreatePayeeRuleUseCase handles payee rule creation logic.
type CreatePayeeRuleUseCase struct {
	ruleRepo    adapter.PayeeRuleRepository
	accountRepo adapter.AccountRepository
}

// NewCreatePayeeRuleUseCase creates a new CreatePayeeRuleUseCase instance.
func NewCreatePayeeRuleUseCase(
	ruleRepo adapter.PayeeRuleRepository,
	accountRepo adapter.AccountRepository,
) *CreatePayeeRuleUseCase {
	return &CreatePayeeRuleUseCase{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
}

// Execute performs the payee rule creation. The rule applies to future
// imports only; existing transactions keep their offsets.
func (uc *CreatePayeeRuleUseCase) Execute(ctx context.Context, input CreatePayeeRuleInput) (*CreatePayeeRuleOutput, error) {
	pattern := strings.TrimSpace(input.Pattern)
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	// Verify the offsetting account exists
	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, domainerror.NewPayeeRuleError(
			domainerror.ErrCodeAccountNotFoundForRule,
			"offsetting account not found",
			domainerror.ErrAccountNotFoundForRule,
		)
	}

	// Check if pattern already exists
	exists, err := uc.ruleRepo.ExistsByPattern(ctx, pattern)
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

	// Determine priority
	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	} else {
		// Auto-assign priority: max existing priority + 1
		maxPriority, err := uc.ruleRepo.GetMaxPriority(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get max priority: %w", err)
		}
		priority = maxPriority + 1
	}

	rule := entity.NewPayeeRule(pattern, input.AccountID, strings.TrimSpace(input.Description), priority)

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create payee rule: %w", err)
	}

	return &CreatePayeeRuleOutput{
		Rule: &entity.PayeeRuleWithAccount{
			Rule:    rule,
			Account: account,
		},
	}, nil
}

// validatePattern checks that a pattern is present, within bounds and
// compiles as a regex.
func validatePattern(pattern string) error {
	if pattern == "" {
		return domainerror.NewPayeeRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"pattern is required",
			domainerror.ErrPayeeRuleMissingFields,
		)
	}

	if len(pattern) > MaxPatternLength {
		return domainerror.NewPayeeRuleError(
			domainerror.ErrCodePatternTooLong,
			fmt.Sprintf("pattern must not exceed %d characters", MaxPatternLength),
			domainerror.ErrPatternTooLong,
		)
	}

	if _, err := regexp.Compile(pattern); err != nil {
		return domainerror.NewPayeeRuleError(
			domainerror.ErrCodeInvalidPattern,
			"invalid regex pattern: "+err.Error(),
			domainerror.ErrInvalidPattern,
		)
	}
	return nil
}
