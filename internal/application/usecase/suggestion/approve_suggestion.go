// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// ApproveSuggestionInput represents the input for approving a suggestion.
type ApproveSuggestionInput struct {
	SuggestionID uuid.UUID
}

// ApproveSuggestionOutput represents the output of approving a suggestion.
type ApproveSuggestionOutput struct {
	Account        *entity.Account
	AccountCreated bool
	// Rule is the payee rule derived from the match keyword, nil when an
	// equivalent rule already exists.
	Rule        *entity.PayeeRule
	SplitsMoved int64
}

// ApproveSuggestionUseCase handles approving a suggestion: the fallback
// splits of the covered transactions move to the suggested account, a new
// account is created when the suggestion proposes one, and the counterparty
// match becomes a payee rule so future imports resolve on their own.
type ApproveSuggestionUseCase struct {
	suggestionRepo  adapter.AISuggestionRepository
	accountRepo     adapter.AccountRepository
	transactionRepo adapter.LedgerTransactionRepository
	ruleRepo        adapter.PayeeRuleRepository
}

// NewApproveSuggestionUseCase creates a new ApproveSuggestionUseCase instance.
func NewApproveSuggestionUseCase(
	suggestionRepo adapter.AISuggestionRepository,
	accountRepo adapter.AccountRepository,
	transactionRepo adapter.LedgerTransactionRepository,
	ruleRepo adapter.PayeeRuleRepository,
) *ApproveSuggestionUseCase {
	return &ApproveSuggestionUseCase{
		suggestionRepo:  suggestionRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ruleRepo:        ruleRepo,
	}
}

// Execute approves the suggestion.
func (uc *ApproveSuggestionUseCase) Execute(ctx context.Context, input ApproveSuggestionInput) (*ApproveSuggestionOutput, error) {
	suggestion, err := uc.suggestionRepo.GetByID(ctx, input.SuggestionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAISuggestionNotFound) {
			return nil, domainerror.NewAISuggestionError(
				domainerror.ErrCodeAISuggestionNotFound,
				"Suggestion not found",
				domainerror.ErrAISuggestionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	if suggestion.Status != entity.SuggestionStatusPending {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAISuggestionAlreadyProcessed,
			"Suggestion has already been processed",
			domainerror.ErrAISuggestionAlreadyProcessed,
		)
	}

	// The primary transaction supplies the currency for a new account
	transaction, err := uc.transactionRepo.FindByID(ctx, suggestion.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested transaction: %w", err)
	}

	account, accountCreated, err := uc.resolveTarget(ctx, suggestion, transaction.Currency)
	if err != nil {
		return nil, err
	}

	transactionIDs := append([]uuid.UUID{suggestion.TransactionID}, suggestion.AffectedTransactionIDs...)
	moved, err := uc.transactionRepo.ReassignImbalanceSplits(ctx, transactionIDs, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to move imbalance splits: %w", err)
	}

	rule, err := uc.createRule(ctx, suggestion, account)
	if err != nil {
		return nil, err
	}

	suggestion.Status = entity.SuggestionStatusApproved
	suggestion.UpdatedAt = time.Now().UTC()
	if err := uc.suggestionRepo.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to update suggestion status: %w", err)
	}

	return &ApproveSuggestionOutput{
		Account:        account,
		AccountCreated: accountCreated,
		Rule:           rule,
		SplitsMoved:    moved,
	}, nil
}

// resolveTarget returns the account the fallback splits should move to,
// creating it when the suggestion proposes a new one.
func (uc *ApproveSuggestionUseCase) resolveTarget(ctx context.Context, suggestion *entity.AccountSuggestion, currency string) (*entity.Account, bool, error) {
	switch {
	case suggestion.SuggestedAccountID != nil:
		account, err := uc.accountRepo.FindByID(ctx, *suggestion.SuggestedAccountID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get suggested account: %w", err)
		}
		return account, false, nil

	case suggestion.SuggestedAccountNew != nil:
		accountType := entity.AccountType(suggestion.SuggestedAccountNew.Type)
		if !entity.IsValidAccountType(suggestion.SuggestedAccountNew.Type) {
			accountType = entity.AccountTypeExpense
		}
		return uc.ensureAccountPath(ctx, suggestion.SuggestedAccountNew.Name, accountType, currency)

	default:
		return nil, false, fmt.Errorf("suggestion names neither an existing nor a new account")
	}
}

// ensureAccountPath finds the account with the given full name, creating the
// missing levels of the hierarchy. Reports whether the leaf was created.
func (uc *ApproveSuggestionUseCase) ensureAccountPath(ctx context.Context, fullName string, accountType entity.AccountType, currency string) (*entity.Account, bool, error) {
	var parent *entity.Account
	created := false
	path := ""

	for _, segment := range strings.Split(fullName, entity.AccountNameSeparator) {
		name := strings.TrimSpace(segment)
		if name == "" {
			continue
		}
		if path == "" {
			path = name
		} else {
			path += entity.AccountNameSeparator + name
		}

		account, err := uc.accountRepo.FindByFullName(ctx, path)
		if err == nil {
			parent = account
			created = false
			continue
		}
		if !errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, false, fmt.Errorf("failed to find account %q: %w", path, err)
		}

		account = entity.NewAccount(name, parent, accountType, currency, "")
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return nil, false, fmt.Errorf("failed to create account %q: %w", path, err)
		}
		parent = account
		created = true
	}

	if parent == nil {
		return nil, false, fmt.Errorf("suggested account name %q is empty", fullName)
	}
	return parent, created, nil
}

// createRule derives a payee rule from the counterparty match, unless an
// equal pattern already exists. Returns the created rule or nil.
func (uc *ApproveSuggestionUseCase) createRule(ctx context.Context, suggestion *entity.AccountSuggestion, account *entity.Account) (*entity.PayeeRule, error) {
	// An empty keyword would produce a match-everything rule
	if strings.TrimSpace(suggestion.MatchKeyword) == "" {
		return nil, nil
	}

	pattern := buildPattern(suggestion.MatchType, suggestion.MatchKeyword)

	exists, err := uc.ruleRepo.ExistsByPattern(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to check pattern existence: %w", err)
	}
	if exists {
		return nil, nil
	}

	maxPriority, err := uc.ruleRepo.GetMaxPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max priority: %w", err)
	}

	rule := entity.NewPayeeRule(pattern, account.ID, "", maxPriority+1)
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create payee rule: %w", err)
	}
	return rule, nil
}

// buildPattern derives a payee rule regex from the match type and keyword.
// The keyword is quoted, it is a literal fragment rather than a regex.
func buildPattern(matchType entity.MatchType, keyword string) string {
	quoted := regexp.QuoteMeta(keyword)
	switch matchType {
	case entity.MatchTypeExact:
		return fmt.Sprintf("^%s$", quoted)
	case entity.MatchTypeStartsWith:
		return fmt.Sprintf("^%s", quoted)
	case entity.MatchTypeContains:
		fallthrough
	default:
		return fmt.Sprintf("(?i)%s", quoted)
	}
}
