// Package payeerule contains payee rule use cases.
package payeerule

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// The fakes embed their interface so only the methods a test exercises need
// an implementation; anything unexpected panics with a nil receiver.

type fakeRuleRepo struct {
	adapter.PayeeRuleRepository
	rules           map[uuid.UUID]*entity.PayeeRule
	maxPriority     int
	created         []*entity.PayeeRule
	updated         []*entity.PayeeRule
	deleted         []uuid.UUID
	priorityUpdates []entity.RulePriorityUpdate
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*entity.PayeeRule)}
}

func (f *fakeRuleRepo) add(rule *entity.PayeeRule) *entity.PayeeRule {
	f.rules[rule.ID] = rule
	if rule.Priority > f.maxPriority {
		f.maxPriority = rule.Priority
	}
	return rule
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *entity.PayeeRule) error {
	f.created = append(f.created, rule)
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.PayeeRule, error) {
	if rule, ok := f.rules[id]; ok {
		return rule, nil
	}
	return nil, domainerror.ErrPayeeRuleNotFound
}

func (f *fakeRuleRepo) FindAllWithAccounts(ctx context.Context) ([]*entity.PayeeRuleWithAccount, error) {
	rules := make([]*entity.PayeeRuleWithAccount, 0, len(f.rules))
	for _, rule := range f.rules {
		rules = append(rules, &entity.PayeeRuleWithAccount{Rule: rule})
	}
	return rules, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule *entity.PayeeRule) error {
	f.updated = append(f.updated, rule)
	return nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.rules, id)
	return nil
}

func (f *fakeRuleRepo) ExistsByPattern(ctx context.Context, pattern string) (bool, error) {
	for _, rule := range f.rules {
		if rule.Pattern == pattern {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRuleRepo) ExistsByPatternExcluding(ctx context.Context, pattern string, excludeID uuid.UUID) (bool, error) {
	for _, rule := range f.rules {
		if rule.ID != excludeID && rule.Pattern == pattern {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRuleRepo) UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error {
	f.priorityUpdates = append(f.priorityUpdates, updates...)
	for _, update := range updates {
		if rule, ok := f.rules[update.ID]; ok {
			rule.Priority = update.Priority
		}
	}
	return nil
}

func (f *fakeRuleRepo) GetMaxPriority(ctx context.Context) (int, error) {
	return f.maxPriority, nil
}

type fakeAccountRepo struct {
	adapter.AccountRepository
	accounts map[uuid.UUID]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (f *fakeAccountRepo) add(account *entity.Account) *entity.Account {
	f.accounts[account.ID] = account
	return account
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, domainerror.ErrAccountNotFound
}

type fakeTransactionRepo struct {
	adapter.LedgerTransactionRepository
	patternResult *entity.PatternTestResult
	lastPattern   string
	lastLimit     int
}

func (f *fakeTransactionRepo) FindMatchingCounterparties(ctx context.Context, pattern string, limit int) (*entity.PatternTestResult, error) {
	f.lastPattern = pattern
	f.lastLimit = limit
	if f.patternResult != nil {
		return f.patternResult, nil
	}
	return &entity.PatternTestResult{}, nil
}
