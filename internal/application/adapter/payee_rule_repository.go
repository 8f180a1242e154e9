// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// PayeeRuleRepository defines the interface for payee rule persistence operations.
type PayeeRuleRepository interface {
	// Create creates a new payee rule in the database.
	Create(ctx context.Context, rule *entity.PayeeRule) error

	// FindByID retrieves a payee rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PayeeRule, error)

	// FindByIDWithAccount retrieves a payee rule with its offsetting account.
	FindByIDWithAccount(ctx context.Context, id uuid.UUID) (*entity.PayeeRuleWithAccount, error)

	// FindAll retrieves all payee rules, sorted by priority (descending).
	FindAll(ctx context.Context) ([]*entity.PayeeRule, error)

	// FindAllWithAccounts retrieves all payee rules with their offsetting accounts.
	FindAllWithAccounts(ctx context.Context) ([]*entity.PayeeRuleWithAccount, error)

	// FindActive retrieves only active payee rules, sorted by priority (descending).
	FindActive(ctx context.Context) ([]*entity.PayeeRule, error)

	// Update updates an existing payee rule in the database.
	Update(ctx context.Context, rule *entity.PayeeRule) error

	// Delete removes a payee rule from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByPattern checks if a rule with the given pattern exists.
	ExistsByPattern(ctx context.Context, pattern string) (bool, error)

	// ExistsByPatternExcluding checks if a rule with the given pattern exists,
	// excluding a specific rule ID (used for updates).
	ExistsByPatternExcluding(ctx context.Context, pattern string, excludeID uuid.UUID) (bool, error)

	// UpdatePriorities updates the priorities for multiple rules in a batch operation.
	UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error

	// GetMaxPriority gets the maximum priority value across all rules.
	GetMaxPriority(ctx context.Context) (int, error)
}
