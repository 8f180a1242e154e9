// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AccountBalance pairs an account with the sum of the splits posted to it.
type AccountBalance struct {
	AccountID uuid.UUID
	Balance   decimal.Decimal
}

// AccountRepository defines the interface for ledger account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByFullName retrieves an account by its full hierarchical name.
	FindByFullName(ctx context.Context, fullName string) (*entity.Account, error)

	// FindAll retrieves all accounts ordered by full name.
	FindAll(ctx context.Context) ([]*entity.Account, error)

	// FindChildren retrieves the direct children of an account.
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Account, error)

	// FindOrCreateImbalance returns the fallback account for a currency,
	// creating it on first use.
	FindOrCreateImbalance(ctx context.Context, currency string) (*entity.Account, error)

	// Update updates an existing account in the database.
	Update(ctx context.Context, account *entity.Account) error

	// Delete soft-deletes an account from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByFullName checks if an account with the given full name exists.
	ExistsByFullName(ctx context.Context, fullName string) (bool, error)

	// HasChildren checks if the account has any child accounts.
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// HasSplits checks if any splits are posted to the account.
	HasSplits(ctx context.Context, id uuid.UUID) (bool, error)

	// GetBalance sums the split amounts posted to the account.
	GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)

	// GetBalances sums split amounts for all the given accounts at once.
	GetBalances(ctx context.Context, ids []uuid.UUID) ([]*AccountBalance, error)
}
