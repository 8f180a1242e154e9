// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AccountLinkRepository defines the interface for account link persistence operations.
type AccountLinkRepository interface {
	// Create creates a new account link in the database.
	Create(ctx context.Context, link *entity.AccountLink) error

	// FindByID retrieves an account link by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AccountLink, error)

	// FindByIDWithAccount retrieves an account link with its ledger account.
	FindByIDWithAccount(ctx context.Context, id uuid.UUID) (*entity.AccountLinkWithAccount, error)

	// FindAll retrieves all account links with their ledger accounts.
	FindAll(ctx context.Context) ([]*entity.AccountLinkWithAccount, error)

	// FindSyncEnabled retrieves all links with syncing enabled.
	FindSyncEnabled(ctx context.Context) ([]*entity.AccountLink, error)

	// FindByBankAccountID retrieves the link for a provider-side bank account.
	FindByBankAccountID(ctx context.Context, bankAccountID string) (*entity.AccountLink, error)

	// FindByLedgerAccountID retrieves the link for a ledger account.
	FindByLedgerAccountID(ctx context.Context, ledgerAccountID uuid.UUID) (*entity.AccountLink, error)

	// Update updates an existing account link in the database.
	Update(ctx context.Context, link *entity.AccountLink) error

	// Delete soft-deletes an account link from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
