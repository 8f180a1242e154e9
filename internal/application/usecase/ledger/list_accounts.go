// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AccountWithBalance pairs an account with the sum of its splits.
type AccountWithBalance struct {
	Account *entity.Account
	Balance decimal.Decimal
}

// ListAccountsInput represents the input for account listing.
type ListAccountsInput struct{}

// ListAccountsOutput represents the output of account listing.
type ListAccountsOutput struct {
	Accounts []*AccountWithBalance
}

// ListAccountsUseCase handles account listing logic.
type ListAccountsUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewListAccountsUseCase creates a new ListAccountsUseCase instance.
func NewListAccountsUseCase(accountRepo adapter.AccountRepository) *ListAccountsUseCase {
	return &ListAccountsUseCase{
		accountRepo: accountRepo,
	}
}

// Execute lists all accounts with their balances, ordered by full name so a
// parent always precedes its children.
func (uc *ListAccountsUseCase) Execute(ctx context.Context, input ListAccountsInput) (*ListAccountsOutput, error) {
	accounts, err := uc.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}

	balances, err := uc.accountRepo.GetBalances(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load account balances: %w", err)
	}
	byAccount := make(map[uuid.UUID]decimal.Decimal, len(balances))
	for _, balance := range balances {
		byAccount[balance.AccountID] = balance.Balance
	}

	output := &ListAccountsOutput{
		Accounts: make([]*AccountWithBalance, 0, len(accounts)),
	}
	for _, account := range accounts {
		output.Accounts = append(output.Accounts, &AccountWithBalance{
			Account: account,
			Balance: byAccount[account.ID],
		})
	}
	return output, nil
}
