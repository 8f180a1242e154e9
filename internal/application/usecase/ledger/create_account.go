// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// CreateAccountInput represents the input for account creation.
type CreateAccountInput struct {
	Name        string
	ParentID    *uuid.UUID // Optional, nil creates a top-level account
	Type        string
	Currency    string // Optional when a parent is given, inherited from it
	Description string
}

// CreateAccountOutput represents the output of account creation.
type CreateAccountOutput struct {
	Account *entity.Account
}

// CreateAccountUseCase handles account creation logic.
type CreateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewCreateAccountUseCase creates a new CreateAccountUseCase instance.
func NewCreateAccountUseCase(accountRepo adapter.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account creation.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	// Validate the account name
	name := strings.TrimSpace(input.Name)
	if err := validateAccountName(name); err != nil {
		return nil, err
	}

	// Validate the account type
	if !entity.IsValidAccountType(input.Type) {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountType,
			fmt.Sprintf("account type must be one of: asset, liability, income, expense, equity (got %q)", input.Type),
			domainerror.ErrInvalidAccountType,
		)
	}

	// Resolve the parent if one was given
	var parent *entity.Account
	if input.ParentID != nil {
		found, err := uc.accountRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, domainerror.ErrAccountNotFound) {
				return nil, domainerror.NewAccountError(
					domainerror.ErrCodeParentAccountNotFound,
					"parent account not found",
					domainerror.ErrParentAccountNotFound,
				)
			}
			return nil, fmt.Errorf("failed to find parent account: %w", err)
		}
		parent = found
	}

	// Resolve the currency: explicit, inherited from the parent, or rejected.
	// Children keep their parent's currency so subtree balances stay additive.
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	switch {
	case currency == "" && parent != nil:
		currency = parent.Currency
	case currency == "":
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountCurrencyRequired,
			"a top-level account needs a currency",
			domainerror.ErrAccountCurrencyRequired,
		)
	case parent != nil && !strings.EqualFold(currency, parent.Currency):
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountCurrencyMismatch,
			fmt.Sprintf("parent account is kept in %s, not %s", parent.Currency, currency),
			domainerror.ErrAccountCurrencyMismatch,
		)
	}

	account := entity.NewAccount(name, parent, entity.AccountType(input.Type), currency, input.Description)

	// Check if the full name is already taken
	exists, err := uc.accountRepo.ExistsByFullName(ctx, account.FullName)
	if err != nil {
		return nil, fmt.Errorf("failed to check account name existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountNameExists,
			fmt.Sprintf("an account named %q already exists", account.FullName),
			domainerror.ErrAccountNameExists,
		)
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &CreateAccountOutput{
		Account: account,
	}, nil
}
