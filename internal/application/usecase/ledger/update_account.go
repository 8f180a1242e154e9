// Package ledger contains ledger account and transaction use cases.
package ledger

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

// UpdateAccountInput represents the input for account update. The type and
// currency of an account are fixed at creation.
type UpdateAccountInput struct {
	AccountID   uuid.UUID
	Name        *string // Optional
	Description *string // Optional
}

// UpdateAccountOutput represents the output of account update.
type UpdateAccountOutput struct {
	Account *entity.Account
}

// UpdateAccountUseCase handles account update logic.
type UpdateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewUpdateAccountUseCase creates a new UpdateAccountUseCase instance.
func NewUpdateAccountUseCase(accountRepo adapter.AccountRepository) *UpdateAccountUseCase {
	return &UpdateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account update.
func (uc *UpdateAccountUseCase) Execute(ctx context.Context, input UpdateAccountInput) (*UpdateAccountOutput, error) {
	// Find the existing account
	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeAccountNotFound,
				"account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Update name if provided
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateAccountName(name); err != nil {
			return nil, err
		}

		if name != account.Name {
			// Children embed this account's name in their full names, so a
			// rename would orphan them.
			hasChildren, err := uc.accountRepo.HasChildren(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check for child accounts: %w", err)
			}
			if hasChildren {
				return nil, domainerror.NewAccountError(
					domainerror.ErrCodeAccountHasChildren,
					"cannot rename an account that has child accounts",
					domainerror.ErrAccountHasChildren,
				)
			}

			fullName, err := uc.resolveFullName(ctx, account, name)
			if err != nil {
				return nil, err
			}

			exists, err := uc.accountRepo.ExistsByFullName(ctx, fullName)
			if err != nil {
				return nil, fmt.Errorf("failed to check account name existence: %w", err)
			}
			if exists {
				return nil, domainerror.NewAccountError(
					domainerror.ErrCodeAccountNameExists,
					fmt.Sprintf("an account named %q already exists", fullName),
					domainerror.ErrAccountNameExists,
				)
			}

			account.Name = name
			account.FullName = fullName
		}
	}

	// Update description if provided
	if input.Description != nil {
		account.Description = *input.Description
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &UpdateAccountOutput{
		Account: account,
	}, nil
}

// resolveFullName rebuilds the hierarchical name for a renamed account.
func (uc *UpdateAccountUseCase) resolveFullName(ctx context.Context, account *entity.Account, name string) (string, error) {
	if account.ParentID == nil {
		return name, nil
	}
	parent, err := uc.accountRepo.FindByID(ctx, *account.ParentID)
	if err != nil {
		return "", fmt.Errorf("failed to find parent account: %w", err)
	}
	return parent.FullName + entity.AccountNameSeparator + name, nil
}
