// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func TestCreateAccount_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a top-level account", func(t *testing.T) {
		repo := newFakeAccountRepo()
		uc := NewCreateAccountUseCase(repo)

		output, err := uc.Execute(ctx, CreateAccountInput{
			Name:     "Assets",
			Type:     "asset",
			Currency: "eur",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Account.FullName != "Assets" {
			t.Errorf("FullName = %q, want %q", output.Account.FullName, "Assets")
		}
		if output.Account.Currency != "EUR" {
			t.Errorf("Currency = %q, want uppercased %q", output.Account.Currency, "EUR")
		}
		if len(repo.created) != 1 {
			t.Errorf("created %d accounts, want 1", len(repo.created))
		}
	})

	t.Run("builds the full name under the parent and inherits its currency", func(t *testing.T) {
		repo := newFakeAccountRepo()
		parent := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		uc := NewCreateAccountUseCase(repo)

		output, err := uc.Execute(ctx, CreateAccountInput{
			Name:     "Checking",
			ParentID: &parent.ID,
			Type:     "asset",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Account.FullName != "Assets:Checking" {
			t.Errorf("FullName = %q, want %q", output.Account.FullName, "Assets:Checking")
		}
		if output.Account.Currency != "EUR" {
			t.Errorf("Currency = %q, want inherited %q", output.Account.Currency, "EUR")
		}
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		uc := NewCreateAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "   ", Type: "asset", Currency: "EUR"})
		if !errors.Is(err, domainerror.ErrInvalidAccountName) {
			t.Errorf("Execute() error = %v, want ErrInvalidAccountName", err)
		}
	})

	t.Run("rejects a name containing the separator", func(t *testing.T) {
		uc := NewCreateAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "Assets:Checking", Type: "asset", Currency: "EUR"})
		if !errors.Is(err, domainerror.ErrInvalidAccountName) {
			t.Errorf("Execute() error = %v, want ErrInvalidAccountName", err)
		}
	})

	t.Run("rejects an unknown account type", func(t *testing.T) {
		uc := NewCreateAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "Assets", Type: "savings", Currency: "EUR"})
		if !errors.Is(err, domainerror.ErrInvalidAccountType) {
			t.Errorf("Execute() error = %v, want ErrInvalidAccountType", err)
		}
	})

	t.Run("rejects a missing parent", func(t *testing.T) {
		uc := NewCreateAccountUseCase(newFakeAccountRepo())
		missing := uuid.New()

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "Checking", ParentID: &missing, Type: "asset"})
		if !errors.Is(err, domainerror.ErrParentAccountNotFound) {
			t.Errorf("Execute() error = %v, want ErrParentAccountNotFound", err)
		}
	})

	t.Run("rejects a top-level account without a currency", func(t *testing.T) {
		uc := NewCreateAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "Assets", Type: "asset"})
		if !errors.Is(err, domainerror.ErrAccountCurrencyRequired) {
			t.Errorf("Execute() error = %v, want ErrAccountCurrencyRequired", err)
		}
	})

	t.Run("rejects a currency that disagrees with the parent", func(t *testing.T) {
		repo := newFakeAccountRepo()
		parent := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		uc := NewCreateAccountUseCase(repo)

		_, err := uc.Execute(ctx, CreateAccountInput{
			Name:     "Checking",
			ParentID: &parent.ID,
			Type:     "asset",
			Currency: "USD",
		})
		if !errors.Is(err, domainerror.ErrAccountCurrencyMismatch) {
			t.Errorf("Execute() error = %v, want ErrAccountCurrencyMismatch", err)
		}
	})

	t.Run("rejects a duplicate full name", func(t *testing.T) {
		repo := newFakeAccountRepo()
		repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		uc := NewCreateAccountUseCase(repo)

		_, err := uc.Execute(ctx, CreateAccountInput{Name: "Assets", Type: "asset", Currency: "EUR"})
		if !errors.Is(err, domainerror.ErrAccountNameExists) {
			t.Errorf("Execute() error = %v, want ErrAccountNameExists", err)
		}
	})
}

func TestListAccounts_Execute(t *testing.T) {
	ctx := context.Background()

	repo := newFakeAccountRepo()
	assets := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
	checking := repo.add(entity.NewAccount("Checking", assets, entity.AccountTypeAsset, "EUR", ""))
	repo.balances[checking.ID] = decimal.RequireFromString("120.50")
	uc := NewListAccountsUseCase(repo)

	output, err := uc.Execute(ctx, ListAccountsInput{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(output.Accounts) != 2 {
		t.Fatalf("listed %d accounts, want 2", len(output.Accounts))
	}
	if output.Accounts[0].Account.FullName != "Assets" {
		t.Errorf("first account = %q, want parent before child", output.Accounts[0].Account.FullName)
	}
	if !output.Accounts[1].Balance.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("checking balance = %s, want 120.50", output.Accounts[1].Balance)
	}
	if !output.Accounts[0].Balance.IsZero() {
		t.Errorf("assets balance = %s, want zero for an account without splits", output.Accounts[0].Balance)
	}
}

func TestUpdateAccount_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("renames a leaf account and rebuilds its full name", func(t *testing.T) {
		repo := newFakeAccountRepo()
		assets := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		checking := repo.add(entity.NewAccount("Checking", assets, entity.AccountTypeAsset, "EUR", ""))
		uc := NewUpdateAccountUseCase(repo)

		name := "Current Account"
		output, err := uc.Execute(ctx, UpdateAccountInput{AccountID: checking.ID, Name: &name})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Account.FullName != "Assets:Current Account" {
			t.Errorf("FullName = %q, want %q", output.Account.FullName, "Assets:Current Account")
		}
		if len(repo.updated) != 1 {
			t.Errorf("updated %d accounts, want 1", len(repo.updated))
		}
	})

	t.Run("refuses to rename an account with children", func(t *testing.T) {
		repo := newFakeAccountRepo()
		assets := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		repo.add(entity.NewAccount("Checking", assets, entity.AccountTypeAsset, "EUR", ""))
		uc := NewUpdateAccountUseCase(repo)

		name := "Wealth"
		_, err := uc.Execute(ctx, UpdateAccountInput{AccountID: assets.ID, Name: &name})
		if !errors.Is(err, domainerror.ErrAccountHasChildren) {
			t.Errorf("Execute() error = %v, want ErrAccountHasChildren", err)
		}
	})

	t.Run("updates the description of an account with children", func(t *testing.T) {
		repo := newFakeAccountRepo()
		assets := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		repo.add(entity.NewAccount("Checking", assets, entity.AccountTypeAsset, "EUR", ""))
		uc := NewUpdateAccountUseCase(repo)

		description := "Everything we own"
		output, err := uc.Execute(ctx, UpdateAccountInput{AccountID: assets.ID, Description: &description})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Account.Description != description {
			t.Errorf("Description = %q, want %q", output.Account.Description, description)
		}
	})

	t.Run("refuses a rename onto an existing name", func(t *testing.T) {
		repo := newFakeAccountRepo()
		repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		expenses := repo.add(entity.NewAccount("Expenses", nil, entity.AccountTypeExpense, "EUR", ""))
		uc := NewUpdateAccountUseCase(repo)

		name := "Assets"
		_, err := uc.Execute(ctx, UpdateAccountInput{AccountID: expenses.ID, Name: &name})
		if !errors.Is(err, domainerror.ErrAccountNameExists) {
			t.Errorf("Execute() error = %v, want ErrAccountNameExists", err)
		}
	})

	t.Run("reports a missing account", func(t *testing.T) {
		uc := NewUpdateAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, UpdateAccountInput{AccountID: uuid.New()})
		if !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Errorf("Execute() error = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestDeleteAccount_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an account without children or splits", func(t *testing.T) {
		repo := newFakeAccountRepo()
		account := repo.add(entity.NewAccount("Scratch", nil, entity.AccountTypeExpense, "EUR", ""))
		uc := NewDeleteAccountUseCase(repo)

		output, err := uc.Execute(ctx, DeleteAccountInput{AccountID: account.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Success {
			t.Error("Success = false, want true")
		}
		if len(repo.deleted) != 1 || repo.deleted[0] != account.ID {
			t.Errorf("deleted = %v, want [%s]", repo.deleted, account.ID)
		}
	})

	t.Run("refuses an account with children", func(t *testing.T) {
		repo := newFakeAccountRepo()
		assets := repo.add(entity.NewAccount("Assets", nil, entity.AccountTypeAsset, "EUR", ""))
		repo.add(entity.NewAccount("Checking", assets, entity.AccountTypeAsset, "EUR", ""))
		uc := NewDeleteAccountUseCase(repo)

		_, err := uc.Execute(ctx, DeleteAccountInput{AccountID: assets.ID})
		if !errors.Is(err, domainerror.ErrAccountHasChildren) {
			t.Errorf("Execute() error = %v, want ErrAccountHasChildren", err)
		}
	})

	t.Run("refuses an account with splits posted to it", func(t *testing.T) {
		repo := newFakeAccountRepo()
		account := repo.add(entity.NewAccount("Groceries", nil, entity.AccountTypeExpense, "EUR", ""))
		repo.withSplits[account.ID] = true
		uc := NewDeleteAccountUseCase(repo)

		_, err := uc.Execute(ctx, DeleteAccountInput{AccountID: account.ID})
		if !errors.Is(err, domainerror.ErrAccountHasSplits) {
			t.Errorf("Execute() error = %v, want ErrAccountHasSplits", err)
		}
	})

	t.Run("reports a missing account", func(t *testing.T) {
		uc := NewDeleteAccountUseCase(newFakeAccountRepo())

		_, err := uc.Execute(ctx, DeleteAccountInput{AccountID: uuid.New()})
		if !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Errorf("Execute() error = %v, want ErrAccountNotFound", err)
		}
	})
}
