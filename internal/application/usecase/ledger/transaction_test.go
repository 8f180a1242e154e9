// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

type transactionFixture struct {
	accountRepo     *fakeAccountRepo
	transactionRepo *fakeTransactionRepo
	checking        *entity.Account
	groceries       *entity.Account
}

func newTransactionFixture() *transactionFixture {
	accountRepo := newFakeAccountRepo()
	return &transactionFixture{
		accountRepo:     accountRepo,
		transactionRepo: newFakeTransactionRepo(),
		checking:        accountRepo.add(entity.NewAccount("Checking", nil, entity.AccountTypeAsset, "EUR", "")),
		groceries:       accountRepo.add(entity.NewAccount("Groceries", nil, entity.AccountTypeExpense, "EUR", "")),
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateTransaction_Execute(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("creates a balanced transaction without an imbalance split", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		output, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: "Weekly shop",
			Splits: []SplitInput{
				{AccountID: f.checking.ID, Amount: amount("-42.80")},
				{AccountID: f.groceries.ID, Amount: amount("42.80")},
			},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		transaction := output.Transaction
		if len(transaction.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(transaction.Splits))
		}
		if !transaction.IsBalanced() {
			t.Error("transaction does not balance")
		}
		if transaction.Currency != "EUR" {
			t.Errorf("Currency = %q, want derived %q", transaction.Currency, "EUR")
		}
		for _, split := range transaction.Splits {
			if split.TransactionID != transaction.ID {
				t.Errorf("split %s not stamped with the transaction ID", split.ID)
			}
		}
		if len(f.transactionRepo.created) != 1 {
			t.Errorf("created %d transactions, want 1", len(f.transactionRepo.created))
		}
	})

	t.Run("balances a one-sided transaction with an imbalance split", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		output, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: "Opening balance",
			Splits: []SplitInput{
				{AccountID: f.checking.ID, Amount: amount("1000.00")},
			},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		transaction := output.Transaction
		if len(transaction.Splits) != 2 {
			t.Fatalf("got %d splits, want the submitted split plus the imbalance split", len(transaction.Splits))
		}
		if !transaction.IsBalanced() {
			t.Error("transaction does not balance after the imbalance split")
		}
		fallback := transaction.Splits[1]
		if !fallback.Amount.Equal(amount("-1000.00")) {
			t.Errorf("imbalance amount = %s, want -1000.00", fallback.Amount)
		}
		imbalance, ok := f.accountRepo.imbalances["EUR"]
		if !ok {
			t.Fatal("Imbalance-EUR account was not created")
		}
		if fallback.AccountID != imbalance.ID {
			t.Error("imbalance split posted to the wrong account")
		}
	})

	t.Run("rejects a transaction without splits", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{Date: date, Description: "Empty"})
		if !errors.Is(err, domainerror.ErrTransactionNeedsSplits) {
			t.Errorf("Execute() error = %v, want ErrTransactionNeedsSplits", err)
		}
	})

	t.Run("rejects a zero date", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{
			Description: "No date",
			Splits:      []SplitInput{{AccountID: f.checking.ID, Amount: amount("1.00")}},
		})
		if !errors.Is(err, domainerror.ErrInvalidTransactionDate) {
			t.Errorf("Execute() error = %v, want ErrInvalidTransactionDate", err)
		}
	})

	t.Run("rejects an unknown split account", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: "Ghost",
			Splits:      []SplitInput{{AccountID: uuid.New(), Amount: amount("1.00")}},
		})
		if !errors.Is(err, domainerror.ErrSplitAccountNotFound) {
			t.Errorf("Execute() error = %v, want ErrSplitAccountNotFound", err)
		}
	})

	t.Run("rejects splits across different currencies", func(t *testing.T) {
		f := newTransactionFixture()
		dollar := f.accountRepo.add(entity.NewAccount("Travel", nil, entity.AccountTypeExpense, "USD", ""))
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: "Mixed",
			Splits: []SplitInput{
				{AccountID: f.checking.ID, Amount: amount("-10.00")},
				{AccountID: dollar.ID, Amount: amount("10.00")},
			},
		})
		if !errors.Is(err, domainerror.ErrAccountCurrencyMismatch) {
			t.Errorf("Execute() error = %v, want ErrAccountCurrencyMismatch", err)
		}
	})

	t.Run("rejects an overlong description", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: strings.Repeat("x", MaxDescriptionLength+1),
			Splits:      []SplitInput{{AccountID: f.checking.ID, Amount: amount("1.00")}},
		})
		if !errors.Is(err, domainerror.ErrDescriptionTooLong) {
			t.Errorf("Execute() error = %v, want ErrDescriptionTooLong", err)
		}
	})

	t.Run("rejects an overlong memo", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewCreateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, CreateTransactionInput{
			Date:        date,
			Description: "Memo",
			Splits: []SplitInput{
				{AccountID: f.checking.ID, Amount: amount("1.00"), Memo: strings.Repeat("x", MaxMemoLength+1)},
			},
		})
		if !errors.Is(err, domainerror.ErrMemoTooLong) {
			t.Errorf("Execute() error = %v, want ErrMemoTooLong", err)
		}
	})
}

func TestUpdateTransaction_Execute(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	newSaved := func(f *transactionFixture) *entity.LedgerTransaction {
		splits := []*entity.Split{
			entity.NewSplit(f.checking.ID, amount("-42.80"), ""),
			entity.NewSplit(f.groceries.ID, amount("42.80"), ""),
		}
		return f.transactionRepo.add(entity.NewLedgerTransaction(date, "Weekly shop", "EUR", splits))
	}

	t.Run("updates the description and date without touching splits", func(t *testing.T) {
		f := newTransactionFixture()
		saved := newSaved(f)
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		description := "Saturday shop"
		moved := date.AddDate(0, 0, 2)
		output, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: saved.ID,
			Description:   &description,
			Date:          &moved,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Transaction.Description != description {
			t.Errorf("Description = %q, want %q", output.Transaction.Description, description)
		}
		if !output.Transaction.Date.Equal(moved) {
			t.Errorf("Date = %s, want %s", output.Transaction.Date, moved)
		}
		if len(output.Transaction.Splits) != 2 {
			t.Errorf("got %d splits, want the original 2", len(output.Transaction.Splits))
		}
		if len(f.transactionRepo.updated) != 1 {
			t.Errorf("updated %d transactions, want 1", len(f.transactionRepo.updated))
		}
	})

	t.Run("replaces the splits and rebalances", func(t *testing.T) {
		f := newTransactionFixture()
		saved := newSaved(f)
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		output, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: saved.ID,
			Splits: []SplitInput{
				{AccountID: f.checking.ID, Amount: amount("-50.00")},
			},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		transaction := output.Transaction
		if len(transaction.Splits) != 2 {
			t.Fatalf("got %d splits, want the new split plus the imbalance split", len(transaction.Splits))
		}
		if !transaction.IsBalanced() {
			t.Error("transaction does not balance after replacement")
		}
		for _, split := range transaction.Splits {
			if split.TransactionID != transaction.ID {
				t.Errorf("split %s not stamped with the transaction ID", split.ID)
			}
		}
	})

	t.Run("refuses to replace splits holding a bank reference", func(t *testing.T) {
		f := newTransactionFixture()
		saved := newSaved(f)
		saved.Splits[0].SetExternalReference("feed-item-1", "COFFEE SHOP")
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: saved.ID,
			Splits:        []SplitInput{{AccountID: f.checking.ID, Amount: amount("-1.00")}},
		})
		if !errors.Is(err, domainerror.ErrSplitReconciled) {
			t.Errorf("Execute() error = %v, want ErrSplitReconciled", err)
		}
	})

	t.Run("refuses to replace reconciled splits", func(t *testing.T) {
		f := newTransactionFixture()
		saved := newSaved(f)
		saved.Splits[1].MarkReconciled()
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: saved.ID,
			Splits:        []SplitInput{{AccountID: f.checking.ID, Amount: amount("-1.00")}},
		})
		if !errors.Is(err, domainerror.ErrSplitReconciled) {
			t.Errorf("Execute() error = %v, want ErrSplitReconciled", err)
		}
	})

	t.Run("still updates the date when a split is reconciled", func(t *testing.T) {
		f := newTransactionFixture()
		saved := newSaved(f)
		saved.Splits[0].MarkReconciled()
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		moved := date.AddDate(0, 0, 1)
		output, err := uc.Execute(ctx, UpdateTransactionInput{TransactionID: saved.ID, Date: &moved})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Transaction.Date.Equal(moved) {
			t.Errorf("Date = %s, want %s", output.Transaction.Date, moved)
		}
	})

	t.Run("reports a missing transaction", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewUpdateTransactionUseCase(f.transactionRepo, f.accountRepo)

		_, err := uc.Execute(ctx, UpdateTransactionInput{TransactionID: uuid.New()})
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("Execute() error = %v, want ErrTransactionNotFound", err)
		}
	})
}

func TestDeleteTransaction_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing transaction", func(t *testing.T) {
		f := newTransactionFixture()
		saved := f.transactionRepo.add(entity.NewLedgerTransaction(
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "Weekly shop", "EUR",
			[]*entity.Split{entity.NewSplit(f.checking.ID, amount("-5.00"), "")},
		))
		uc := NewDeleteTransactionUseCase(f.transactionRepo)

		output, err := uc.Execute(ctx, DeleteTransactionInput{TransactionID: saved.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Success {
			t.Error("Success = false, want true")
		}
		if len(f.transactionRepo.deleted) != 1 || f.transactionRepo.deleted[0] != saved.ID {
			t.Errorf("deleted = %v, want [%s]", f.transactionRepo.deleted, saved.ID)
		}
	})

	t.Run("reports a missing transaction", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewDeleteTransactionUseCase(f.transactionRepo)

		_, err := uc.Execute(ctx, DeleteTransactionInput{TransactionID: uuid.New()})
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("Execute() error = %v, want ErrTransactionNotFound", err)
		}
	})
}

func TestListTransactions_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps pagination to sane bounds", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewListTransactionsUseCase(f.transactionRepo)

		if _, err := uc.Execute(ctx, ListTransactionsInput{Page: 0, Limit: 0}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if f.transactionRepo.lastPagination.Page != 1 {
			t.Errorf("Page = %d, want 1", f.transactionRepo.lastPagination.Page)
		}
		if f.transactionRepo.lastPagination.Limit != defaultTransactionsLimit {
			t.Errorf("Limit = %d, want default %d", f.transactionRepo.lastPagination.Limit, defaultTransactionsLimit)
		}

		if _, err := uc.Execute(ctx, ListTransactionsInput{Page: 2, Limit: 9999}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if f.transactionRepo.lastPagination.Limit != maxTransactionsLimit {
			t.Errorf("Limit = %d, want clamped %d", f.transactionRepo.lastPagination.Limit, maxTransactionsLimit)
		}
	})

	t.Run("passes the filter through", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewListTransactionsUseCase(f.transactionRepo)

		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		if _, err := uc.Execute(ctx, ListTransactionsInput{
			AccountID: &f.checking.ID,
			StartDate: &start,
			Search:    "  shop  ",
		}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if f.transactionRepo.lastFilter.AccountID == nil || *f.transactionRepo.lastFilter.AccountID != f.checking.ID {
			t.Error("account filter not passed through")
		}
		if f.transactionRepo.lastFilter.Search != "shop" {
			t.Errorf("Search = %q, want trimmed %q", f.transactionRepo.lastFilter.Search, "shop")
		}
	})
}

func TestGetTransaction_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the transaction with splits", func(t *testing.T) {
		f := newTransactionFixture()
		saved := f.transactionRepo.add(entity.NewLedgerTransaction(
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "Weekly shop", "EUR",
			[]*entity.Split{entity.NewSplit(f.checking.ID, amount("-5.00"), "")},
		))
		uc := NewGetTransactionUseCase(f.transactionRepo)

		output, err := uc.Execute(ctx, GetTransactionInput{TransactionID: saved.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Transaction.Transaction.ID != saved.ID {
			t.Errorf("returned transaction %s, want %s", output.Transaction.Transaction.ID, saved.ID)
		}
	})

	t.Run("reports a missing transaction", func(t *testing.T) {
		f := newTransactionFixture()
		uc := NewGetTransactionUseCase(f.transactionRepo)

		_, err := uc.Execute(ctx, GetTransactionInput{TransactionID: uuid.New()})
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("Execute() error = %v, want ErrTransactionNotFound", err)
		}
	})
}
