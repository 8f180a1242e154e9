// Package report contains ledger activity report use cases.
package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

type fakeReportRepo struct {
	rows       []RawActivityRow
	gotStart   time.Time
	gotEnd     time.Time
	gotAccount *uuid.UUID
	err        error
}

func (r *fakeReportRepo) GetAccountActivity(ctx context.Context, startDate, endDate time.Time, accountID *uuid.UUID) ([]RawActivityRow, error) {
	r.gotStart = startDate
	r.gotEnd = endDate
	r.gotAccount = accountID
	return r.rows, r.err
}

type fakeTotalsRepo struct {
	adapter.LedgerTransactionRepository

	sums  map[entity.AccountType]decimal.Decimal
	count int64
}

func (r *fakeTotalsRepo) SumByAccountType(ctx context.Context, start, end time.Time) (map[entity.AccountType]decimal.Decimal, error) {
	return r.sums, nil
}

func (r *fakeTotalsRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return r.count, nil
}

func TestGetActivity_Execute(t *testing.T) {
	ctx := context.Background()
	thisMonth := monthStart(time.Now().UTC())

	t.Run("defaults to a six month window ending this month", func(t *testing.T) {
		repo := &fakeReportRepo{}
		uc := NewGetActivityUseCase(repo, &fakeTotalsRepo{})

		output, err := uc.Execute(ctx, GetActivityInput{})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Months) != DefaultMonths {
			t.Fatalf("len(Months) = %d, want %d", len(output.Months), DefaultMonths)
		}
		if got, want := output.Months[0].Month, thisMonth.AddDate(0, -5, 0).Format(monthKeyFormat); got != want {
			t.Errorf("first month = %q, want %q", got, want)
		}
		if got, want := output.Months[5].Month, thisMonth.Format(monthKeyFormat); got != want {
			t.Errorf("last month = %q, want %q", got, want)
		}
		if !repo.gotStart.Equal(output.Period.StartDate) {
			t.Errorf("repository window start = %v, want %v", repo.gotStart, output.Period.StartDate)
		}
		for _, month := range output.Months {
			if !month.Inflow.IsZero() || !month.Outflow.IsZero() || len(month.Accounts) != 0 {
				t.Errorf("empty month %s not zero-filled: %+v", month.Month, month)
			}
		}
	})

	t.Run("buckets splits by month and account", func(t *testing.T) {
		checking := uuid.New()
		groceries := uuid.New()
		previous := thisMonth.AddDate(0, -1, 0)

		repo := &fakeReportRepo{rows: []RawActivityRow{
			{Date: previous.AddDate(0, 0, 2), AccountID: checking, AccountName: "Assets:Checking", Amount: decimal.NewFromFloat(-42.10)},
			{Date: previous.AddDate(0, 0, 2), AccountID: groceries, AccountName: "Expenses:Groceries", Amount: decimal.NewFromFloat(42.10)},
			{Date: previous.AddDate(0, 0, 9), AccountID: checking, AccountName: "Assets:Checking", Amount: decimal.NewFromFloat(1200)},
			{Date: thisMonth.AddDate(0, 0, 1), AccountID: checking, AccountName: "Assets:Checking", Amount: decimal.NewFromFloat(-7.50)},
		}}
		uc := NewGetActivityUseCase(repo, &fakeTotalsRepo{})

		output, err := uc.Execute(ctx, GetActivityInput{Months: 2})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Months) != 2 {
			t.Fatalf("len(Months) = %d, want 2", len(output.Months))
		}

		first := output.Months[0]
		if len(first.Accounts) != 2 {
			t.Fatalf("len(first.Accounts) = %d, want 2", len(first.Accounts))
		}
		// Sorted by account name, so Checking before Groceries.
		if first.Accounts[0].AccountName != "Assets:Checking" {
			t.Errorf("first account = %q, want Assets:Checking", first.Accounts[0].AccountName)
		}
		if got := first.Accounts[0].Inflow.StringFixed(2); got != "1200.00" {
			t.Errorf("checking inflow = %s, want 1200.00", got)
		}
		if got := first.Accounts[0].Outflow.StringFixed(2); got != "42.10" {
			t.Errorf("checking outflow = %s, want 42.10", got)
		}
		if got := first.Accounts[0].Net.StringFixed(2); got != "1157.90" {
			t.Errorf("checking net = %s, want 1157.90", got)
		}
		if first.Accounts[0].SplitCount != 2 {
			t.Errorf("checking split count = %d, want 2", first.Accounts[0].SplitCount)
		}
		if got := first.Inflow.StringFixed(2); got != "1242.10" {
			t.Errorf("month inflow = %s, want 1242.10", got)
		}
		if got := first.Outflow.StringFixed(2); got != "42.10" {
			t.Errorf("month outflow = %s, want 42.10", got)
		}

		second := output.Months[1]
		if len(second.Accounts) != 1 || second.Accounts[0].SplitCount != 1 {
			t.Errorf("second month accounts = %+v, want one checking split", second.Accounts)
		}
	})

	t.Run("rejects an out of range window", func(t *testing.T) {
		uc := NewGetActivityUseCase(&fakeReportRepo{}, &fakeTotalsRepo{})

		for _, months := range []int{-1, MaxMonths + 1} {
			_, err := uc.Execute(ctx, GetActivityInput{Months: months})
			var reportErr *domainerror.ReportError
			if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeInvalidMonths {
				t.Errorf("Execute(months=%d) error = %v, want code %s", months, err, domainerror.ErrCodeInvalidMonths)
			}
		}
	})

	t.Run("includes window totals for the unfiltered report", func(t *testing.T) {
		totals := &fakeTotalsRepo{
			sums: map[entity.AccountType]decimal.Decimal{
				entity.AccountTypeAsset:   decimal.NewFromFloat(-99.5),
				entity.AccountTypeExpense: decimal.NewFromFloat(99.5),
			},
			count: 7,
		}
		uc := NewGetActivityUseCase(&fakeReportRepo{}, totals)

		output, err := uc.Execute(ctx, GetActivityInput{Months: 1})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Totals == nil {
			t.Fatal("Totals = nil, want window totals")
		}
		if output.Totals.TransactionCount != 7 {
			t.Errorf("TransactionCount = %d, want 7", output.Totals.TransactionCount)
		}
		if got := output.Totals.ByType["expense"]; got != "99.50" {
			t.Errorf("ByType[expense] = %q, want 99.50", got)
		}
	})

	t.Run("omits totals and passes the filter for a single account", func(t *testing.T) {
		accountID := uuid.New()
		repo := &fakeReportRepo{}
		uc := NewGetActivityUseCase(repo, &fakeTotalsRepo{})

		output, err := uc.Execute(ctx, GetActivityInput{Months: 3, AccountID: &accountID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Totals != nil {
			t.Errorf("Totals = %+v, want nil for a filtered report", output.Totals)
		}
		if repo.gotAccount == nil || *repo.gotAccount != accountID {
			t.Errorf("repository filter = %v, want %s", repo.gotAccount, accountID)
		}
	})
}
