// Package report contains ledger activity report use cases.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

const (
	// DefaultMonths is the window used when the caller does not ask for one.
	DefaultMonths = 6
	// MaxMonths bounds the report window.
	MaxMonths = 24
)

// GetActivityInput represents the input for the activity report.
type GetActivityInput struct {
	// Months is the number of calendar months to cover, ending with the
	// current month. Zero means DefaultMonths.
	Months int

	// AccountID restricts the report to a single ledger account.
	AccountID *uuid.UUID
}

// AccountActivity represents one account's movement within a month.
type AccountActivity struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Net         decimal.Decimal `json:"net"`
	SplitCount  int             `json:"split_count"`
}

// MonthActivity represents all account movement within one calendar month.
type MonthActivity struct {
	Month    string            `json:"month"`
	Label    string            `json:"label"`
	Inflow   decimal.Decimal   `json:"inflow"`
	Outflow  decimal.Decimal   `json:"outflow"`
	Accounts []AccountActivity `json:"accounts"`
}

// ActivityPeriod represents the window the report covers.
type ActivityPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Months    int       `json:"months"`
}

// ActivityTotals represents window-wide totals across all accounts.
type ActivityTotals struct {
	ByType           map[string]string `json:"by_type"`
	TransactionCount int64             `json:"transaction_count"`
}

// GetActivityOutput represents the output of the activity report.
type GetActivityOutput struct {
	Period ActivityPeriod  `json:"period"`
	Months []MonthActivity `json:"months"`

	// Totals is omitted when the report is filtered to one account.
	Totals *ActivityTotals `json:"totals,omitempty"`
}

// GetActivityUseCase builds the monthly inflow/outflow report.
type GetActivityUseCase struct {
	reportRepo      ReportRepository
	transactionRepo adapter.LedgerTransactionRepository
}

// NewGetActivityUseCase creates a new GetActivityUseCase instance.
func NewGetActivityUseCase(
	reportRepo ReportRepository,
	transactionRepo adapter.LedgerTransactionRepository,
) *GetActivityUseCase {
	return &GetActivityUseCase{
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute aggregates split activity into a continuous month series. Months
// without activity appear with zero totals so charts render without gaps.
func (uc *GetActivityUseCase) Execute(ctx context.Context, input GetActivityInput) (*GetActivityOutput, error) {
	months := input.Months
	if months == 0 {
		months = DefaultMonths
	}
	if months < 1 || months > MaxMonths {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidMonths,
			fmt.Sprintf("months must be between 1 and %d", MaxMonths),
			domainerror.ErrInvalidMonths,
		)
	}

	now := time.Now().UTC()
	startDate := monthStart(now).AddDate(0, -(months - 1), 0)
	endDate := monthStart(now).AddDate(0, 1, -1)

	rows, err := uc.reportRepo.GetAccountActivity(ctx, startDate, endDate, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account activity: %w", err)
	}

	// Bucket rows by month, then by account within the month.
	type bucket struct {
		name    string
		inflow  decimal.Decimal
		outflow decimal.Decimal
		count   int
	}
	byMonth := make(map[string]map[uuid.UUID]*bucket)
	for _, row := range rows {
		key := monthStart(row.Date).Format(monthKeyFormat)
		accounts, ok := byMonth[key]
		if !ok {
			accounts = make(map[uuid.UUID]*bucket)
			byMonth[key] = accounts
		}
		b, ok := accounts[row.AccountID]
		if !ok {
			b = &bucket{name: row.AccountName}
			accounts[row.AccountID] = b
		}
		if row.Amount.IsNegative() {
			b.outflow = b.outflow.Add(row.Amount.Abs())
		} else {
			b.inflow = b.inflow.Add(row.Amount)
		}
		b.count++
	}

	series := make([]MonthActivity, 0, months)
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 1, 0) {
		key := current.Format(monthKeyFormat)
		month := MonthActivity{
			Month:    key,
			Label:    current.Format("Jan 2006"),
			Inflow:   decimal.Zero,
			Outflow:  decimal.Zero,
			Accounts: []AccountActivity{},
		}

		for accountID, b := range byMonth[key] {
			month.Inflow = month.Inflow.Add(b.inflow)
			month.Outflow = month.Outflow.Add(b.outflow)
			month.Accounts = append(month.Accounts, AccountActivity{
				AccountID:   accountID.String(),
				AccountName: b.name,
				Inflow:      b.inflow,
				Outflow:     b.outflow,
				Net:         b.inflow.Sub(b.outflow),
				SplitCount:  b.count,
			})
		}
		sort.Slice(month.Accounts, func(i, j int) bool {
			return month.Accounts[i].AccountName < month.Accounts[j].AccountName
		})

		series = append(series, month)
	}

	output := &GetActivityOutput{
		Period: ActivityPeriod{
			StartDate: startDate,
			EndDate:   endDate,
			Months:    months,
		},
		Months: series,
	}

	// Window-wide totals only make sense for the unfiltered report.
	if input.AccountID == nil {
		totals, err := uc.windowTotals(ctx, startDate, endDate)
		if err != nil {
			return nil, err
		}
		output.Totals = totals
	}

	return output, nil
}

func (uc *GetActivityUseCase) windowTotals(ctx context.Context, startDate, endDate time.Time) (*ActivityTotals, error) {
	sums, err := uc.transactionRepo.SumByAccountType(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum activity by account type: %w", err)
	}
	count, err := uc.transactionRepo.CountCreatedBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	byType := make(map[string]string, len(sums))
	for accountType, total := range sums {
		byType[string(accountType)] = total.StringFixed(2)
	}
	return &ActivityTotals{
		ByType:           byType,
		TransactionCount: count,
	}, nil
}

const monthKeyFormat = "2006-01"

// monthStart returns midnight UTC on the first day of the date's month.
func monthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}
