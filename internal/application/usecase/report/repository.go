// Package report contains ledger activity report use cases.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	// GetAccountActivity returns one row per split dated within the window,
	// optionally restricted to a single account. Rows are ordered by date.
	GetAccountActivity(
		ctx context.Context,
		startDate, endDate time.Time,
		accountID *uuid.UUID,
	) ([]RawActivityRow, error)
}

// RawActivityRow represents a single split with its account, as read from
// the database.
type RawActivityRow struct {
	Date        time.Time
	AccountID   uuid.UUID
	AccountName string
	Amount      decimal.Decimal
}
