// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/usecase/report"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// reportRepository implements the report.ReportRepository interface.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance.
func NewReportRepository(db *gorm.DB) report.ReportRepository {
	return &reportRepository{
		db: db,
	}
}

// GetAccountActivity returns one row per split dated within the window.
// Month bucketing happens in the use case so the query stays portable
// across the postgres and sqlite dialects.
func (r *reportRepository) GetAccountActivity(
	ctx context.Context,
	startDate, endDate time.Time,
	accountID *uuid.UUID,
) ([]report.RawActivityRow, error) {
	var rows []struct {
		Date        time.Time       `gorm:"column:date"`
		AccountID   uuid.UUID       `gorm:"column:account_id"`
		AccountName string          `gorm:"column:account_name"`
		Amount      decimal.Decimal `gorm:"column:amount"`
	}

	query := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Select("transactions.date as date, splits.account_id as account_id, accounts.full_name as account_name, splits.amount as amount").
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Joins("INNER JOIN accounts ON accounts.id = splits.account_id").
		Where("transactions.date >= ? AND transactions.date <= ?", startDate, endDate).
		Where("transactions.deleted_at IS NULL").
		Where("accounts.deleted_at IS NULL")

	if accountID != nil {
		query = query.Where("splits.account_id = ?", *accountID)
	}

	err := query.Order("transactions.date").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get account activity: %w", err)
	}

	result := make([]report.RawActivityRow, len(rows))
	for i, row := range rows {
		result[i] = report.RawActivityRow{
			Date:        row.Date,
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			Amount:      row.Amount,
		}
	}
	return result, nil
}
