package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// splitQuery builds the base query joining splits with their transactions
// and accounts.
func (r *reconciliationRepository) splitQuery(ctx context.Context, accountID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("splits s").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Joins("INNER JOIN accounts a ON a.id = s.account_id")
	if accountID != nil {
		query = query.Where("s.account_id = ?", *accountID)
	}
	return query
}

// GetPendingSplits retrieves splits that carry no external reference, oldest first.
func (r *reconciliationRepository) GetPendingSplits(
	ctx context.Context,
	accountID *uuid.UUID,
	limit int,
	offset int,
) ([]adapter.PendingSplitData, int64, error) {
	query := r.splitQuery(ctx, accountID).
		Where("s.external_id IS NULL")

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []adapter.PendingSplitData
	err := query.
		Select(`
			s.id as split_id,
			s.transaction_id,
			s.account_id,
			a.full_name as account_name,
			t.date,
			t.description,
			s.memo,
			s.amount,
			s.reconcile_state
		`).
		Order("t.date ASC, s.created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetLinkedSplits retrieves splits that carry an external reference, newest first.
func (r *reconciliationRepository) GetLinkedSplits(
	ctx context.Context,
	accountID *uuid.UUID,
	limit int,
	offset int,
) ([]adapter.LinkedSplitData, int64, error) {
	query := r.splitQuery(ctx, accountID).
		Where("s.external_id IS NOT NULL")

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []adapter.LinkedSplitData
	err := query.
		Select(`
			s.id as split_id,
			s.transaction_id,
			s.account_id,
			a.full_name as account_name,
			t.date,
			t.description,
			s.memo,
			s.amount,
			s.reconcile_state,
			s.external_id,
			s.counterparty
		`).
		Order("t.date DESC, s.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// FindReferenceCandidates finds referenced splits on the account with the
// same amount inside the date range.
func (r *reconciliationRepository) FindReferenceCandidates(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
	dateRange adapter.DateRange,
) ([]adapter.CandidateSplitData, error) {
	var results []adapter.CandidateSplitData

	err := r.db.WithContext(ctx).
		Table("splits s").
		Select(`
			s.id as split_id,
			s.transaction_id,
			t.date,
			t.description,
			s.amount,
			s.external_id,
			s.counterparty
		`).
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.account_id = ?", accountID).
		Where("s.external_id IS NOT NULL").
		Where("s.amount = ?", amount).
		Where("t.date >= ? AND t.date <= ?", dateRange.Start, dateRange.End).
		Order("t.date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// TallyReconcileStates counts an account's splits per reconcile state.
func (r *reconciliationRepository) TallyReconcileStates(ctx context.Context, accountID uuid.UUID) (*adapter.ReconcileTallyData, error) {
	var results []struct {
		ReconcileState string
		Count          int64
	}
	err := r.db.WithContext(ctx).
		Table("splits s").
		Select("s.reconcile_state, COUNT(*) as count").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.account_id = ?", accountID).
		Group("s.reconcile_state").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	tally := &adapter.ReconcileTallyData{}
	for _, result := range results {
		switch entity.ReconcileState(result.ReconcileState) {
		case entity.ReconcileStateNew:
			tally.New = result.Count
		case entity.ReconcileStateCleared:
			tally.Cleared = result.Count
		case entity.ReconcileStateReconciled:
			tally.Reconciled = result.Count
		}
	}

	err = r.db.WithContext(ctx).
		Table("splits s").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.account_id = ?", accountID).
		Where("s.external_id IS NOT NULL").
		Count(&tally.Referenced).Error
	if err != nil {
		return nil, err
	}

	return tally, nil
}

// GetReconciliationSummary retrieves summary statistics for reconciliation.
func (r *reconciliationRepository) GetReconciliationSummary(ctx context.Context) (*adapter.ReconciliationSummaryData, error) {
	summary := &adapter.ReconciliationSummaryData{}

	var pending int64
	err := r.db.WithContext(ctx).
		Table("splits s").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.external_id IS NULL").
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	summary.TotalPending = int(pending)

	var linked int64
	err = r.db.WithContext(ctx).
		Table("splits s").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.external_id IS NOT NULL").
		Count(&linked).Error
	if err != nil {
		return nil, err
	}
	summary.TotalLinked = int(linked)

	var reconciled int64
	err = r.db.WithContext(ctx).
		Table("splits s").
		Joins("INNER JOIN transactions t ON t.id = s.transaction_id AND t.deleted_at IS NULL").
		Where("s.reconcile_state = ?", string(entity.ReconcileStateReconciled)).
		Count(&reconciled).Error
	if err != nil {
		return nil, err
	}
	summary.TotalReconciled = int(reconciled)

	var conflicts int64
	err = r.db.WithContext(ctx).
		Model(&model.DiscrepancyModel{}).
		Where("status = ?", string(entity.DiscrepancyStatusOpen)).
		Count(&conflicts).Error
	if err != nil {
		return nil, err
	}
	summary.OpenConflicts = int(conflicts)

	return summary, nil
}
