package persistence

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.LedgerTransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewLedgerTransactionRepository creates a new transaction repository instance.
func NewLedgerTransactionRepository(db *gorm.DB) adapter.LedgerTransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction and its splits in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.LedgerTransaction) error {
	transactionModel := model.LedgerTransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction with its splits by ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerTransaction, error) {
	var transactionModel model.LedgerTransactionModel
	result := r.db.WithContext(ctx).
		Preload("Splits").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDWithAccounts retrieves a transaction with its splits and the
// accounts they post to.
func (r *transactionRepository) FindByIDWithAccounts(ctx context.Context, id uuid.UUID) (*entity.TransactionWithSplits, error) {
	transaction, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	accounts, err := r.loadAccountsForSplits(ctx, []*entity.LedgerTransaction{transaction})
	if err != nil {
		return nil, err
	}

	return &entity.TransactionWithSplits{
		Transaction: transaction,
		Accounts:    accounts,
	}, nil
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.LedgerTransactionModel{})

	// Apply filters
	if filter.AccountID != nil {
		splitQuery := r.db.Model(&model.SplitModel{}).
			Select("transaction_id").
			Where("account_id = ?", *filter.AccountID)
		query = query.Where("id IN (?)", splitQuery)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(description) LIKE ?", searchPattern)
	}

	// Get total count
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	// Calculate pagination
	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	// Fetch transactions with splits preloaded
	var transactionModels []model.LedgerTransactionModel
	result := query.
		Preload("Splits").
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.LedgerTransaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}

	accounts, err := r.loadAccountsForSplits(ctx, transactions)
	if err != nil {
		return nil, err
	}

	withSplits := make([]*entity.TransactionWithSplits, len(transactions))
	for i, transaction := range transactions {
		withSplits[i] = &entity.TransactionWithSplits{
			Transaction: transaction,
			Accounts:    accounts,
		}
	}

	return &entity.TransactionListResult{
		Transactions: withSplits,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// loadAccountsForSplits fetches the accounts referenced by the splits of the
// given transactions, keyed by account ID.
func (r *transactionRepository) loadAccountsForSplits(ctx context.Context, transactions []*entity.LedgerTransaction) (map[uuid.UUID]*entity.Account, error) {
	seen := make(map[uuid.UUID]bool)
	accountIDs := []uuid.UUID{}
	for _, transaction := range transactions {
		for _, split := range transaction.Splits {
			if !seen[split.AccountID] {
				seen[split.AccountID] = true
				accountIDs = append(accountIDs, split.AccountID)
			}
		}
	}

	accounts := make(map[uuid.UUID]*entity.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	var accountModels []model.AccountModel
	if err := r.db.WithContext(ctx).Where("id IN ?", accountIDs).Find(&accountModels).Error; err != nil {
		return nil, err
	}
	for i := range accountModels {
		accounts[accountModels[i].ID] = accountModels[i].ToEntity()
	}
	return accounts, nil
}

// Update updates a transaction and replaces its splits.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.LedgerTransaction) error {
	transactionModel := model.LedgerTransactionFromEntity(transaction)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.LedgerTransactionModel{}).
			Where("id = ?", transactionModel.ID).
			Updates(map[string]interface{}{
				"date":        transactionModel.Date,
				"description": transactionModel.Description,
				"currency":    transactionModel.Currency,
				"updated_at":  transactionModel.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}

		keptIDs := make([]uuid.UUID, 0, len(transactionModel.Splits))
		for i := range transactionModel.Splits {
			keptIDs = append(keptIDs, transactionModel.Splits[i].ID)
		}

		deleteQuery := tx.Where("transaction_id = ?", transactionModel.ID)
		if len(keptIDs) > 0 {
			deleteQuery = deleteQuery.Where("id NOT IN ?", keptIDs)
		}
		if err := deleteQuery.Delete(&model.SplitModel{}).Error; err != nil {
			return err
		}

		for i := range transactionModel.Splits {
			if err := tx.Save(&transactionModel.Splits[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTransactionDate moves a transaction to a new date without touching
// its splits.
func (r *transactionRepository) UpdateTransactionDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.LedgerTransactionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date":       date,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Delete soft-deletes a transaction. The external references held by its
// splits are released so the same feed items can be imported again.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.SplitModel{}).
			Where("transaction_id = ?", id).
			Update("external_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.LedgerTransactionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
}

// splitWithTransactionRow is the scan target for split queries joined with
// the transactions table.
type splitWithTransactionRow struct {
	ID             uuid.UUID
	TransactionID  uuid.UUID
	AccountID      uuid.UUID
	Amount         decimal.Decimal
	Memo           string
	ReconcileState string
	ExternalID     *string
	Counterparty   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Date           time.Time
	Description    string
}

func (row *splitWithTransactionRow) toSplitWithTransaction() *adapter.SplitWithTransaction {
	return &adapter.SplitWithTransaction{
		Split: &entity.Split{
			ID:             row.ID,
			TransactionID:  row.TransactionID,
			AccountID:      row.AccountID,
			Amount:         row.Amount,
			Memo:           row.Memo,
			ReconcileState: entity.ReconcileState(row.ReconcileState),
			ExternalID:     row.ExternalID,
			Counterparty:   row.Counterparty,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		},
		Date:        row.Date,
		Description: row.Description,
	}
}

// FindSplitsByAccount retrieves every split posted to the account with its
// transaction date and description, oldest first.
func (r *transactionRepository) FindSplitsByAccount(ctx context.Context, accountID uuid.UUID) ([]*adapter.SplitWithTransaction, error) {
	var rows []splitWithTransactionRow
	err := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Select("splits.id, splits.transaction_id, splits.account_id, splits.amount, splits.memo, splits.reconcile_state, splits.external_id, splits.counterparty, splits.created_at, splits.updated_at, transactions.date, transactions.description").
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("splits.account_id = ?", accountID).
		Where("transactions.deleted_at IS NULL").
		Order("transactions.date ASC, splits.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	splits := make([]*adapter.SplitWithTransaction, len(rows))
	for i := range rows {
		splits[i] = rows[i].toSplitWithTransaction()
	}
	return splits, nil
}

// FindSplitByID retrieves a single split.
func (r *transactionRepository) FindSplitByID(ctx context.Context, id uuid.UUID) (*entity.Split, error) {
	var splitModel model.SplitModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&splitModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSplitNotFound
		}
		return nil, result.Error
	}
	return splitModel.ToEntity(), nil
}

// FindSplitByExternalID retrieves the split on the account carrying the given
// external reference.
func (r *transactionRepository) FindSplitByExternalID(ctx context.Context, accountID uuid.UUID, externalID string) (*entity.Split, error) {
	var splitModel model.SplitModel
	result := r.db.WithContext(ctx).
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("splits.account_id = ?", accountID).
		Where("splits.external_id = ?", externalID).
		Where("transactions.deleted_at IS NULL").
		First(&splitModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSplitNotFound
		}
		return nil, result.Error
	}
	return splitModel.ToEntity(), nil
}

// FindLatestByCounterparty retrieves the most recent transaction that has a
// referenced split on the account recorded against the counterparty.
func (r *transactionRepository) FindLatestByCounterparty(ctx context.Context, accountID uuid.UUID, counterparty string) (*entity.LedgerTransaction, error) {
	var transactionModel model.LedgerTransactionModel
	result := r.db.WithContext(ctx).
		Preload("Splits").
		Joins("INNER JOIN splits ON splits.transaction_id = transactions.id").
		Where("splits.account_id = ?", accountID).
		Where("splits.counterparty = ?", counterparty).
		Where("splits.external_id IS NOT NULL").
		Order("transactions.date DESC, transactions.created_at DESC").
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// UpdateSplit saves changes to a single split.
func (r *transactionRepository) UpdateSplit(ctx context.Context, split *entity.Split) error {
	splitModel := model.SplitFromEntity(split)
	result := r.db.WithContext(ctx).Save(splitModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrSplitNotFound
	}
	return nil
}

// imbalanceTransactionIDs builds a subquery selecting transaction IDs that
// post to a fallback account.
func (r *transactionRepository) imbalanceTransactionIDs() *gorm.DB {
	return r.db.Model(&model.SplitModel{}).
		Select("splits.transaction_id").
		Joins("INNER JOIN accounts ON accounts.id = splits.account_id").
		Where("accounts.full_name LIKE ?", entity.ImbalanceAccountPrefix+"%").
		Where("accounts.deleted_at IS NULL")
}

// FindImbalanceTransactions retrieves transactions that post to a fallback
// account, oldest first.
func (r *transactionRepository) FindImbalanceTransactions(ctx context.Context, limit int) ([]*entity.LedgerTransaction, error) {
	var transactionModels []model.LedgerTransactionModel
	query := r.db.WithContext(ctx).
		Preload("Splits").
		Where("id IN (?)", r.imbalanceTransactionIDs()).
		Order("date ASC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.LedgerTransaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}

// CountImbalanceTransactions counts transactions that post to a fallback account.
func (r *transactionRepository) CountImbalanceTransactions(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerTransactionModel{}).
		Where("id IN (?)", r.imbalanceTransactionIDs()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ReassignImbalanceSplits moves the fallback splits of the given transactions
// to the account, returning how many splits moved.
func (r *transactionRepository) ReassignImbalanceSplits(ctx context.Context, transactionIDs []uuid.UUID, accountID uuid.UUID) (int64, error) {
	if len(transactionIDs) == 0 {
		return 0, nil
	}

	imbalanceAccountIDs := r.db.Model(&model.AccountModel{}).
		Select("accounts.id").
		Where("accounts.full_name LIKE ?", entity.ImbalanceAccountPrefix+"%").
		Where("accounts.deleted_at IS NULL")

	result := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Where("transaction_id IN ?", transactionIDs).
		Where("account_id IN (?)", imbalanceAccountIDs).
		Updates(map[string]interface{}{
			"account_id": accountID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindMatchingCounterparties finds referenced splits whose counterparty
// matches the given regex pattern. The pattern is evaluated in Go with the
// same case-insensitive compile the importer uses for payee rules, so a
// tested pattern behaves exactly like a saved one.
func (r *transactionRepository) FindMatchingCounterparties(ctx context.Context, pattern string, limit int) (*entity.PatternTestResult, error) {
	matcher, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, domainerror.ErrInvalidPattern
	}

	var rows []splitWithTransactionRow
	err = r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("splits.counterparty IS NOT NULL").
		Where("transactions.deleted_at IS NULL").
		Select("splits.id, splits.counterparty, splits.amount, transactions.date, transactions.description").
		Order("transactions.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matching := make([]*entity.MatchingSplit, 0, limit)
	total := 0
	for i := range rows {
		if rows[i].Counterparty == nil || !matcher.MatchString(*rows[i].Counterparty) {
			continue
		}
		total++
		if len(matching) >= limit {
			continue
		}
		matching = append(matching, &entity.MatchingSplit{
			ID:           rows[i].ID,
			Counterparty: *rows[i].Counterparty,
			Description:  rows[i].Description,
			Amount:       rows[i].Amount.StringFixed(2),
			Date:         rows[i].Date,
		})
	}

	return &entity.PatternTestResult{
		MatchingSplits: matching,
		MatchCount:     total,
	}, nil
}

// SumByAccountType sums split amounts per account type between two dates.
func (r *transactionRepository) SumByAccountType(ctx context.Context, start, end time.Time) (map[entity.AccountType]decimal.Decimal, error) {
	var rows []struct {
		Type  string          `gorm:"column:type"`
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Select("accounts.type as type, COALESCE(SUM(splits.amount), 0) as total").
		Joins("INNER JOIN accounts ON accounts.id = splits.account_id").
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("transactions.date >= ? AND transactions.date <= ?", start, end).
		Where("transactions.deleted_at IS NULL").
		Where("accounts.deleted_at IS NULL").
		Group("accounts.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[entity.AccountType]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[entity.AccountType(row.Type)] = row.Total
	}
	return totals, nil
}

// CountCreatedBetween counts transactions dated between two dates.
func (r *transactionRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerTransactionModel{}).
		Where("date >= ? AND date <= ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
