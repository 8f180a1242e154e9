// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// accountRepository implements the adapter.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance.
func NewAccountRepository(db *gorm.DB) adapter.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account in the database.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountModel := model.AccountFromEntity(account)
	result := r.db.WithContext(ctx).Create(accountModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an account by its ID.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountModel model.AccountModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&accountModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return accountModel.ToEntity(), nil
}

// FindByFullName retrieves an account by its full hierarchical name.
func (r *accountRepository) FindByFullName(ctx context.Context, fullName string) (*entity.Account, error) {
	var accountModel model.AccountModel
	result := r.db.WithContext(ctx).Where("full_name = ?", fullName).First(&accountModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return accountModel.ToEntity(), nil
}

// FindAll retrieves all accounts ordered by full name.
func (r *accountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	var accountModels []model.AccountModel
	result := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&accountModels)
	if result.Error != nil {
		return nil, result.Error
	}

	accounts := make([]*entity.Account, len(accountModels))
	for i, am := range accountModels {
		accounts[i] = am.ToEntity()
	}
	return accounts, nil
}

// FindChildren retrieves the direct children of an account.
func (r *accountRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Account, error) {
	var accountModels []model.AccountModel
	result := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&accountModels)
	if result.Error != nil {
		return nil, result.Error
	}

	accounts := make([]*entity.Account, len(accountModels))
	for i, am := range accountModels {
		accounts[i] = am.ToEntity()
	}
	return accounts, nil
}

// FindOrCreateImbalance returns the fallback account for a currency, creating
// it on first use.
func (r *accountRepository) FindOrCreateImbalance(ctx context.Context, currency string) (*entity.Account, error) {
	name := entity.ImbalanceAccountName(currency)

	var accountModel model.AccountModel
	result := r.db.WithContext(ctx).Where("full_name = ?", name).First(&accountModel)
	if result.Error == nil {
		return accountModel.ToEntity(), nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	account := entity.NewImbalanceAccount(currency)
	if err := r.db.WithContext(ctx).Create(model.AccountFromEntity(account)).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// Update updates an existing account in the database.
func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountModel := model.AccountFromEntity(account)
	result := r.db.WithContext(ctx).Save(accountModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountNotFound
	}
	return nil
}

// Delete soft-deletes an account from the database.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountNotFound
	}
	return nil
}

// ExistsByFullName checks if an account with the given full name exists.
func (r *accountRepository) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("full_name = ?", fullName).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// HasChildren checks if the account has any child accounts.
func (r *accountRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("parent_id = ?", id).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// HasSplits checks if any splits are posted to the account.
func (r *accountRepository) HasSplits(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Where("account_id = ?", id).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// GetBalance sums the split amounts posted to the account.
func (r *accountRepository) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var balanceResult struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("splits.account_id = ?", id).
		Where("transactions.deleted_at IS NULL").
		Scan(&balanceResult).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balanceResult.Total, nil
}

// GetBalances sums split amounts for all the given accounts at once.
func (r *accountRepository) GetBalances(ctx context.Context, ids []uuid.UUID) ([]*adapter.AccountBalance, error) {
	if len(ids) == 0 {
		return []*adapter.AccountBalance{}, nil
	}

	var rows []struct {
		AccountID uuid.UUID       `gorm:"column:account_id"`
		Total     decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.SplitModel{}).
		Select("splits.account_id, COALESCE(SUM(amount), 0) as total").
		Joins("INNER JOIN transactions ON transactions.id = splits.transaction_id").
		Where("splits.account_id IN ?", ids).
		Where("transactions.deleted_at IS NULL").
		Group("splits.account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balanceByID := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		balanceByID[row.AccountID] = row.Total
	}

	// Accounts without splits still get a zero row
	balances := make([]*adapter.AccountBalance, len(ids))
	for i, id := range ids {
		balances[i] = &adapter.AccountBalance{AccountID: id, Balance: balanceByID[id]}
	}
	return balances, nil
}
