package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// accountLinkRepository implements the adapter.AccountLinkRepository interface.
type accountLinkRepository struct {
	db *gorm.DB
}

// NewAccountLinkRepository creates a new account link repository instance.
func NewAccountLinkRepository(db *gorm.DB) adapter.AccountLinkRepository {
	return &accountLinkRepository{
		db: db,
	}
}

// Create creates a new account link in the database.
func (r *accountLinkRepository) Create(ctx context.Context, link *entity.AccountLink) error {
	linkModel := model.AccountLinkFromEntity(link)
	result := r.db.WithContext(ctx).Create(linkModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an account link by its ID.
func (r *accountLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AccountLink, error) {
	var linkModel model.AccountLinkModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&linkModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountLinkNotFound
		}
		return nil, result.Error
	}
	return linkModel.ToEntity(), nil
}

// FindByIDWithAccount retrieves an account link with its ledger account.
func (r *accountLinkRepository) FindByIDWithAccount(ctx context.Context, id uuid.UUID) (*entity.AccountLinkWithAccount, error) {
	var linkModel model.AccountLinkModel
	result := r.db.WithContext(ctx).
		Preload("LedgerAccount").
		Where("id = ?", id).
		First(&linkModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountLinkNotFound
		}
		return nil, result.Error
	}
	return linkModel.ToEntityWithAccount(), nil
}

// FindAll retrieves all account links with their ledger accounts.
func (r *accountLinkRepository) FindAll(ctx context.Context) ([]*entity.AccountLinkWithAccount, error) {
	var linkModels []model.AccountLinkModel
	result := r.db.WithContext(ctx).
		Preload("LedgerAccount").
		Order("created_at ASC").
		Find(&linkModels)
	if result.Error != nil {
		return nil, result.Error
	}

	links := make([]*entity.AccountLinkWithAccount, len(linkModels))
	for i := range linkModels {
		links[i] = linkModels[i].ToEntityWithAccount()
	}
	return links, nil
}

// FindSyncEnabled retrieves all links with syncing enabled.
func (r *accountLinkRepository) FindSyncEnabled(ctx context.Context) ([]*entity.AccountLink, error) {
	var linkModels []model.AccountLinkModel
	result := r.db.WithContext(ctx).
		Where("sync_enabled = ?", true).
		Order("created_at ASC").
		Find(&linkModels)
	if result.Error != nil {
		return nil, result.Error
	}

	links := make([]*entity.AccountLink, len(linkModels))
	for i := range linkModels {
		links[i] = linkModels[i].ToEntity()
	}
	return links, nil
}

// FindByBankAccountID retrieves the link for a provider-side bank account.
func (r *accountLinkRepository) FindByBankAccountID(ctx context.Context, bankAccountID string) (*entity.AccountLink, error) {
	var linkModel model.AccountLinkModel
	result := r.db.WithContext(ctx).Where("bank_account_id = ?", bankAccountID).First(&linkModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountLinkNotFound
		}
		return nil, result.Error
	}
	return linkModel.ToEntity(), nil
}

// FindByLedgerAccountID retrieves the link for a ledger account.
func (r *accountLinkRepository) FindByLedgerAccountID(ctx context.Context, ledgerAccountID uuid.UUID) (*entity.AccountLink, error) {
	var linkModel model.AccountLinkModel
	result := r.db.WithContext(ctx).Where("ledger_account_id = ?", ledgerAccountID).First(&linkModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountLinkNotFound
		}
		return nil, result.Error
	}
	return linkModel.ToEntity(), nil
}

// Update updates an existing account link in the database.
func (r *accountLinkRepository) Update(ctx context.Context, link *entity.AccountLink) error {
	linkModel := model.AccountLinkFromEntity(link)
	result := r.db.WithContext(ctx).Save(linkModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountLinkNotFound
	}
	return nil
}

// Delete soft-deletes an account link from the database.
func (r *accountLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.AccountLinkModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountLinkNotFound
	}
	return nil
}
