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

// discrepancyRepository implements the adapter.DiscrepancyRepository interface.
type discrepancyRepository struct {
	db *gorm.DB
}

// NewDiscrepancyRepository creates a new discrepancy repository instance.
func NewDiscrepancyRepository(db *gorm.DB) adapter.DiscrepancyRepository {
	return &discrepancyRepository{
		db: db,
	}
}

// Create creates a new discrepancy in the database.
func (r *discrepancyRepository) Create(ctx context.Context, discrepancy *entity.Discrepancy) error {
	discrepancyModel := model.DiscrepancyFromEntity(discrepancy)
	result := r.db.WithContext(ctx).Create(discrepancyModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a discrepancy by its ID.
func (r *discrepancyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Discrepancy, error) {
	var discrepancyModel model.DiscrepancyModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&discrepancyModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDiscrepancyNotFound
		}
		return nil, result.Error
	}
	return discrepancyModel.ToEntity(), nil
}

// FindOpenByLink retrieves the open discrepancy for a link.
func (r *discrepancyRepository) FindOpenByLink(ctx context.Context, accountLinkID uuid.UUID) (*entity.Discrepancy, error) {
	var discrepancyModel model.DiscrepancyModel
	result := r.db.WithContext(ctx).
		Where("account_link_id = ?", accountLinkID).
		Where("status = ?", string(entity.DiscrepancyStatusOpen)).
		Order("detected_at DESC").
		First(&discrepancyModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDiscrepancyNotFound
		}
		return nil, result.Error
	}
	return discrepancyModel.ToEntity(), nil
}

// FindByStatus retrieves discrepancies in the given status with their links
// and accounts, newest first. An empty status covers all.
func (r *discrepancyRepository) FindByStatus(ctx context.Context, status entity.DiscrepancyStatus) ([]*entity.DiscrepancyWithLink, error) {
	query := r.db.WithContext(ctx).
		Preload("AccountLink").
		Preload("AccountLink.LedgerAccount").
		Order("detected_at DESC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var discrepancyModels []model.DiscrepancyModel
	if err := query.Find(&discrepancyModels).Error; err != nil {
		return nil, err
	}

	discrepancies := make([]*entity.DiscrepancyWithLink, len(discrepancyModels))
	for i := range discrepancyModels {
		discrepancies[i] = discrepancyModels[i].ToEntityWithLink()
	}
	return discrepancies, nil
}

// CountOpen counts open discrepancies.
func (r *discrepancyRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.DiscrepancyModel{}).
		Where("status = ?", string(entity.DiscrepancyStatusOpen)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Update updates an existing discrepancy in the database.
func (r *discrepancyRepository) Update(ctx context.Context, discrepancy *entity.Discrepancy) error {
	discrepancyModel := model.DiscrepancyFromEntity(discrepancy)
	result := r.db.WithContext(ctx).Save(discrepancyModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrDiscrepancyNotFound
	}
	return nil
}
