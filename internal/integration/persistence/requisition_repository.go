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

// requisitionRepository implements the adapter.RequisitionRepository interface.
type requisitionRepository struct {
	db *gorm.DB
}

// NewRequisitionRepository creates a new requisition repository instance.
func NewRequisitionRepository(db *gorm.DB) adapter.RequisitionRepository {
	return &requisitionRepository{
		db: db,
	}
}

// Create creates a new requisition in the database.
func (r *requisitionRepository) Create(ctx context.Context, requisition *entity.Requisition) error {
	requisitionModel := model.RequisitionFromEntity(requisition)
	result := r.db.WithContext(ctx).Create(requisitionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a requisition by its ID.
func (r *requisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Requisition, error) {
	var requisitionModel model.RequisitionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&requisitionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRequisitionNotFound
		}
		return nil, result.Error
	}
	return requisitionModel.ToEntity(), nil
}

// FindByProviderID retrieves a requisition by its provider-side identifier.
func (r *requisitionRepository) FindByProviderID(ctx context.Context, providerID string) (*entity.Requisition, error) {
	var requisitionModel model.RequisitionModel
	result := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&requisitionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRequisitionNotFound
		}
		return nil, result.Error
	}
	return requisitionModel.ToEntity(), nil
}

// FindAll retrieves all requisitions, newest first.
func (r *requisitionRepository) FindAll(ctx context.Context) ([]*entity.Requisition, error) {
	var requisitionModels []model.RequisitionModel
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&requisitionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	requisitions := make([]*entity.Requisition, len(requisitionModels))
	for i := range requisitionModels {
		requisitions[i] = requisitionModels[i].ToEntity()
	}
	return requisitions, nil
}

// Update updates an existing requisition in the database.
func (r *requisitionRepository) Update(ctx context.Context, requisition *entity.Requisition) error {
	requisitionModel := model.RequisitionFromEntity(requisition)
	result := r.db.WithContext(ctx).Save(requisitionModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRequisitionNotFound
	}
	return nil
}

// Delete removes a requisition from the database.
func (r *requisitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.RequisitionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRequisitionNotFound
	}
	return nil
}
