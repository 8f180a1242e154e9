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

// syncRunRepository implements the adapter.SyncRunRepository interface.
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new sync run repository instance.
func NewSyncRunRepository(db *gorm.DB) adapter.SyncRunRepository {
	return &syncRunRepository{
		db: db,
	}
}

// Create creates a new sync run in the database.
func (r *syncRunRepository) Create(ctx context.Context, run *entity.SyncRun) error {
	runModel := model.SyncRunFromEntity(run)
	result := r.db.WithContext(ctx).Create(runModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a sync run by its ID.
func (r *syncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SyncRun, error) {
	var runModel model.SyncRunModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&runModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSyncRunNotFound
		}
		return nil, result.Error
	}
	return runModel.ToEntity(), nil
}

// FindRecent retrieves the most recent sync runs with their links, newest first.
func (r *syncRunRepository) FindRecent(ctx context.Context, limit int) ([]*entity.SyncRunWithLink, error) {
	var runModels []model.SyncRunModel
	query := r.db.WithContext(ctx).
		Preload("AccountLink").
		Preload("AccountLink.LedgerAccount").
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]*entity.SyncRunWithLink, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToEntityWithLink()
	}
	return runs, nil
}

// FindByLink retrieves the most recent sync runs for one link, newest first.
func (r *syncRunRepository) FindByLink(ctx context.Context, accountLinkID uuid.UUID, limit int) ([]*entity.SyncRun, error) {
	var runModels []model.SyncRunModel
	query := r.db.WithContext(ctx).
		Where("account_link_id = ?", accountLinkID).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]*entity.SyncRun, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToEntity()
	}
	return runs, nil
}

// FindLatestByLink retrieves the most recent sync run for one link.
func (r *syncRunRepository) FindLatestByLink(ctx context.Context, accountLinkID uuid.UUID) (*entity.SyncRun, error) {
	var runModel model.SyncRunModel
	result := r.db.WithContext(ctx).
		Where("account_link_id = ?", accountLinkID).
		Order("started_at DESC").
		First(&runModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSyncRunNotFound
		}
		return nil, result.Error
	}
	return runModel.ToEntity(), nil
}

// HasRunning checks whether any sync run is currently marked running.
func (r *syncRunRepository) HasRunning(ctx context.Context) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.SyncRunModel{}).
		Where("status = ?", string(entity.SyncRunStatusRunning)).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Update updates an existing sync run in the database.
func (r *syncRunRepository) Update(ctx context.Context, run *entity.SyncRun) error {
	runModel := model.SyncRunFromEntity(run)
	result := r.db.WithContext(ctx).Save(runModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrSyncRunNotFound
	}
	return nil
}
