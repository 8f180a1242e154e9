package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// feedTokenRepository implements the adapter.FeedTokenRepository interface.
// The table holds at most one row, replaced on every save.
type feedTokenRepository struct {
	db *gorm.DB
}

// NewFeedTokenRepository creates a new feed token repository instance.
func NewFeedTokenRepository(db *gorm.DB) adapter.FeedTokenRepository {
	return &feedTokenRepository{
		db: db,
	}
}

// Get retrieves the stored token pair.
func (r *feedTokenRepository) Get(ctx context.Context) (*entity.FeedToken, error) {
	var tokenModel model.FeedTokenModel
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&tokenModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrFeedTokenNotFound
		}
		return nil, result.Error
	}
	return tokenModel.ToEntity(), nil
}

// Save inserts or replaces the stored token pair.
func (r *feedTokenRepository) Save(ctx context.Context, token *entity.FeedToken) error {
	tokenModel := model.FeedTokenFromEntity(token)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id <> ?", tokenModel.ID).Delete(&model.FeedTokenModel{}).Error; err != nil {
			return err
		}
		return tx.Save(tokenModel).Error
	})
}

// Delete removes the stored token pair.
func (r *feedTokenRepository) Delete(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.FeedTokenModel{}).Error
}
