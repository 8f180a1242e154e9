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

// aiSuggestionRepository implements the adapter.AISuggestionRepository interface.
type aiSuggestionRepository struct {
	db *gorm.DB
}

// NewAISuggestionRepository creates a new AI suggestion repository instance.
func NewAISuggestionRepository(db *gorm.DB) adapter.AISuggestionRepository {
	return &aiSuggestionRepository{
		db: db,
	}
}

// Create creates a new suggestion in the database.
func (r *aiSuggestionRepository) Create(ctx context.Context, suggestion *entity.AccountSuggestion) error {
	suggestionModel := model.AccountSuggestionFromEntity(suggestion)
	result := r.db.WithContext(ctx).Create(suggestionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CreateBatch creates multiple suggestions in a single transaction.
func (r *aiSuggestionRepository) CreateBatch(ctx context.Context, suggestions []*entity.AccountSuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	models := make([]*model.AccountSuggestionModel, len(suggestions))
	for i, s := range suggestions {
		models[i] = model.AccountSuggestionFromEntity(s)
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, 100)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetByID retrieves a suggestion by its ID.
func (r *aiSuggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AccountSuggestion, error) {
	var suggestionModel model.AccountSuggestionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&suggestionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAISuggestionNotFound
		}
		return nil, result.Error
	}
	return suggestionModel.ToEntity(), nil
}

// GetByIDWithDetails retrieves a suggestion with all related details.
func (r *aiSuggestionRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*entity.AccountSuggestionWithDetails, error) {
	var suggestionModel model.AccountSuggestionModel
	result := r.db.WithContext(ctx).
		Preload("Transaction").
		Preload("Transaction.Splits").
		Preload("Account").
		Where("id = ?", id).
		First(&suggestionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAISuggestionNotFound
		}
		return nil, result.Error
	}
	return suggestionModel.ToEntityWithDetails(), nil
}

// GetPending retrieves all pending suggestions with details, oldest first.
func (r *aiSuggestionRepository) GetPending(ctx context.Context) ([]*entity.AccountSuggestionWithDetails, error) {
	var suggestionModels []model.AccountSuggestionModel
	result := r.db.WithContext(ctx).
		Preload("Transaction").
		Preload("Transaction.Splits").
		Preload("Account").
		Where("status = ?", string(entity.SuggestionStatusPending)).
		Order("created_at ASC").
		Find(&suggestionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	// Collect all unique affected transaction IDs from all suggestions
	transactionIDSet := make(map[uuid.UUID]struct{})
	for _, sm := range suggestionModels {
		for _, idStr := range sm.AffectedTransactionIDs {
			if id, err := uuid.Parse(idStr); err == nil {
				transactionIDSet[id] = struct{}{}
			}
		}
	}

	// Fetch all affected transactions in one batch query
	transactionMap := make(map[uuid.UUID]*model.LedgerTransactionModel)
	if len(transactionIDSet) > 0 {
		allTransactionIDs := make([]uuid.UUID, 0, len(transactionIDSet))
		for id := range transactionIDSet {
			allTransactionIDs = append(allTransactionIDs, id)
		}

		var transactions []model.LedgerTransactionModel
		if err := r.db.WithContext(ctx).
			Preload("Splits").
			Where("id IN ?", allTransactionIDs).
			Find(&transactions).Error; err != nil {
			return nil, err
		}

		for i := range transactions {
			transactionMap[transactions[i].ID] = &transactions[i]
		}
	}

	suggestions := make([]*entity.AccountSuggestionWithDetails, len(suggestionModels))
	for i := range suggestionModels {
		suggestions[i] = suggestionModels[i].ToEntityWithDetailsAndTransactions(transactionMap)
	}
	return suggestions, nil
}

// GetPendingCount retrieves the count of pending suggestions.
func (r *aiSuggestionRepository) GetPendingCount(ctx context.Context) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.AccountSuggestionModel{}).
		Where("status = ?", string(entity.SuggestionStatusPending)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}

// Update updates an existing suggestion in the database.
func (r *aiSuggestionRepository) Update(ctx context.Context, suggestion *entity.AccountSuggestion) error {
	suggestionModel := model.AccountSuggestionFromEntity(suggestion)
	result := r.db.WithContext(ctx).Save(suggestionModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAISuggestionNotFound
	}
	return nil
}

// DeleteByID deletes a suggestion by its ID.
func (r *aiSuggestionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&model.AccountSuggestionModel{})
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeletePending deletes all pending suggestions.
func (r *aiSuggestionRepository) DeletePending(ctx context.Context) (int, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("status = ?", string(entity.SuggestionStatusPending)).
		Delete(&model.AccountSuggestionModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// ExistsPending checks if there are any pending suggestions.
func (r *aiSuggestionRepository) ExistsPending(ctx context.Context) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.AccountSuggestionModel{}).
		Where("status = ?", string(entity.SuggestionStatusPending)).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
