package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
)

// payeeRuleRepository implements the adapter.PayeeRuleRepository interface.
type payeeRuleRepository struct {
	db *gorm.DB
}

// NewPayeeRuleRepository creates a new payee rule repository instance.
func NewPayeeRuleRepository(db *gorm.DB) adapter.PayeeRuleRepository {
	return &payeeRuleRepository{
		db: db,
	}
}

// Create creates a new payee rule in the database.
func (r *payeeRuleRepository) Create(ctx context.Context, rule *entity.PayeeRule) error {
	ruleModel := model.PayeeRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Create(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a payee rule by its ID.
func (r *payeeRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PayeeRule, error) {
	var ruleModel model.PayeeRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPayeeRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindByIDWithAccount retrieves a payee rule with its offsetting account by ID.
func (r *payeeRuleRepository) FindByIDWithAccount(ctx context.Context, id uuid.UUID) (*entity.PayeeRuleWithAccount, error) {
	var ruleModel model.PayeeRuleModel
	result := r.db.WithContext(ctx).
		Preload("Account").
		Where("id = ?", id).
		First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPayeeRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntityWithAccount(), nil
}

// FindAll retrieves all payee rules, sorted by priority (descending).
func (r *payeeRuleRepository) FindAll(ctx context.Context) ([]*entity.PayeeRule, error) {
	var ruleModels []model.PayeeRuleModel
	result := r.db.WithContext(ctx).
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.PayeeRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// FindAllWithAccounts retrieves all payee rules with their offsetting accounts.
func (r *payeeRuleRepository) FindAllWithAccounts(ctx context.Context) ([]*entity.PayeeRuleWithAccount, error) {
	var ruleModels []model.PayeeRuleModel
	result := r.db.WithContext(ctx).
		Preload("Account").
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.PayeeRuleWithAccount, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntityWithAccount()
	}
	return rules, nil
}

// FindActive retrieves only active payee rules, sorted by priority (descending).
func (r *payeeRuleRepository) FindActive(ctx context.Context) ([]*entity.PayeeRule, error) {
	var ruleModels []model.PayeeRuleModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.PayeeRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// Update updates an existing payee rule in the database.
func (r *payeeRuleRepository) Update(ctx context.Context, rule *entity.PayeeRule) error {
	ruleModel := model.PayeeRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Save(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPayeeRuleNotFound
	}
	return nil
}

// Delete removes a payee rule from the database (hard delete), so the same
// pattern can be recreated later.
func (r *payeeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.PayeeRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPayeeRuleNotFound
	}
	return nil
}

// ExistsByPattern checks if a rule with the given pattern exists.
func (r *payeeRuleRepository) ExistsByPattern(ctx context.Context, pattern string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.PayeeRuleModel{}).
		Where("pattern = ?", pattern).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ExistsByPatternExcluding checks if a rule with the given pattern exists,
// excluding a specific rule ID (used for updates).
func (r *payeeRuleRepository) ExistsByPatternExcluding(ctx context.Context, pattern string, excludeID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.PayeeRuleModel{}).
		Where("pattern = ? AND id != ?", pattern, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// UpdatePriorities updates the priorities for multiple rules in a batch operation.
func (r *payeeRuleRepository) UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, update := range updates {
			result := tx.Model(&model.PayeeRuleModel{}).
				Where("id = ?", update.ID).
				Updates(map[string]interface{}{
					"priority":   update.Priority,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// GetMaxPriority gets the maximum priority value across all rules.
func (r *payeeRuleRepository) GetMaxPriority(ctx context.Context) (int, error) {
	var maxPriority *int
	result := r.db.WithContext(ctx).
		Model(&model.PayeeRuleModel{}).
		Select("COALESCE(MAX(priority), 0)").
		Scan(&maxPriority)

	if result.Error != nil {
		return 0, result.Error
	}

	if maxPriority == nil {
		return 0, nil
	}
	return *maxPriority, nil
}
