// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// PayeeRuleModel represents the payee_rules table in the database.
type PayeeRuleModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Pattern     string         `gorm:"type:varchar(255);not null"`
	AccountID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Description string         `gorm:"type:varchar(255)"`
	Priority    int            `gorm:"not null;default:0;index"`
	IsActive    bool           `gorm:"not null;default:true"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Account *AccountModel `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for the PayeeRuleModel.
func (PayeeRuleModel) TableName() string {
	return "payee_rules"
}

// ToEntity converts a PayeeRuleModel to a domain PayeeRule entity.
func (m *PayeeRuleModel) ToEntity() *entity.PayeeRule {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.PayeeRule{
		ID:          m.ID,
		Pattern:     m.Pattern,
		AccountID:   m.AccountID,
		Description: m.Description,
		Priority:    m.Priority,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// ToEntityWithAccount converts a PayeeRuleModel with its offsetting account.
func (m *PayeeRuleModel) ToEntityWithAccount() *entity.PayeeRuleWithAccount {
	result := &entity.PayeeRuleWithAccount{
		Rule: m.ToEntity(),
	}

	if m.Account != nil {
		result.Account = m.Account.ToEntity()
	}

	return result
}

// PayeeRuleFromEntity creates a PayeeRuleModel from a domain PayeeRule entity.
func PayeeRuleFromEntity(rule *entity.PayeeRule) *PayeeRuleModel {
	var deletedAt gorm.DeletedAt
	if rule.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *rule.DeletedAt, Valid: true}
	}

	return &PayeeRuleModel{
		ID:          rule.ID,
		Pattern:     rule.Pattern,
		AccountID:   rule.AccountID,
		Description: rule.Description,
		Priority:    rule.Priority,
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}
