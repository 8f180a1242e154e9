// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index"`
	Name        string         `gorm:"type:varchar(100);not null"`
	FullName    string         `gorm:"type:varchar(500);not null;uniqueIndex"`
	Type        string         `gorm:"type:varchar(10);not null;index"`
	Currency    string         `gorm:"type:varchar(3);not null"`
	Description string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Parent *AccountModel `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Account{
		ID:          m.ID,
		ParentID:    m.ParentID,
		Name:        m.Name,
		FullName:    m.FullName,
		Type:        entity.AccountType(m.Type),
		Currency:    m.Currency,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	var deletedAt gorm.DeletedAt
	if account.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *account.DeletedAt, Valid: true}
	}

	return &AccountModel{
		ID:          account.ID,
		ParentID:    account.ParentID,
		Name:        account.Name,
		FullName:    account.FullName,
		Type:        string(account.Type),
		Currency:    account.Currency,
		Description: account.Description,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}
