// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// AccountLinkModel represents the account_links table in the database.
type AccountLinkModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	LedgerAccountID uuid.UUID      `gorm:"type:uuid;not null;index"`
	RequisitionID   *uuid.UUID     `gorm:"type:uuid;index"`
	BankAccountID   string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	InstitutionID   string         `gorm:"type:varchar(100);not null"`
	Alias           string         `gorm:"type:varchar(100)"`
	DateBasis       string         `gorm:"type:varchar(20);not null;default:'bookingDate'"`
	SyncEnabled     bool           `gorm:"not null;default:true"`
	LastSyncedAt    *time.Time     `gorm:"type:timestamp"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
	DeletedAt       gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	LedgerAccount *AccountModel     `gorm:"foreignKey:LedgerAccountID;references:ID"`
	Requisition   *RequisitionModel `gorm:"foreignKey:RequisitionID;references:ID"`
}

// TableName returns the table name for the AccountLinkModel.
func (AccountLinkModel) TableName() string {
	return "account_links"
}

// ToEntity converts an AccountLinkModel to a domain AccountLink entity.
func (m *AccountLinkModel) ToEntity() *entity.AccountLink {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.AccountLink{
		ID:              m.ID,
		LedgerAccountID: m.LedgerAccountID,
		RequisitionID:   m.RequisitionID,
		BankAccountID:   m.BankAccountID,
		InstitutionID:   m.InstitutionID,
		Alias:           m.Alias,
		DateBasis:       entity.DateBasis(m.DateBasis),
		SyncEnabled:     m.SyncEnabled,
		LastSyncedAt:    m.LastSyncedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// ToEntityWithAccount converts an AccountLinkModel with its ledger account.
func (m *AccountLinkModel) ToEntityWithAccount() *entity.AccountLinkWithAccount {
	result := &entity.AccountLinkWithAccount{
		Link: m.ToEntity(),
	}

	if m.LedgerAccount != nil {
		result.Account = m.LedgerAccount.ToEntity()
	}

	return result
}

// AccountLinkFromEntity creates an AccountLinkModel from a domain AccountLink entity.
func AccountLinkFromEntity(link *entity.AccountLink) *AccountLinkModel {
	var deletedAt gorm.DeletedAt
	if link.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *link.DeletedAt, Valid: true}
	}

	return &AccountLinkModel{
		ID:              link.ID,
		LedgerAccountID: link.LedgerAccountID,
		RequisitionID:   link.RequisitionID,
		BankAccountID:   link.BankAccountID,
		InstitutionID:   link.InstitutionID,
		Alias:           link.Alias,
		DateBasis:       string(link.DateBasis),
		SyncEnabled:     link.SyncEnabled,
		LastSyncedAt:    link.LastSyncedAt,
		CreatedAt:       link.CreatedAt,
		UpdatedAt:       link.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}
