// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// DiscrepancyModel represents the discrepancies table in the database.
type DiscrepancyModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountLinkID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LedgerBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BankBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Difference    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'open';index"`
	Note          string          `gorm:"type:text"`
	ResolvedAt    *time.Time      `gorm:"type:timestamp"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	AccountLink *AccountLinkModel `gorm:"foreignKey:AccountLinkID;references:ID"`
}

// TableName returns the table name for the DiscrepancyModel.
func (DiscrepancyModel) TableName() string {
	return "discrepancies"
}

// ToEntity converts a DiscrepancyModel to a domain Discrepancy entity.
func (m *DiscrepancyModel) ToEntity() *entity.Discrepancy {
	return &entity.Discrepancy{
		ID:            m.ID,
		AccountLinkID: m.AccountLinkID,
		LedgerBalance: m.LedgerBalance,
		BankBalance:   m.BankBalance,
		Difference:    m.Difference,
		Status:        entity.DiscrepancyStatus(m.Status),
		Note:          m.Note,
		ResolvedAt:    m.ResolvedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToEntityWithLink converts a DiscrepancyModel with its link and account.
func (m *DiscrepancyModel) ToEntityWithLink() *entity.DiscrepancyWithLink {
	result := &entity.DiscrepancyWithLink{
		Discrepancy: m.ToEntity(),
	}

	if m.AccountLink != nil {
		result.Link = m.AccountLink.ToEntity()
		if m.AccountLink.LedgerAccount != nil {
			result.Account = m.AccountLink.LedgerAccount.ToEntity()
		}
	}

	return result
}

// DiscrepancyFromEntity creates a DiscrepancyModel from a domain Discrepancy entity.
func DiscrepancyFromEntity(discrepancy *entity.Discrepancy) *DiscrepancyModel {
	return &DiscrepancyModel{
		ID:            discrepancy.ID,
		AccountLinkID: discrepancy.AccountLinkID,
		LedgerBalance: discrepancy.LedgerBalance,
		BankBalance:   discrepancy.BankBalance,
		Difference:    discrepancy.Difference,
		Status:        string(discrepancy.Status),
		Note:          discrepancy.Note,
		ResolvedAt:    discrepancy.ResolvedAt,
		CreatedAt:     discrepancy.CreatedAt,
		UpdatedAt:     discrepancy.UpdatedAt,
	}
}
