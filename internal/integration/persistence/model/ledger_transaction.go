// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// LedgerTransactionModel represents the transactions table in the database.
type LedgerTransactionModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Date        time.Time      `gorm:"type:date;not null;index"`
	Description string         `gorm:"type:varchar(255);not null"`
	Currency    string         `gorm:"type:varchar(3);not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Splits []SplitModel `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for the LedgerTransactionModel.
func (LedgerTransactionModel) TableName() string {
	return "transactions"
}

// SplitModel represents the splits table in the database. The external
// reference is unique per account so one feed item can never land twice.
type SplitModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_splits_account_external"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Memo           string          `gorm:"type:text"`
	ReconcileState string          `gorm:"type:varchar(1);not null;default:'n';index"`
	ExternalID     *string         `gorm:"type:varchar(255);uniqueIndex:idx_splits_account_external"`
	Counterparty   *string         `gorm:"type:varchar(500);index"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Transaction *LedgerTransactionModel `gorm:"foreignKey:TransactionID;references:ID"`
	Account     *AccountModel           `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for the SplitModel.
func (SplitModel) TableName() string {
	return "splits"
}

// ToEntity converts a LedgerTransactionModel to a domain entity with its splits.
func (m *LedgerTransactionModel) ToEntity() *entity.LedgerTransaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	splits := make([]*entity.Split, 0, len(m.Splits))
	for i := range m.Splits {
		splits = append(splits, m.Splits[i].ToEntity())
	}

	return &entity.LedgerTransaction{
		ID:          m.ID,
		Date:        m.Date,
		Description: m.Description,
		Currency:    m.Currency,
		Splits:      splits,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// ToEntity converts a SplitModel to a domain Split entity.
func (m *SplitModel) ToEntity() *entity.Split {
	return &entity.Split{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Memo:           m.Memo,
		ReconcileState: entity.ReconcileState(m.ReconcileState),
		ExternalID:     m.ExternalID,
		Counterparty:   m.Counterparty,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// LedgerTransactionFromEntity creates a LedgerTransactionModel from a domain entity.
func LedgerTransactionFromEntity(transaction *entity.LedgerTransaction) *LedgerTransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	splits := make([]SplitModel, 0, len(transaction.Splits))
	for _, split := range transaction.Splits {
		splits = append(splits, *SplitFromEntity(split))
	}

	return &LedgerTransactionModel{
		ID:          transaction.ID,
		Date:        transaction.Date,
		Description: transaction.Description,
		Currency:    transaction.Currency,
		Splits:      splits,
		CreatedAt:   transaction.CreatedAt,
		UpdatedAt:   transaction.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// SplitFromEntity creates a SplitModel from a domain Split entity.
func SplitFromEntity(split *entity.Split) *SplitModel {
	return &SplitModel{
		ID:             split.ID,
		TransactionID:  split.TransactionID,
		AccountID:      split.AccountID,
		Amount:         split.Amount,
		Memo:           split.Memo,
		ReconcileState: string(split.ReconcileState),
		ExternalID:     split.ExternalID,
		Counterparty:   split.Counterparty,
		CreatedAt:      split.CreatedAt,
		UpdatedAt:      split.UpdatedAt,
	}
}
