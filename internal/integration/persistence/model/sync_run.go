// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// SyncRunModel represents the sync_runs table in the database.
type SyncRunModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountLinkID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	StartedAt     time.Time  `gorm:"not null"`
	FinishedAt    *time.Time `gorm:"type:timestamp"`

	Fetched   int `gorm:"not null;default:0"`
	Confirmed int `gorm:"not null;default:0"`
	Linked    int `gorm:"not null;default:0"`
	Created   int `gorm:"not null;default:0"`
	Conflicts int `gorm:"not null;default:0"`
	Pending   int `gorm:"not null;default:0"`

	LedgerBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	BankBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	BalanceInSync bool            `gorm:"not null;default:false"`

	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	AccountLink *AccountLinkModel `gorm:"foreignKey:AccountLinkID;references:ID"`
}

// TableName returns the table name for the SyncRunModel.
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToEntity converts a SyncRunModel to a domain SyncRun entity.
func (m *SyncRunModel) ToEntity() *entity.SyncRun {
	return &entity.SyncRun{
		ID:            m.ID,
		AccountLinkID: m.AccountLinkID,
		Status:        entity.SyncRunStatus(m.Status),
		StartedAt:     m.StartedAt,
		FinishedAt:    m.FinishedAt,
		Fetched:       m.Fetched,
		Confirmed:     m.Confirmed,
		Linked:        m.Linked,
		Created:       m.Created,
		Conflicts:     m.Conflicts,
		Pending:       m.Pending,
		LedgerBalance: m.LedgerBalance,
		BankBalance:   m.BankBalance,
		BalanceInSync: m.BalanceInSync,
		ErrorMessage:  m.ErrorMessage,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToEntityWithLink converts a SyncRunModel with its account link.
func (m *SyncRunModel) ToEntityWithLink() *entity.SyncRunWithLink {
	result := &entity.SyncRunWithLink{
		Run: m.ToEntity(),
	}

	if m.AccountLink != nil {
		result.Link = m.AccountLink.ToEntity()
	}

	return result
}

// SyncRunFromEntity creates a SyncRunModel from a domain SyncRun entity.
func SyncRunFromEntity(run *entity.SyncRun) *SyncRunModel {
	return &SyncRunModel{
		ID:            run.ID,
		AccountLinkID: run.AccountLinkID,
		Status:        string(run.Status),
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Fetched:       run.Fetched,
		Confirmed:     run.Confirmed,
		Linked:        run.Linked,
		Created:       run.Created,
		Conflicts:     run.Conflicts,
		Pending:       run.Pending,
		LedgerBalance: run.LedgerBalance,
		BankBalance:   run.BankBalance,
		BalanceInSync: run.BalanceInSync,
		ErrorMessage:  run.ErrorMessage,
		CreatedAt:     run.CreatedAt,
		UpdatedAt:     run.UpdatedAt,
	}
}
