// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// RequisitionModel represents the requisitions table in the database.
type RequisitionModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProviderID    string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	InstitutionID string         `gorm:"type:varchar(100);not null;index"`
	Status        string         `gorm:"type:varchar(10);not null"`
	Link          string         `gorm:"type:text"`
	Reference     string         `gorm:"type:varchar(100)"`
	AccountIDs    pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

// TableName returns the table name for the RequisitionModel.
func (RequisitionModel) TableName() string {
	return "requisitions"
}

// ToEntity converts a RequisitionModel to a domain Requisition entity.
func (m *RequisitionModel) ToEntity() *entity.Requisition {
	return &entity.Requisition{
		ID:            m.ID,
		ProviderID:    m.ProviderID,
		InstitutionID: m.InstitutionID,
		Status:        m.Status,
		Link:          m.Link,
		Reference:     m.Reference,
		AccountIDs:    []string(m.AccountIDs),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// RequisitionFromEntity creates a RequisitionModel from a domain Requisition entity.
func RequisitionFromEntity(requisition *entity.Requisition) *RequisitionModel {
	return &RequisitionModel{
		ID:            requisition.ID,
		ProviderID:    requisition.ProviderID,
		InstitutionID: requisition.InstitutionID,
		Status:        requisition.Status,
		Link:          requisition.Link,
		Reference:     requisition.Reference,
		AccountIDs:    pq.StringArray(requisition.AccountIDs),
		CreatedAt:     requisition.CreatedAt,
		UpdatedAt:     requisition.UpdatedAt,
	}
}
