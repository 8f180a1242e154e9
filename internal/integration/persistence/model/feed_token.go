// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// FeedTokenModel represents the feed_tokens table in the database. The
// token material is sealed before it gets here.
type FeedTokenModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SealedAccess     []byte    `gorm:"type:bytea;not null"`
	AccessExpiresAt  time.Time `gorm:"not null"`
	SealedRefresh    []byte    `gorm:"type:bytea;not null"`
	RefreshExpiresAt time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the FeedTokenModel.
func (FeedTokenModel) TableName() string {
	return "feed_tokens"
}

// ToEntity converts a FeedTokenModel to a domain FeedToken entity.
func (m *FeedTokenModel) ToEntity() *entity.FeedToken {
	return &entity.FeedToken{
		ID:               m.ID,
		SealedAccess:     m.SealedAccess,
		AccessExpiresAt:  m.AccessExpiresAt,
		SealedRefresh:    m.SealedRefresh,
		RefreshExpiresAt: m.RefreshExpiresAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FeedTokenFromEntity creates a FeedTokenModel from a domain FeedToken entity.
func FeedTokenFromEntity(token *entity.FeedToken) *FeedTokenModel {
	return &FeedTokenModel{
		ID:               token.ID,
		SealedAccess:     token.SealedAccess,
		AccessExpiresAt:  token.AccessExpiresAt,
		SealedRefresh:    token.SealedRefresh,
		RefreshExpiresAt: token.RefreshExpiresAt,
		CreatedAt:        token.CreatedAt,
		UpdatedAt:        token.UpdatedAt,
	}
}
