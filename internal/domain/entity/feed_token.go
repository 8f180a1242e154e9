// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FeedToken holds the provider token pair. The token values are sealed
// before they reach storage; only the expiry timestamps are kept in clear.
// A single row exists per deployment.
type FeedToken struct {
	ID               uuid.UUID
	SealedAccess     []byte
	AccessExpiresAt  time.Time
	SealedRefresh    []byte
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewFeedToken creates a new FeedToken entity from sealed token material.
func NewFeedToken(sealedAccess []byte, accessExpiresAt time.Time, sealedRefresh []byte, refreshExpiresAt time.Time) *FeedToken {
	now := time.Now().UTC()

	return &FeedToken{
		ID:               uuid.New(),
		SealedAccess:     sealedAccess,
		AccessExpiresAt:  accessExpiresAt,
		SealedRefresh:    sealedRefresh,
		RefreshExpiresAt: refreshExpiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AccessUsable reports whether the access token is still valid with at
// least the given buffer remaining.
func (t *FeedToken) AccessUsable(now time.Time, buffer time.Duration) bool {
	return len(t.SealedAccess) > 0 && now.Add(buffer).Before(t.AccessExpiresAt)
}

// RefreshUsable reports whether the refresh token can still mint access
// tokens.
func (t *FeedToken) RefreshUsable(now time.Time) bool {
	return len(t.SealedRefresh) > 0 && now.Before(t.RefreshExpiresAt)
}

// RotateAccess replaces the sealed access token after a refresh.
func (t *FeedToken) RotateAccess(sealedAccess []byte, accessExpiresAt time.Time) {
	t.SealedAccess = sealedAccess
	t.AccessExpiresAt = accessExpiresAt
	t.UpdatedAt = time.Now().UTC()
}
