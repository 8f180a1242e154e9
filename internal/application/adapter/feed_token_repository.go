// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// FeedTokenRepository defines the interface for persisting the provider
// token pair. One row exists per deployment.
type FeedTokenRepository interface {
	// Get retrieves the stored token pair, or a not found error when none
	// has been saved yet.
	Get(ctx context.Context) (*entity.FeedToken, error)

	// Save inserts or replaces the stored token pair.
	Save(ctx context.Context, token *entity.FeedToken) error

	// Delete removes the stored token pair.
	Delete(ctx context.Context) error
}
