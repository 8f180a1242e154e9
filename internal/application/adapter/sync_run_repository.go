// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// SyncRunRepository defines the interface for sync run persistence operations.
type SyncRunRepository interface {
	// Create creates a new sync run in the database.
	Create(ctx context.Context, run *entity.SyncRun) error

	// FindByID retrieves a sync run by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SyncRun, error)

	// FindRecent retrieves the most recent sync runs with their links, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.SyncRunWithLink, error)

	// FindByLink retrieves the most recent sync runs for one link, newest first.
	FindByLink(ctx context.Context, accountLinkID uuid.UUID, limit int) ([]*entity.SyncRun, error)

	// FindLatestByLink retrieves the most recent sync run for one link.
	FindLatestByLink(ctx context.Context, accountLinkID uuid.UUID) (*entity.SyncRun, error)

	// HasRunning checks whether any sync run is currently marked running.
	HasRunning(ctx context.Context) (bool, error)

	// Update updates an existing sync run in the database.
	Update(ctx context.Context, run *entity.SyncRun) error
}
