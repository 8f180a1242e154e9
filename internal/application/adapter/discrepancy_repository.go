// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// DiscrepancyRepository defines the interface for discrepancy persistence operations.
type DiscrepancyRepository interface {
	// Create creates a new discrepancy in the database.
	Create(ctx context.Context, discrepancy *entity.Discrepancy) error

	// FindByID retrieves a discrepancy by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Discrepancy, error)

	// FindOpenByLink retrieves the open discrepancy for a link.
	FindOpenByLink(ctx context.Context, accountLinkID uuid.UUID) (*entity.Discrepancy, error)

	// FindByStatus retrieves discrepancies in the given status with their
	// links and accounts, newest first. An empty status covers all.
	FindByStatus(ctx context.Context, status entity.DiscrepancyStatus) ([]*entity.DiscrepancyWithLink, error)

	// CountOpen counts open discrepancies.
	CountOpen(ctx context.Context) (int64, error)

	// Update updates an existing discrepancy in the database.
	Update(ctx context.Context, discrepancy *entity.Discrepancy) error
}
