// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// RequisitionRepository defines the interface for requisition persistence operations.
type RequisitionRepository interface {
	// Create creates a new requisition in the database.
	Create(ctx context.Context, requisition *entity.Requisition) error

	// FindByID retrieves a requisition by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Requisition, error)

	// FindByProviderID retrieves a requisition by its provider-side identifier.
	FindByProviderID(ctx context.Context, providerID string) (*entity.Requisition, error)

	// FindAll retrieves all requisitions, newest first.
	FindAll(ctx context.Context) ([]*entity.Requisition, error)

	// Update updates an existing requisition in the database.
	Update(ctx context.Context, requisition *entity.Requisition) error

	// Delete removes a requisition from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
