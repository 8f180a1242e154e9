// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Requisition statuses reported by the feed provider. The status string is
// stored verbatim; these constants cover the ones the system reacts to.
const (
	RequisitionStatusCreated = "CR"
	RequisitionStatusLinked  = "LN"
	RequisitionStatusExpired = "EX"
)

// Requisition tracks a bank consent flow at the feed provider. The end user
// follows Link to authorise access; once the provider reports the
// requisition as linked, AccountIDs lists the bank accounts it unlocked.
type Requisition struct {
	ID            uuid.UUID
	ProviderID    string // identifier at the feed provider
	InstitutionID string
	Status        string
	Link          string // authorisation URL for the end user
	Reference     string
	AccountIDs    []string // provider-side bank account identifiers
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRequisition creates a new Requisition entity.
func NewRequisition(providerID, institutionID, status, link, reference string) *Requisition {
	now := time.Now().UTC()

	return &Requisition{
		ID:            uuid.New(),
		ProviderID:    providerID,
		InstitutionID: institutionID,
		Status:        status,
		Link:          link,
		Reference:     reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UpdateFromProvider refreshes the requisition with the provider's view.
func (r *Requisition) UpdateFromProvider(status string, accountIDs []string) {
	r.Status = status
	r.AccountIDs = accountIDs
	r.UpdatedAt = time.Now().UTC()
}

// IsLinked reports whether the end user has completed the consent flow.
func (r *Requisition) IsLinked() bool {
	return r.Status == RequisitionStatusLinked
}
