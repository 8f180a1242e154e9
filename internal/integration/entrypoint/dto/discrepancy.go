// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// ResolveDiscrepancyRequest represents the request body for resolving a discrepancy.
type ResolveDiscrepancyRequest struct {
	Note string `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// IgnoreDiscrepancyRequest represents the request body for ignoring a discrepancy.
type IgnoreDiscrepancyRequest struct {
	Note string `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// DiscrepancyResponse represents a single balance discrepancy in API responses.
type DiscrepancyResponse struct {
	ID            string     `json:"id"`
	AccountLinkID string     `json:"account_link_id"`
	AccountName   string     `json:"account_name,omitempty"`
	LinkAlias     string     `json:"link_alias,omitempty"`
	LedgerBalance string     `json:"ledger_balance"`
	BankBalance   string     `json:"bank_balance"`
	Difference    string     `json:"difference"`
	Status        string     `json:"status"`
	Note          string     `json:"note,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DiscrepancyListResponse represents the response for listing discrepancies.
type DiscrepancyListResponse struct {
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
	OpenCount     int64                 `json:"open_count"`
}

// ToDiscrepancyResponse converts a domain Discrepancy to a DiscrepancyResponse DTO.
func ToDiscrepancyResponse(discrepancy *entity.Discrepancy) DiscrepancyResponse {
	return DiscrepancyResponse{
		ID:            discrepancy.ID.String(),
		AccountLinkID: discrepancy.AccountLinkID.String(),
		LedgerBalance: discrepancy.LedgerBalance.String(),
		BankBalance:   discrepancy.BankBalance.String(),
		Difference:    discrepancy.Difference.String(),
		Status:        string(discrepancy.Status),
		Note:          discrepancy.Note,
		ResolvedAt:    discrepancy.ResolvedAt,
		CreatedAt:     discrepancy.CreatedAt,
		UpdatedAt:     discrepancy.UpdatedAt,
	}
}

// ToDiscrepancyListResponse converts discrepancy listing output to a DiscrepancyListResponse.
func ToDiscrepancyListResponse(discrepancies []*entity.DiscrepancyWithLink, openCount int64) DiscrepancyListResponse {
	responses := make([]DiscrepancyResponse, 0, len(discrepancies))
	for _, dwl := range discrepancies {
		response := ToDiscrepancyResponse(dwl.Discrepancy)
		if dwl.Account != nil {
			response.AccountName = dwl.Account.FullName
		}
		if dwl.Link != nil {
			response.LinkAlias = dwl.Link.Alias
		}
		responses = append(responses, response)
	}

	return DiscrepancyListResponse{Discrepancies: responses, OpenCount: openCount}
}
