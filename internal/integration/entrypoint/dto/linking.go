// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// CreateRequisitionRequest represents the request body for requisition creation.
type CreateRequisitionRequest struct {
	InstitutionID string `json:"institution_id" binding:"required"`
	RedirectURL   string `json:"redirect_url,omitempty" binding:"omitempty,url"`
}

// CreateLinkRequest represents the request body for account link creation.
type CreateLinkRequest struct {
	BankAccountID     string  `json:"bank_account_id" binding:"required"`
	LedgerAccountID   *string `json:"ledger_account_id,omitempty" binding:"omitempty,uuid"`
	LedgerAccountPath string  `json:"ledger_account_path,omitempty"`
	Alias             string  `json:"alias,omitempty" binding:"omitempty,max=255"`
	DateBasis         string  `json:"date_basis,omitempty" binding:"omitempty,oneof=bookingDate valueDate"`
}

// UpdateLinkRequest represents the request body for account link update.
type UpdateLinkRequest struct {
	Alias       *string `json:"alias,omitempty" binding:"omitempty,max=255"`
	DateBasis   *string `json:"date_basis,omitempty" binding:"omitempty,oneof=bookingDate valueDate"`
	SyncEnabled *bool   `json:"sync_enabled,omitempty"`
}

// InstitutionResponse represents a single institution in API responses.
type InstitutionResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	BIC                  string   `json:"bic,omitempty"`
	TransactionTotalDays string   `json:"transaction_total_days,omitempty"`
	Countries            []string `json:"countries"`
	Logo                 string   `json:"logo,omitempty"`
}

// InstitutionListResponse represents the response for listing institutions.
type InstitutionListResponse struct {
	Institutions []InstitutionResponse `json:"institutions"`
	FromCache    bool                  `json:"from_cache"`
}

// RequisitionResponse represents a single requisition in API responses.
type RequisitionResponse struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	Status        string    `json:"status"`
	Link          string    `json:"link,omitempty"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// RequisitionBankAccountResponse represents a discovered bank account in a requisition.
type RequisitionBankAccountResponse struct {
	BankAccountID string `json:"bank_account_id"`
	Linked        bool   `json:"linked"`
}

// RequisitionDetailResponse represents the response for fetching one requisition.
type RequisitionDetailResponse struct {
	RequisitionResponse
	BankAccounts []RequisitionBankAccountResponse `json:"bank_accounts"`
}

// RequisitionListResponse represents the response for listing requisitions.
type RequisitionListResponse struct {
	Requisitions []RequisitionResponse `json:"requisitions"`
}

// AccountLinkResponse represents a single account link in API responses.
type AccountLinkResponse struct {
	ID              string     `json:"id"`
	LedgerAccountID string     `json:"ledger_account_id"`
	AccountName     string     `json:"account_name,omitempty"`
	RequisitionID   string     `json:"requisition_id,omitempty"`
	BankAccountID   string     `json:"bank_account_id"`
	InstitutionID   string     `json:"institution_id,omitempty"`
	Alias           string     `json:"alias,omitempty"`
	DateBasis       string     `json:"date_basis"`
	SyncEnabled     bool       `json:"sync_enabled"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AccountLinkListResponse represents the response for listing account links.
type AccountLinkListResponse struct {
	Links []AccountLinkResponse `json:"links"`
}

// ToInstitutionResponse converts a domain Institution to an InstitutionResponse DTO.
func ToInstitutionResponse(institution *entity.Institution) InstitutionResponse {
	return InstitutionResponse{
		ID:                   institution.ID,
		Name:                 institution.Name,
		BIC:                  institution.BIC,
		TransactionTotalDays: institution.TransactionTotalDays,
		Countries:            institution.Countries,
		Logo:                 institution.Logo,
	}
}

// ToInstitutionListResponse converts institution listing output to an InstitutionListResponse.
func ToInstitutionListResponse(institutions []*entity.Institution, fromCache bool) InstitutionListResponse {
	responses := make([]InstitutionResponse, 0, len(institutions))
	for _, institution := range institutions {
		responses = append(responses, ToInstitutionResponse(institution))
	}

	return InstitutionListResponse{Institutions: responses, FromCache: fromCache}
}

// ToRequisitionResponse converts a domain Requisition to a RequisitionResponse DTO.
func ToRequisitionResponse(requisition *entity.Requisition) RequisitionResponse {
	return RequisitionResponse{
		ID:            requisition.ID.String(),
		InstitutionID: requisition.InstitutionID,
		Status:        requisition.Status,
		Link:          requisition.Link,
		Reference:     requisition.Reference,
		CreatedAt:     requisition.CreatedAt,
	}
}

// ToRequisitionDetailResponse converts a requisition and its linked-account map
// to a RequisitionDetailResponse DTO.
func ToRequisitionDetailResponse(requisition *entity.Requisition, linked map[string]bool) RequisitionDetailResponse {
	bankAccounts := make([]RequisitionBankAccountResponse, 0, len(requisition.AccountIDs))
	for _, bankAccountID := range requisition.AccountIDs {
		bankAccounts = append(bankAccounts, RequisitionBankAccountResponse{
			BankAccountID: bankAccountID,
			Linked:        linked[bankAccountID],
		})
	}

	return RequisitionDetailResponse{
		RequisitionResponse: ToRequisitionResponse(requisition),
		BankAccounts:        bankAccounts,
	}
}

// ToRequisitionListResponse converts a list of requisitions to a RequisitionListResponse.
func ToRequisitionListResponse(requisitions []*entity.Requisition) RequisitionListResponse {
	responses := make([]RequisitionResponse, 0, len(requisitions))
	for _, requisition := range requisitions {
		responses = append(responses, ToRequisitionResponse(requisition))
	}

	return RequisitionListResponse{Requisitions: responses}
}

// ToAccountLinkResponse converts a domain AccountLink to an AccountLinkResponse DTO.
func ToAccountLinkResponse(link *entity.AccountLink) AccountLinkResponse {
	response := AccountLinkResponse{
		ID:              link.ID.String(),
		LedgerAccountID: link.LedgerAccountID.String(),
		BankAccountID:   link.BankAccountID,
		InstitutionID:   link.InstitutionID,
		Alias:           link.Alias,
		DateBasis:       string(link.DateBasis),
		SyncEnabled:     link.SyncEnabled,
		LastSyncedAt:    link.LastSyncedAt,
		CreatedAt:       link.CreatedAt,
		UpdatedAt:       link.UpdatedAt,
	}

	if link.RequisitionID != nil {
		response.RequisitionID = link.RequisitionID.String()
	}

	return response
}

// ToAccountLinkListResponse converts account link listing output to an AccountLinkListResponse.
func ToAccountLinkListResponse(links []*entity.AccountLinkWithAccount) AccountLinkListResponse {
	responses := make([]AccountLinkResponse, 0, len(links))
	for _, lwa := range links {
		response := ToAccountLinkResponse(lwa.Link)
		if lwa.Account != nil {
			response.AccountName = lwa.Account.FullName
		}
		responses = append(responses, response)
	}

	return AccountLinkListResponse{Links: responses}
}
