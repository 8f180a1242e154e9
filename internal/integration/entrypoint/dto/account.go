// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/ledgerfeed/backend/internal/application/usecase/ledger"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	ParentID    *string `json:"parent_id,omitempty" binding:"omitempty,uuid"`
	Type        string  `json:"type" binding:"required,oneof=asset liability equity income expense"`
	Currency    string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	Description string  `json:"description,omitempty" binding:"omitempty,max=1000"`
}

// UpdateAccountRequest represents the request body for account update.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
}

// AccountResponse represents a single ledger account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Type        string    `json:"type"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Balance     string    `json:"balance,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountListResponse represents the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain Account entity to an AccountResponse DTO.
func ToAccountResponse(account *entity.Account) AccountResponse {
	response := AccountResponse{
		ID:          account.ID.String(),
		Name:        account.Name,
		FullName:    account.FullName,
		Type:        string(account.Type),
		Currency:    account.Currency,
		Description: account.Description,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}

	if account.ParentID != nil {
		response.ParentID = account.ParentID.String()
	}

	return response
}

// ToAccountListResponse converts account listing output to an AccountListResponse.
func ToAccountListResponse(accounts []*ledger.AccountWithBalance) AccountListResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, awb := range accounts {
		response := ToAccountResponse(awb.Account)
		response.Balance = awb.Balance.String()
		responses = append(responses, response)
	}

	return AccountListResponse{Accounts: responses}
}
