// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// SplitRequest represents a single split in transaction requests.
type SplitRequest struct {
	AccountID string  `json:"account_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required"`
	Memo      string  `json:"memo,omitempty" binding:"omitempty,max=1000"`
}

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	Date        string         `json:"date" binding:"required"`
	Description string         `json:"description" binding:"required,min=1,max=255"`
	Splits      []SplitRequest `json:"splits" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Date        *string        `json:"date,omitempty"`
	Description *string        `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
	Splits      []SplitRequest `json:"splits,omitempty" binding:"omitempty,min=1,dive"`
}

// SplitResponse represents a single split in API responses.
type SplitResponse struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id"`
	AccountName    string `json:"account_name,omitempty"`
	Amount         string `json:"amount"`
	Memo           string `json:"memo,omitempty"`
	ReconcileState string `json:"reconcile_state"`
	ExternalID     string `json:"external_id,omitempty"`
	Counterparty   string `json:"counterparty,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Splits      []SplitResponse `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// ToSplitResponse converts a domain Split entity to a SplitResponse DTO.
func ToSplitResponse(split *entity.Split, accounts map[uuid.UUID]*entity.Account) SplitResponse {
	response := SplitResponse{
		ID:             split.ID.String(),
		AccountID:      split.AccountID.String(),
		Amount:         split.Amount.String(),
		Memo:           split.Memo,
		ReconcileState: string(split.ReconcileState),
	}

	if split.ExternalID != nil {
		response.ExternalID = *split.ExternalID
	}
	if split.Counterparty != nil {
		response.Counterparty = *split.Counterparty
	}
	if account, ok := accounts[split.AccountID]; ok {
		response.AccountName = account.FullName
	}

	return response
}

// ToTransactionResponse converts a domain transaction to a TransactionResponse DTO.
func ToTransactionResponse(txn *entity.LedgerTransaction, accounts map[uuid.UUID]*entity.Account) TransactionResponse {
	splits := make([]SplitResponse, 0, len(txn.Splits))
	for _, split := range txn.Splits {
		splits = append(splits, ToSplitResponse(split, accounts))
	}

	return TransactionResponse{
		ID:          txn.ID.String(),
		Date:        txn.Date.Format("2006-01-02"),
		Description: txn.Description,
		Currency:    txn.Currency,
		Splits:      splits,
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}
}

// ToTransactionListResponse converts a transaction listing result to a TransactionListResponse.
func ToTransactionListResponse(result *entity.TransactionListResult) TransactionListResponse {
	transactions := make([]TransactionResponse, 0, len(result.Transactions))
	for _, tws := range result.Transactions {
		transactions = append(transactions, ToTransactionResponse(tws.Transaction, tws.Accounts))
	}

	return TransactionListResponse{
		Transactions: transactions,
		Total:        result.Total,
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
	}
}
