// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ledgerfeed/backend/internal/application/usecase/suggestion"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// RejectSuggestionRequest represents the request body for rejecting a suggestion.
type RejectSuggestionRequest struct {
	Action      string `json:"action" binding:"required,oneof=skip retry"`
	RetryReason string `json:"retry_reason,omitempty" binding:"omitempty,max=500"`
}

// ProcessingErrorResponse represents an AI processing error in the response.
type ProcessingErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Timestamp string `json:"timestamp"`
}

// SuggestionStatusResponse represents the response for the suggestion run status.
type SuggestionStatusResponse struct {
	ImbalanceCount          int                      `json:"imbalance_count"`
	IsProcessing            bool                     `json:"is_processing"`
	PendingSuggestionsCount int                      `json:"pending_suggestions_count"`
	JobID                   string                   `json:"job_id,omitempty"`
	HasError                bool                     `json:"has_error"`
	Error                   *ProcessingErrorResponse `json:"error,omitempty"`
}

// StartSuggestionsResponse represents the response for starting a suggestion run.
type StartSuggestionsResponse struct {
	JobID        string `json:"job_id"`
	Transactions int    `json:"transactions"`
	Message      string `json:"message"`
}

// SuggestedAccountResponse represents the proposed offset account in a suggestion.
type SuggestedAccountResponse struct {
	Type         string `json:"type"` // "existing" or "new"
	ExistingID   string `json:"existing_id,omitempty"`
	ExistingName string `json:"existing_name,omitempty"`
	ExistingType string `json:"existing_type,omitempty"`
	NewName      string `json:"new_name,omitempty"`
	NewType      string `json:"new_type,omitempty"`
}

// MatchRuleResponse represents the counterparty match rule in a suggestion.
type MatchRuleResponse struct {
	Type    string `json:"type"` // "contains", "startsWith", "exact"
	Keyword string `json:"keyword"`
}

// AffectedTransactionResponse represents an affected transaction in a suggestion.
type AffectedTransactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// SuggestionResponse represents a single account suggestion in API responses.
type SuggestionResponse struct {
	ID                   string                        `json:"id"`
	Account              SuggestedAccountResponse      `json:"account"`
	Match                MatchRuleResponse             `json:"match"`
	AffectedTransactions []AffectedTransactionResponse `json:"affected_transactions"`
	AffectedCount        int                           `json:"affected_count"`
	Confidence           float64                       `json:"confidence"`
	Reasoning            string                        `json:"reasoning,omitempty"`
	Status               string                        `json:"status"`
	CreatedAt            string                        `json:"created_at"`
}

// SuggestionListResponse represents the response for listing pending suggestions.
type SuggestionListResponse struct {
	Suggestions  []SuggestionResponse `json:"suggestions"`
	TotalPending int                  `json:"total_pending"`
}

// ApproveSuggestionResponse represents the response for approving a suggestion.
type ApproveSuggestionResponse struct {
	AccountID      string `json:"account_id"`
	AccountName    string `json:"account_name"`
	AccountCreated bool   `json:"account_created"`
	RuleID         string `json:"rule_id,omitempty"`
	RulePattern    string `json:"rule_pattern,omitempty"`
	SplitsMoved    int64  `json:"splits_moved"`
}

// RejectSuggestionResponse represents the response for rejecting a suggestion.
type RejectSuggestionResponse struct {
	Status        string              `json:"status"`
	Message       string              `json:"message"`
	NewSuggestion *SuggestionResponse `json:"new_suggestion,omitempty"`
}

// ClearSuggestionsResponse represents the response for clearing suggestions.
type ClearSuggestionsResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// ToSuggestionStatusResponse converts status output to a SuggestionStatusResponse.
func ToSuggestionStatusResponse(output *suggestion.GetStatusOutput) SuggestionStatusResponse {
	response := SuggestionStatusResponse{
		ImbalanceCount:          output.Status.ImbalanceCount,
		IsProcessing:            output.Status.IsProcessing,
		PendingSuggestionsCount: output.Status.PendingSuggestionsCount,
		HasError:                output.Error != nil,
	}

	if output.Status.JobID != nil {
		response.JobID = *output.Status.JobID
	}
	if output.Error != nil {
		response.Error = &ProcessingErrorResponse{
			Code:      output.Error.Code,
			Message:   output.Error.Message,
			Retryable: output.Error.Retryable,
			Timestamp: output.Error.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return response
}

// ToStartSuggestionsResponse converts start output to a StartSuggestionsResponse.
func ToStartSuggestionsResponse(output *suggestion.StartSuggestionsOutput) StartSuggestionsResponse {
	return StartSuggestionsResponse{
		JobID:        output.JobID,
		Transactions: output.Transactions,
		Message:      output.Message,
	}
}

// ToSuggestionResponse converts a suggestion with details to a SuggestionResponse.
func ToSuggestionResponse(swd *entity.AccountSuggestionWithDetails) SuggestionResponse {
	s := swd.Suggestion

	account := SuggestedAccountResponse{}
	switch {
	case s.SuggestedAccountID != nil:
		account.Type = "existing"
		account.ExistingID = s.SuggestedAccountID.String()
		if swd.Account != nil {
			account.ExistingName = swd.Account.FullName
			account.ExistingType = string(swd.Account.Type)
		}
	case s.SuggestedAccountNew != nil:
		account.Type = "new"
		account.NewName = s.SuggestedAccountNew.Name
		account.NewType = s.SuggestedAccountNew.Type
	}

	affected := make([]AffectedTransactionResponse, 0, len(swd.AffectedTransactions))
	for _, txn := range swd.AffectedTransactions {
		item := AffectedTransactionResponse{
			ID:          txn.ID.String(),
			Description: txn.Description,
			Date:        txn.Date.Format("2006-01-02"),
		}
		if len(txn.Splits) > 0 {
			item.Amount = txn.Splits[0].Amount.String()
		}
		affected = append(affected, item)
	}

	return SuggestionResponse{
		ID:                   s.ID.String(),
		Account:              account,
		Match:                MatchRuleResponse{Type: string(s.MatchType), Keyword: s.MatchKeyword},
		AffectedTransactions: affected,
		AffectedCount:        swd.AffectedTransactionCount,
		Confidence:           s.Confidence,
		Reasoning:            s.Reasoning,
		Status:               string(s.Status),
		CreatedAt:            s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToSuggestionListResponse converts listing output to a SuggestionListResponse.
func ToSuggestionListResponse(output *suggestion.ListSuggestionsOutput) SuggestionListResponse {
	suggestions := make([]SuggestionResponse, 0, len(output.Suggestions))
	for _, swd := range output.Suggestions {
		suggestions = append(suggestions, ToSuggestionResponse(swd))
	}

	return SuggestionListResponse{
		Suggestions:  suggestions,
		TotalPending: output.TotalPending,
	}
}

// ToApproveSuggestionResponse converts approval output to an ApproveSuggestionResponse.
func ToApproveSuggestionResponse(output *suggestion.ApproveSuggestionOutput) ApproveSuggestionResponse {
	response := ApproveSuggestionResponse{
		AccountID:      output.Account.ID.String(),
		AccountName:    output.Account.FullName,
		AccountCreated: output.AccountCreated,
		SplitsMoved:    output.SplitsMoved,
	}

	if output.Rule != nil {
		response.RuleID = output.Rule.ID.String()
		response.RulePattern = output.Rule.Pattern
	}

	return response
}

// ToRejectSuggestionResponse converts rejection output to a RejectSuggestionResponse.
func ToRejectSuggestionResponse(output *suggestion.RejectSuggestionOutput) RejectSuggestionResponse {
	response := RejectSuggestionResponse{
		Status:  string(output.Status),
		Message: output.Message,
	}

	if output.NewSuggestion != nil {
		newSuggestion := ToSuggestionResponse(output.NewSuggestion)
		response.NewSuggestion = &newSuggestion
	}

	return response
}

// ToClearSuggestionsResponse converts clearing output to a ClearSuggestionsResponse.
func ToClearSuggestionsResponse(output *suggestion.ClearSuggestionsOutput) ClearSuggestionsResponse {
	return ClearSuggestionsResponse{DeletedCount: output.DeletedCount}
}
