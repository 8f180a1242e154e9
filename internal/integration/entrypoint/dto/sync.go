// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ledgerfeed/backend/internal/application/usecase/sync"
)

// TriggerSyncRequest represents the request body for triggering a sync run.
type TriggerSyncRequest struct {
	AccountLinkID *string `json:"account_link_id,omitempty" binding:"omitempty,uuid"`
}

// PreviewSyncRequest represents the request body for previewing a sync run.
type PreviewSyncRequest struct {
	AccountLinkID string `json:"account_link_id" binding:"required,uuid"`
}

// SyncRunResponse represents a single sync run in API responses.
type SyncRunResponse struct {
	ID            string `json:"id"`
	AccountLinkID string `json:"account_link_id"`
	LinkAlias     string `json:"link_alias,omitempty"`
	Status        string `json:"status"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at,omitempty"`
	Fetched       int    `json:"fetched"`
	Confirmed     int    `json:"confirmed"`
	Linked        int    `json:"linked"`
	Created       int    `json:"created"`
	Conflicts     int    `json:"conflicts"`
	Pending       int    `json:"pending"`
	LedgerBalance string `json:"ledger_balance"`
	BankBalance   string `json:"bank_balance"`
	BalanceInSync bool   `json:"balance_in_sync"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// TriggerSyncResponse represents the response for triggering a sync run.
type TriggerSyncResponse struct {
	JobID   string `json:"job_id"`
	Links   int    `json:"links"`
	Message string `json:"message"`
}

// SyncStatusResponse represents the response for the sync status query.
type SyncStatusResponse struct {
	Running   bool             `json:"running"`
	JobID     string           `json:"job_id,omitempty"`
	StartedAt string           `json:"started_at,omitempty"`
	LastError string           `json:"last_error,omitempty"`
	LastRun   *SyncRunResponse `json:"last_run,omitempty"`
}

// SyncRunListResponse represents the response for listing sync runs.
type SyncRunListResponse struct {
	Runs []SyncRunResponse `json:"runs"`
}

// PreviewItemResponse represents a single feed item in a sync preview.
type PreviewItemResponse struct {
	ExternalID          string   `json:"external_id,omitempty"`
	Date                string   `json:"date"`
	Amount              string   `json:"amount"`
	Description         string   `json:"description"`
	Outcome             string   `json:"outcome"`
	Confidence          string   `json:"confidence,omitempty"`
	DateDistance        string   `json:"date_distance,omitempty"`
	MatchedSplitID      string   `json:"matched_split_id,omitempty"`
	MatchedAmount       string   `json:"matched_amount,omitempty"`
	MatchedDate         string   `json:"matched_date,omitempty"`
	MatchedDescription  string   `json:"matched_description,omitempty"`
	ProposedDescription string   `json:"proposed_description,omitempty"`
	ProposedOffsets     []string `json:"proposed_offsets,omitempty"`
}

// SyncPreviewResponse represents the response for previewing a sync run.
type SyncPreviewResponse struct {
	AccountLinkID string                `json:"account_link_id"`
	AccountName   string                `json:"account_name"`
	BankBalance   string                `json:"bank_balance"`
	Currency      string                `json:"currency"`
	Fetched       int                   `json:"fetched"`
	Pending       int                   `json:"pending"`
	Items         []PreviewItemResponse `json:"items"`
}

// ToSyncRunResponse converts a sync run summary to a SyncRunResponse DTO.
func ToSyncRunResponse(run *sync.RunSummary) SyncRunResponse {
	return SyncRunResponse{
		ID:            run.ID,
		AccountLinkID: run.AccountLinkID,
		LinkAlias:     run.LinkAlias,
		Status:        run.Status,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Fetched:       run.Fetched,
		Confirmed:     run.Confirmed,
		Linked:        run.Linked,
		Created:       run.Created,
		Conflicts:     run.Conflicts,
		Pending:       run.Pending,
		LedgerBalance: run.LedgerBalance,
		BankBalance:   run.BankBalance,
		BalanceInSync: run.BalanceInSync,
		ErrorMessage:  run.ErrorMessage,
	}
}

// ToTriggerSyncResponse converts trigger output to a TriggerSyncResponse DTO.
func ToTriggerSyncResponse(output *sync.TriggerSyncOutput) TriggerSyncResponse {
	return TriggerSyncResponse{
		JobID:   output.JobID,
		Links:   output.Links,
		Message: output.Message,
	}
}

// ToSyncStatusResponse converts status output to a SyncStatusResponse DTO.
func ToSyncStatusResponse(output *sync.GetStatusOutput) SyncStatusResponse {
	response := SyncStatusResponse{
		Running:   output.Running,
		JobID:     output.JobID,
		StartedAt: output.StartedAt,
		LastError: output.LastError,
	}

	if output.LastRun != nil {
		lastRun := ToSyncRunResponse(output.LastRun)
		response.LastRun = &lastRun
	}

	return response
}

// ToSyncRunListResponse converts a list of run summaries to a SyncRunListResponse.
func ToSyncRunListResponse(runs []*sync.RunSummary) SyncRunListResponse {
	responses := make([]SyncRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, ToSyncRunResponse(run))
	}

	return SyncRunListResponse{Runs: responses}
}

// ToSyncPreviewResponse converts preview output to a SyncPreviewResponse DTO.
func ToSyncPreviewResponse(output *sync.PreviewSyncOutput) SyncPreviewResponse {
	items := make([]PreviewItemResponse, 0, len(output.Items))
	for _, item := range output.Items {
		items = append(items, PreviewItemResponse{
			ExternalID:          item.ExternalID,
			Date:                item.Date,
			Amount:              item.Amount,
			Description:         item.Description,
			Outcome:             item.Outcome,
			Confidence:          item.Confidence,
			DateDistance:        item.DateDistance,
			MatchedSplitID:      item.MatchedSplitID,
			MatchedAmount:       item.MatchedAmount,
			MatchedDate:         item.MatchedDate,
			MatchedDescription:  item.MatchedDescription,
			ProposedDescription: item.ProposedDescription,
			ProposedOffsets:     item.ProposedOffsets,
		})
	}

	return SyncPreviewResponse{
		AccountLinkID: output.AccountLinkID,
		AccountName:   output.AccountName,
		BankBalance:   output.BankBalance,
		Currency:      output.Currency,
		Fetched:       output.Fetched,
		Pending:       output.Pending,
		Items:         items,
	}
}
