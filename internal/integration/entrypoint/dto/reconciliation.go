// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/application/usecase/reconciliation"
)

// ManualLinkRequest represents the request body for manually linking a feed item.
type ManualLinkRequest struct {
	SplitID      string  `json:"split_id" binding:"required,uuid"`
	ExternalID   string  `json:"external_id" binding:"required,min=1,max=255"`
	Counterparty string  `json:"counterparty,omitempty" binding:"omitempty,max=500"`
	FeedAmount   float64 `json:"feed_amount" binding:"required"`
	Force        bool    `json:"force,omitempty"`
}

// UnlinkRequest represents the request body for unlinking a split.
type UnlinkRequest struct {
	SplitID string `json:"split_id" binding:"required,uuid"`
}

// PendingSplitResponse represents an unreconciled split in API responses.
type PendingSplitResponse struct {
	SplitID        string `json:"split_id"`
	TransactionID  string `json:"transaction_id"`
	AccountID      string `json:"account_id"`
	AccountName    string `json:"account_name"`
	Date           string `json:"date"`
	Description    string `json:"description"`
	Memo           string `json:"memo,omitempty"`
	Amount         string `json:"amount"`
	ReconcileState string `json:"reconcile_state"`
}

// LinkedSplitResponse represents a feed-linked split in API responses.
type LinkedSplitResponse struct {
	PendingSplitResponse
	ExternalID   string `json:"external_id"`
	Counterparty string `json:"counterparty,omitempty"`
}

// CandidateSplitResponse represents a manual-link candidate in API responses.
type CandidateSplitResponse struct {
	SplitID       string `json:"split_id"`
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	ExternalID    string `json:"external_id"`
	Counterparty  string `json:"counterparty,omitempty"`
}

// GetPendingResponse represents the response for GET /reconciliation/pending.
type GetPendingResponse struct {
	Splits []PendingSplitResponse `json:"splits"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// GetLinkedResponse represents the response for GET /reconciliation/linked.
type GetLinkedResponse struct {
	Splits []LinkedSplitResponse `json:"splits"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// AccountTallyResponse represents per-account reconcile state counts.
type AccountTallyResponse struct {
	LinkID      string `json:"link_id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Alias       string `json:"alias,omitempty"`
	New         int64  `json:"new"`
	Cleared     int64  `json:"cleared"`
	Reconciled  int64  `json:"reconciled"`
	Referenced  int64  `json:"referenced"`
}

// ReconciliationSummaryResponse represents the response for GET /reconciliation/summary.
type ReconciliationSummaryResponse struct {
	TotalPending    int                    `json:"total_pending"`
	TotalLinked     int                    `json:"total_linked"`
	TotalReconciled int                    `json:"total_reconciled"`
	OpenConflicts   int                    `json:"open_conflicts"`
	Accounts        []AccountTallyResponse `json:"accounts"`
}

// ManualLinkResponse represents the response for manually linking a feed item.
type ManualLinkResponse struct {
	Split        SplitResponse `json:"split"`
	AmountsMatch bool          `json:"amounts_match"`
	Difference   string        `json:"difference"`
}

// UnlinkResponse represents the response for unlinking a split.
type UnlinkResponse struct {
	Split              SplitResponse `json:"split"`
	ReleasedExternalID string        `json:"released_external_id"`
}

// CandidateListResponse represents the response for listing manual-link candidates.
type CandidateListResponse struct {
	Candidates []CandidateSplitResponse `json:"candidates"`
}

// ToPendingSplitResponse converts pending split data to a PendingSplitResponse DTO.
func ToPendingSplitResponse(data adapter.PendingSplitData) PendingSplitResponse {
	return PendingSplitResponse{
		SplitID:        data.SplitID.String(),
		TransactionID:  data.TransactionID.String(),
		AccountID:      data.AccountID.String(),
		AccountName:    data.AccountName,
		Date:           data.Date.Format("2006-01-02"),
		Description:    data.Description,
		Memo:           data.Memo,
		Amount:         data.Amount.String(),
		ReconcileState: data.ReconcileState,
	}
}

// ToGetPendingResponse converts pending listing output to a GetPendingResponse.
func ToGetPendingResponse(output *reconciliation.GetPendingOutput) GetPendingResponse {
	splits := make([]PendingSplitResponse, 0, len(output.Splits))
	for _, split := range output.Splits {
		splits = append(splits, ToPendingSplitResponse(split))
	}

	return GetPendingResponse{
		Splits: splits,
		Total:  output.Total,
		Limit:  output.Limit,
		Offset: output.Offset,
	}
}

// ToGetLinkedResponse converts linked listing output to a GetLinkedResponse.
func ToGetLinkedResponse(output *reconciliation.GetLinkedOutput) GetLinkedResponse {
	splits := make([]LinkedSplitResponse, 0, len(output.Splits))
	for _, data := range output.Splits {
		response := LinkedSplitResponse{
			PendingSplitResponse: PendingSplitResponse{
				SplitID:        data.SplitID.String(),
				TransactionID:  data.TransactionID.String(),
				AccountID:      data.AccountID.String(),
				AccountName:    data.AccountName,
				Date:           data.Date.Format("2006-01-02"),
				Description:    data.Description,
				Memo:           data.Memo,
				Amount:         data.Amount.String(),
				ReconcileState: data.ReconcileState,
			},
			ExternalID: data.ExternalID,
		}
		if data.Counterparty != nil {
			response.Counterparty = *data.Counterparty
		}
		splits = append(splits, response)
	}

	return GetLinkedResponse{
		Splits: splits,
		Total:  output.Total,
		Limit:  output.Limit,
		Offset: output.Offset,
	}
}

// ToReconciliationSummaryResponse converts summary output to a ReconciliationSummaryResponse.
func ToReconciliationSummaryResponse(output *reconciliation.GetSummaryOutput) ReconciliationSummaryResponse {
	accounts := make([]AccountTallyResponse, 0, len(output.Accounts))
	for _, tally := range output.Accounts {
		accounts = append(accounts, AccountTallyResponse{
			LinkID:      tally.LinkID.String(),
			AccountID:   tally.AccountID.String(),
			AccountName: tally.AccountName,
			Alias:       tally.Alias,
			New:         tally.New,
			Cleared:     tally.Cleared,
			Reconciled:  tally.Reconciled,
			Referenced:  tally.Referenced,
		})
	}

	return ReconciliationSummaryResponse{
		TotalPending:    output.Overall.TotalPending,
		TotalLinked:     output.Overall.TotalLinked,
		TotalReconciled: output.Overall.TotalReconciled,
		OpenConflicts:   output.Overall.OpenConflicts,
		Accounts:        accounts,
	}
}

// ToManualLinkResponse converts manual link output to a ManualLinkResponse.
func ToManualLinkResponse(output *reconciliation.ManualLinkOutput) ManualLinkResponse {
	return ManualLinkResponse{
		Split:        ToSplitResponse(output.Split, nil),
		AmountsMatch: output.AmountsMatch,
		Difference:   output.Difference.String(),
	}
}

// ToUnlinkResponse converts unlink output to an UnlinkResponse.
func ToUnlinkResponse(output *reconciliation.UnlinkOutput) UnlinkResponse {
	return UnlinkResponse{
		Split:              ToSplitResponse(output.Split, nil),
		ReleasedExternalID: output.ReleasedExternalID,
	}
}

// ToCandidateListResponse converts candidate listing output to a CandidateListResponse.
func ToCandidateListResponse(output *reconciliation.GetCandidatesOutput) CandidateListResponse {
	candidates := make([]CandidateSplitResponse, 0, len(output.Candidates))
	for _, data := range output.Candidates {
		response := CandidateSplitResponse{
			SplitID:       data.SplitID.String(),
			TransactionID: data.TransactionID.String(),
			Date:          data.Date.Format("2006-01-02"),
			Description:   data.Description,
			Amount:        data.Amount.String(),
			ExternalID:    data.ExternalID,
		}
		if data.Counterparty != nil {
			response.Counterparty = *data.Counterparty
		}
		candidates = append(candidates, response)
	}

	return CandidateListResponse{Candidates: candidates}
}
