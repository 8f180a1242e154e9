// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// RunSummary represents one sync run in API responses.
type RunSummary struct {
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

// ListRunsInput represents the input for listing sync runs.
type ListRunsInput struct {
	// AccountLinkID restricts the listing to one link when set.
	AccountLinkID *uuid.UUID
	Limit         int
}

// ListRunsOutput represents the output of listing sync runs.
type ListRunsOutput struct {
	Runs []*RunSummary `json:"runs"`
}

// ListRunsUseCase handles listing recent sync runs.
type ListRunsUseCase struct {
	runRepo  adapter.SyncRunRepository
	linkRepo adapter.AccountLinkRepository
}

// NewListRunsUseCase creates a new ListRunsUseCase instance.
func NewListRunsUseCase(runRepo adapter.SyncRunRepository, linkRepo adapter.AccountLinkRepository) *ListRunsUseCase {
	return &ListRunsUseCase{
		runRepo:  runRepo,
		linkRepo: linkRepo,
	}
}

// Execute lists sync runs, newest first.
func (uc *ListRunsUseCase) Execute(ctx context.Context, input ListRunsInput) (*ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	if input.AccountLinkID != nil {
		runs, err := uc.runRepo.FindByLink(ctx, *input.AccountLinkID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list sync runs: %w", err)
		}
		var link *entity.AccountLink
		if found, linkErr := uc.linkRepo.FindByID(ctx, *input.AccountLinkID); linkErr == nil {
			link = found
		}
		summaries := make([]*RunSummary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, toRunSummary(run, link))
		}
		return &ListRunsOutput{Runs: summaries}, nil
	}

	withLinks, err := uc.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	summaries := make([]*RunSummary, 0, len(withLinks))
	for _, item := range withLinks {
		summaries = append(summaries, toRunSummary(item.Run, item.Link))
	}
	return &ListRunsOutput{Runs: summaries}, nil
}

// toRunSummary maps a run and its link to the API shape.
func toRunSummary(run *entity.SyncRun, link *entity.AccountLink) *RunSummary {
	summary := &RunSummary{
		ID:            run.ID.String(),
		AccountLinkID: run.AccountLinkID.String(),
		Status:        string(run.Status),
		StartedAt:     run.StartedAt.Format(time.RFC3339),
		Fetched:       run.Fetched,
		Confirmed:     run.Confirmed,
		Linked:        run.Linked,
		Created:       run.Created,
		Conflicts:     run.Conflicts,
		Pending:       run.Pending,
		LedgerBalance: run.LedgerBalance.StringFixed(2),
		BankBalance:   run.BankBalance.StringFixed(2),
		BalanceInSync: run.BalanceInSync,
		ErrorMessage:  run.ErrorMessage,
	}
	if run.FinishedAt != nil {
		summary.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	if link != nil {
		summary.LinkAlias = link.Alias
	}
	return summary
}
