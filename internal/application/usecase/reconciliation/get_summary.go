// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// GetSummaryInput represents the input for getting the reconciliation summary.
type GetSummaryInput struct{}

// AccountTallyOutput counts one linked account's splits per reconcile state.
type AccountTallyOutput struct {
	LinkID      uuid.UUID
	AccountID   uuid.UUID
	AccountName string
	Alias       string
	New         int64
	Cleared     int64
	Reconciled  int64
	Referenced  int64
}

// OverallSummaryOutput contains summary statistics across all accounts.
type OverallSummaryOutput struct {
	TotalPending    int
	TotalLinked     int
	TotalReconciled int
	OpenConflicts   int
}

// GetSummaryOutput represents the output for getting the reconciliation summary.
type GetSummaryOutput struct {
	Overall  OverallSummaryOutput
	Accounts []AccountTallyOutput
}

// GetSummaryUseCase handles getting the reconciliation summary.
type GetSummaryUseCase struct {
	linkRepo           adapter.AccountLinkRepository
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	linkRepo adapter.AccountLinkRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		linkRepo:           linkRepo,
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute retrieves overall reconciliation statistics plus a per-account tally
// for every linked ledger account.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	summary, err := uc.reconciliationRepo.GetReconciliationSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reconciliation summary: %w", err)
	}

	links, err := uc.linkRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find account links: %w", err)
	}

	accounts := make([]AccountTallyOutput, 0, len(links))
	for _, link := range links {
		tally, err := uc.reconciliationRepo.TallyReconcileStates(ctx, link.Account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to tally reconcile states for %s: %w", link.Account.FullName, err)
		}

		accounts = append(accounts, AccountTallyOutput{
			LinkID:      link.Link.ID,
			AccountID:   link.Account.ID,
			AccountName: link.Account.FullName,
			Alias:       link.Link.Alias,
			New:         tally.New,
			Cleared:     tally.Cleared,
			Reconciled:  tally.Reconciled,
			Referenced:  tally.Referenced,
		})
	}

	return &GetSummaryOutput{
		Overall: OverallSummaryOutput{
			TotalPending:    summary.TotalPending,
			TotalLinked:     summary.TotalLinked,
			TotalReconciled: summary.TotalReconciled,
			OpenConflicts:   summary.OpenConflicts,
		},
		Accounts: accounts,
	}, nil
}
