// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetPending_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns pending splits with the echoed window", func(t *testing.T) {
		repo := newFakeReconciliationRepo()
		repo.pending = []adapter.PendingSplitData{
			{SplitID: uuid.New(), AccountName: "Assets:Checking", Amount: amount("-12.50")},
		}
		repo.pendingTotal = 41
		uc := NewGetPendingUseCase(repo)

		accountID := uuid.New()
		output, err := uc.Execute(ctx, GetPendingInput{AccountID: &accountID, Limit: 10, Offset: 20})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Splits) != 1 || output.Total != 41 {
			t.Errorf("got %d splits total %d, want 1 split total 41", len(output.Splits), output.Total)
		}
		if output.Limit != 10 || output.Offset != 20 {
			t.Errorf("window = %d/%d, want 10/20", output.Limit, output.Offset)
		}
		if repo.lastAccountID == nil || *repo.lastAccountID != accountID {
			t.Error("account filter was not passed to the repository")
		}
	})

	t.Run("clamps the window", func(t *testing.T) {
		repo := newFakeReconciliationRepo()
		uc := NewGetPendingUseCase(repo)

		if _, err := uc.Execute(ctx, GetPendingInput{Limit: 0, Offset: -3}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if repo.lastLimit != defaultReviewLimit || repo.lastOffset != 0 {
			t.Errorf("window = %d/%d, want %d/0", repo.lastLimit, repo.lastOffset, defaultReviewLimit)
		}

		if _, err := uc.Execute(ctx, GetPendingInput{Limit: 9999}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if repo.lastLimit != maxReviewLimit {
			t.Errorf("limit = %d, want capped at %d", repo.lastLimit, maxReviewLimit)
		}
	})
}

func TestGetLinked_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns linked splits with their references", func(t *testing.T) {
		counterparty := "REWE SAGT DANKE"
		repo := newFakeReconciliationRepo()
		repo.linked = []adapter.LinkedSplitData{
			{SplitID: uuid.New(), ExternalID: "feed-1", Counterparty: &counterparty, ReconcileState: "y"},
		}
		repo.linkedTotal = 1
		uc := NewGetLinkedUseCase(repo)

		output, err := uc.Execute(ctx, GetLinkedInput{})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Splits) != 1 || output.Splits[0].ExternalID != "feed-1" {
			t.Fatalf("output = %+v, want the linked split", output.Splits)
		}
		if repo.lastAccountID != nil {
			t.Error("expected no account filter")
		}
		if output.Limit != defaultReviewLimit {
			t.Errorf("Limit = %d, want default %d", output.Limit, defaultReviewLimit)
		}
	})
}

func TestGetCandidates_Execute(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)

	newPendingSplit := func(transactionRepo *fakeTransactionRepo) *entity.Split {
		split := entity.NewSplit(uuid.New(), amount("-30.00"), "")
		transactionRepo.add(entity.NewLedgerTransaction(date, "Card payment", "EUR", []*entity.Split{split}))
		return split
	}

	t.Run("searches around the posting date with the split amount", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		reconciliationRepo := newFakeReconciliationRepo()
		reconciliationRepo.candidates = []adapter.CandidateSplitData{
			{SplitID: uuid.New(), ExternalID: "feed-9", Amount: amount("-30.00")},
		}
		split := newPendingSplit(transactionRepo)
		uc := NewGetCandidatesUseCase(transactionRepo, reconciliationRepo)

		output, err := uc.Execute(ctx, GetCandidatesInput{SplitID: split.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Candidates) != 1 {
			t.Fatalf("got %d candidates, want 1", len(output.Candidates))
		}
		if reconciliationRepo.lastCandidate.accountID != split.AccountID {
			t.Error("candidate search used the wrong account")
		}
		if !reconciliationRepo.lastCandidate.amount.Equal(split.Amount) {
			t.Errorf("candidate amount = %s, want %s", reconciliationRepo.lastCandidate.amount, split.Amount)
		}
		wantStart := date.AddDate(0, 0, -5)
		wantEnd := date.AddDate(0, 0, 5)
		if !reconciliationRepo.lastCandidate.dateRange.Start.Equal(wantStart) ||
			!reconciliationRepo.lastCandidate.dateRange.End.Equal(wantEnd) {
			t.Errorf("date range = %v..%v, want %v..%v",
				reconciliationRepo.lastCandidate.dateRange.Start, reconciliationRepo.lastCandidate.dateRange.End,
				wantStart, wantEnd)
		}
	})

	t.Run("refuses a split that is already linked", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newPendingSplit(transactionRepo)
		split.SetExternalReference("feed-1", "")
		uc := NewGetCandidatesUseCase(transactionRepo, newFakeReconciliationRepo())

		_, err := uc.Execute(ctx, GetCandidatesInput{SplitID: split.ID})
		if !errors.Is(err, domainerror.ErrSplitAlreadyLinked) {
			t.Errorf("Execute() error = %v, want ErrSplitAlreadyLinked", err)
		}
	})

	t.Run("returns a coded error for an unknown split", func(t *testing.T) {
		uc := NewGetCandidatesUseCase(newFakeTransactionRepo(), newFakeReconciliationRepo())

		_, err := uc.Execute(ctx, GetCandidatesInput{SplitID: uuid.New()})
		if !errors.Is(err, domainerror.ErrSplitNotFound) {
			t.Errorf("Execute() error = %v, want ErrSplitNotFound", err)
		}
	})
}

func TestGetSummary_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles overall statistics with per-account tallies", func(t *testing.T) {
		checking := entity.NewAccount("Checking", nil, entity.AccountTypeAsset, "EUR", "")
		savings := entity.NewAccount("Savings", nil, entity.AccountTypeAsset, "EUR", "")
		checkingLink := entity.NewAccountLink(checking.ID, nil, "bank-1", "BANK_DE", "Main", entity.DateBasisBooking)
		savingsLink := entity.NewAccountLink(savings.ID, nil, "bank-2", "BANK_DE", "", entity.DateBasisBooking)

		linkRepo := &fakeLinkRepo{links: []*entity.AccountLinkWithAccount{
			{Link: checkingLink, Account: checking},
			{Link: savingsLink, Account: savings},
		}}
		reconciliationRepo := newFakeReconciliationRepo()
		reconciliationRepo.summary = &adapter.ReconciliationSummaryData{
			TotalPending:    7,
			TotalLinked:     120,
			TotalReconciled: 115,
			OpenConflicts:   2,
		}
		reconciliationRepo.tallies[checking.ID] = &adapter.ReconcileTallyData{New: 3, Cleared: 1, Reconciled: 80, Referenced: 81}
		uc := NewGetSummaryUseCase(linkRepo, reconciliationRepo)

		output, err := uc.Execute(ctx, GetSummaryInput{})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Overall.TotalPending != 7 || output.Overall.OpenConflicts != 2 {
			t.Errorf("Overall = %+v, want the repository summary", output.Overall)
		}
		if len(output.Accounts) != 2 {
			t.Fatalf("got %d account tallies, want 2", len(output.Accounts))
		}
		first := output.Accounts[0]
		if first.AccountName != "Checking" || first.Alias != "Main" {
			t.Errorf("tally = %+v, want the checking link", first)
		}
		if first.Reconciled != 80 || first.Referenced != 81 {
			t.Errorf("tally counts = %+v, want reconciled 80 referenced 81", first)
		}
		if output.Accounts[1].New != 0 {
			t.Errorf("untallied account should report zero counts, got %+v", output.Accounts[1])
		}
	})
}
