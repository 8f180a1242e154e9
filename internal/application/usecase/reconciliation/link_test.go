// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func newStoredSplit(transactionRepo *fakeTransactionRepo, amountStr string) *entity.Split {
	split := entity.NewSplit(uuid.New(), amount(amountStr), "")
	date := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	transactionRepo.add(entity.NewLedgerTransaction(date, "Card payment", "EUR", []*entity.Split{split}))
	return split
}

func TestManualLink_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("links and reconciles when the amounts agree", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		uc := NewManualLinkUseCase(transactionRepo)

		output, err := uc.Execute(ctx, ManualLinkInput{
			SplitID:      split.ID,
			ExternalID:   "  feed-42  ",
			Counterparty: "REWE SAGT DANKE",
			FeedAmount:   amount("-45.60"),
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if split.ExternalID == nil || *split.ExternalID != "feed-42" {
			t.Fatalf("ExternalID = %v, want trimmed feed-42", split.ExternalID)
		}
		if split.Counterparty == nil || *split.Counterparty != "REWE SAGT DANKE" {
			t.Errorf("Counterparty = %v, want the remittance text", split.Counterparty)
		}
		if split.ReconcileState != entity.ReconcileStateReconciled {
			t.Errorf("ReconcileState = %q, want reconciled", split.ReconcileState)
		}
		if !output.AmountsMatch || !output.Difference.IsZero() {
			t.Errorf("output = %+v, want matching amounts with zero difference", output)
		}
		if len(transactionRepo.updatedSplits) != 1 {
			t.Errorf("updated %d splits, want 1", len(transactionRepo.updatedSplits))
		}
	})

	t.Run("refuses a disagreeing amount without force", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		uc := NewManualLinkUseCase(transactionRepo)

		_, err := uc.Execute(ctx, ManualLinkInput{
			SplitID:    split.ID,
			ExternalID: "feed-42",
			FeedAmount: amount("-99.99"),
		})
		if !errors.Is(err, domainerror.ErrAmountConflict) {
			t.Fatalf("Execute() error = %v, want ErrAmountConflict", err)
		}
		if split.ExternalID != nil {
			t.Error("split must stay untouched after a refused link")
		}
		if len(transactionRepo.updatedSplits) != 0 {
			t.Error("no split update expected after a refused link")
		}
	})

	t.Run("force links a disagreeing amount without reconciling", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		uc := NewManualLinkUseCase(transactionRepo)

		output, err := uc.Execute(ctx, ManualLinkInput{
			SplitID:    split.ID,
			ExternalID: "feed-42",
			FeedAmount: amount("-99.99"),
			Force:      true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if split.ExternalID == nil || *split.ExternalID != "feed-42" {
			t.Fatal("forced link must still stamp the reference")
		}
		if split.ReconcileState != entity.ReconcileStateNew {
			t.Errorf("ReconcileState = %q, want new so the conflict stays visible", split.ReconcileState)
		}
		if output.AmountsMatch {
			t.Error("AmountsMatch should report the disagreement")
		}
		if !output.Difference.Equal(amount("-54.39")) {
			t.Errorf("Difference = %s, want -54.39", output.Difference)
		}
	})

	t.Run("refuses a split that is already linked", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		split.SetExternalReference("feed-1", "")
		uc := NewManualLinkUseCase(transactionRepo)

		_, err := uc.Execute(ctx, ManualLinkInput{
			SplitID:    split.ID,
			ExternalID: "feed-2",
			FeedAmount: amount("-45.60"),
		})
		if !errors.Is(err, domainerror.ErrSplitAlreadyLinked) {
			t.Errorf("Execute() error = %v, want ErrSplitAlreadyLinked", err)
		}
	})

	t.Run("refuses an external id held by another split on the account", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		sibling := entity.NewSplit(split.AccountID, amount("-45.60"), "")
		sibling.SetExternalReference("feed-42", "")
		date := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
		transactionRepo.add(entity.NewLedgerTransaction(date, "Earlier import", "EUR", []*entity.Split{sibling}))
		uc := NewManualLinkUseCase(transactionRepo)

		_, err := uc.Execute(ctx, ManualLinkInput{
			SplitID:    split.ID,
			ExternalID: "feed-42",
			FeedAmount: amount("-45.60"),
		})
		if !errors.Is(err, domainerror.ErrExternalIDTaken) {
			t.Errorf("Execute() error = %v, want ErrExternalIDTaken", err)
		}
	})

	t.Run("requires an external id", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		uc := NewManualLinkUseCase(transactionRepo)

		_, err := uc.Execute(ctx, ManualLinkInput{SplitID: split.ID, ExternalID: "   "})
		if !errors.Is(err, domainerror.ErrMissingTransactionField) {
			t.Errorf("Execute() error = %v, want ErrMissingTransactionField", err)
		}
	})

	t.Run("returns a coded error for an unknown split", func(t *testing.T) {
		uc := NewManualLinkUseCase(newFakeTransactionRepo())

		_, err := uc.Execute(ctx, ManualLinkInput{SplitID: uuid.New(), ExternalID: "feed-42"})
		if !errors.Is(err, domainerror.ErrSplitNotFound) {
			t.Errorf("Execute() error = %v, want ErrSplitNotFound", err)
		}
	})
}

func TestUnlink_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the reference and drops reconciled to cleared", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		split.SetExternalReference("feed-42", "REWE SAGT DANKE")
		split.MarkReconciled()
		uc := NewUnlinkUseCase(transactionRepo)

		output, err := uc.Execute(ctx, UnlinkInput{SplitID: split.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.ReleasedExternalID != "feed-42" {
			t.Errorf("ReleasedExternalID = %q, want feed-42", output.ReleasedExternalID)
		}
		if split.ExternalID != nil || split.Counterparty != nil {
			t.Error("reference must be cleared")
		}
		if split.ReconcileState != entity.ReconcileStateCleared {
			t.Errorf("ReconcileState = %q, want cleared", split.ReconcileState)
		}
		if len(transactionRepo.updatedSplits) != 1 {
			t.Errorf("updated %d splits, want 1", len(transactionRepo.updatedSplits))
		}
	})

	t.Run("refuses a split without a reference", func(t *testing.T) {
		transactionRepo := newFakeTransactionRepo()
		split := newStoredSplit(transactionRepo, "-45.60")
		uc := NewUnlinkUseCase(transactionRepo)

		_, err := uc.Execute(ctx, UnlinkInput{SplitID: split.ID})
		if !errors.Is(err, domainerror.ErrSplitNotLinked) {
			t.Errorf("Execute() error = %v, want ErrSplitNotLinked", err)
		}
	})

	t.Run("returns a coded error for an unknown split", func(t *testing.T) {
		uc := NewUnlinkUseCase(newFakeTransactionRepo())

		_, err := uc.Execute(ctx, UnlinkInput{SplitID: uuid.New()})
		if !errors.Is(err, domainerror.ErrSplitNotFound) {
			t.Errorf("Execute() error = %v, want ErrSplitNotFound", err)
		}
	})
}
