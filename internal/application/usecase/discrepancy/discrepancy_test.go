// Package discrepancy contains balance discrepancy review use cases.
package discrepancy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func newOpenDiscrepancy() *entity.Discrepancy {
	return entity.NewDiscrepancy(
		uuid.New(),
		decimal.RequireFromString("1250.00"),
		decimal.RequireFromString("1190.00"),
	)
}

func TestListDiscrepancies_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("lists with a status filter and the open count", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		repo.listed = []*entity.DiscrepancyWithLink{
			{Discrepancy: newOpenDiscrepancy()},
		}
		repo.openCount = 3
		uc := NewListDiscrepanciesUseCase(repo)

		output, err := uc.Execute(ctx, ListDiscrepanciesInput{Status: "open"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(output.Discrepancies) != 1 || output.OpenCount != 3 {
			t.Errorf("got %d discrepancies open %d, want 1 and 3", len(output.Discrepancies), output.OpenCount)
		}
		if repo.lastStatus != entity.DiscrepancyStatusOpen {
			t.Errorf("status filter = %q, want open", repo.lastStatus)
		}
	})

	t.Run("an empty status lists everything", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		uc := NewListDiscrepanciesUseCase(repo)

		if _, err := uc.Execute(ctx, ListDiscrepanciesInput{}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if repo.lastStatus != "" {
			t.Errorf("status filter = %q, want empty", repo.lastStatus)
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		uc := NewListDiscrepanciesUseCase(newFakeDiscrepancyRepo())

		_, err := uc.Execute(ctx, ListDiscrepanciesInput{Status: "pending"})
		if !errors.Is(err, domainerror.ErrInvalidDiscrepancyStatus) {
			t.Errorf("Execute() error = %v, want ErrInvalidDiscrepancyStatus", err)
		}
	})
}

func TestResolveDiscrepancy_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an open discrepancy with a trimmed note", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		discrepancy := repo.add(newOpenDiscrepancy())
		uc := NewResolveDiscrepancyUseCase(repo)

		output, err := uc.Execute(ctx, ResolveDiscrepancyInput{
			DiscrepancyID: discrepancy.ID,
			Note:          "  entered the missing rent transaction  ",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Discrepancy.Status != entity.DiscrepancyStatusResolved {
			t.Errorf("Status = %q, want resolved", output.Discrepancy.Status)
		}
		if output.Discrepancy.Note != "entered the missing rent transaction" {
			t.Errorf("Note = %q, want it trimmed", output.Discrepancy.Note)
		}
		if output.Discrepancy.ResolvedAt == nil {
			t.Error("ResolvedAt was not stamped")
		}
		if len(repo.updated) != 1 {
			t.Errorf("updated %d discrepancies, want 1", len(repo.updated))
		}
	})

	t.Run("refuses a closed discrepancy", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		discrepancy := repo.add(newOpenDiscrepancy())
		discrepancy.Ignore("")
		uc := NewResolveDiscrepancyUseCase(repo)

		_, err := uc.Execute(ctx, ResolveDiscrepancyInput{DiscrepancyID: discrepancy.ID})
		if !errors.Is(err, domainerror.ErrDiscrepancyClosed) {
			t.Errorf("Execute() error = %v, want ErrDiscrepancyClosed", err)
		}
	})

	t.Run("returns a coded error for an unknown discrepancy", func(t *testing.T) {
		uc := NewResolveDiscrepancyUseCase(newFakeDiscrepancyRepo())

		_, err := uc.Execute(ctx, ResolveDiscrepancyInput{DiscrepancyID: uuid.New()})
		if !errors.Is(err, domainerror.ErrDiscrepancyNotFound) {
			t.Errorf("Execute() error = %v, want ErrDiscrepancyNotFound", err)
		}
	})
}

func TestIgnoreDiscrepancy_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores an open discrepancy", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		discrepancy := repo.add(newOpenDiscrepancy())
		uc := NewIgnoreDiscrepancyUseCase(repo)

		output, err := uc.Execute(ctx, IgnoreDiscrepancyInput{
			DiscrepancyID: discrepancy.ID,
			Note:          "pending card authorizations, expected to settle",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Discrepancy.Status != entity.DiscrepancyStatusIgnored {
			t.Errorf("Status = %q, want ignored", output.Discrepancy.Status)
		}
		if output.Discrepancy.ResolvedAt == nil {
			t.Error("ResolvedAt was not stamped")
		}
	})

	t.Run("refuses a closed discrepancy", func(t *testing.T) {
		repo := newFakeDiscrepancyRepo()
		discrepancy := repo.add(newOpenDiscrepancy())
		discrepancy.Resolve("")
		uc := NewIgnoreDiscrepancyUseCase(repo)

		_, err := uc.Execute(ctx, IgnoreDiscrepancyInput{DiscrepancyID: discrepancy.ID})
		if !errors.Is(err, domainerror.ErrDiscrepancyClosed) {
			t.Errorf("Execute() error = %v, want ErrDiscrepancyClosed", err)
		}
	})
}
