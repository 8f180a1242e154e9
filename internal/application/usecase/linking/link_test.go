// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

type linkFixture struct {
	linkRepo        *fakeLinkRepo
	accountRepo     *fakeAccountRepo
	requisitionRepo *fakeRequisitionRepo
	checking        *entity.Account
	requisition     *entity.Requisition
}

func newLinkFixture() *linkFixture {
	f := &linkFixture{
		linkRepo:        newFakeLinkRepo(),
		accountRepo:     newFakeAccountRepo(),
		requisitionRepo: newFakeRequisitionRepo(),
	}
	f.checking = f.accountRepo.add(entity.NewAccount("Checking", nil, entity.AccountTypeAsset, "EUR", ""))
	requisition := entity.NewRequisition("req-provider-1", "TESTBANK_XX", entity.RequisitionStatusLinked, "", "ref-1")
	requisition.AccountIDs = []string{"bank-1", "bank-2"}
	f.requisition = f.requisitionRepo.add(requisition)
	return f
}

func TestCreateLink_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("links a bank account to a ledger account", func(t *testing.T) {
		f := newLinkFixture()
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		output, err := uc.Execute(ctx, CreateLinkInput{
			BankAccountID:   "bank-1",
			LedgerAccountID: &f.checking.ID,
			Alias:           "Main checking",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		link := output.Link
		if link.LedgerAccountID != f.checking.ID {
			t.Error("link points at the wrong ledger account")
		}
		if link.RequisitionID == nil || *link.RequisitionID != f.requisition.ID {
			t.Error("link does not record the requisition it came from")
		}
		if link.InstitutionID != "TESTBANK_XX" {
			t.Errorf("InstitutionID = %q, want inherited from the requisition", link.InstitutionID)
		}
		if link.DateBasis != entity.DateBasisBooking {
			t.Errorf("DateBasis = %q, want the booking default", link.DateBasis)
		}
		if !link.SyncEnabled {
			t.Error("SyncEnabled = false, want new links enabled")
		}
	})

	t.Run("resolves the ledger account by full name", func(t *testing.T) {
		f := newLinkFixture()
		savings := f.accountRepo.add(entity.NewAccount("Savings", nil, entity.AccountTypeAsset, "EUR", ""))
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		output, err := uc.Execute(ctx, CreateLinkInput{
			BankAccountID:     "bank-2",
			LedgerAccountPath: "Savings",
			DateBasis:         "valueDate",
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Link.LedgerAccountID != savings.ID {
			t.Error("link points at the wrong ledger account")
		}
		if output.Link.DateBasis != entity.DateBasisValue {
			t.Errorf("DateBasis = %q, want valueDate", output.Link.DateBasis)
		}
	})

	t.Run("rejects a bank account outside any completed consent", func(t *testing.T) {
		f := newLinkFixture()
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{BankAccountID: "bank-unknown", LedgerAccountID: &f.checking.ID})
		if !errors.Is(err, domainerror.ErrBankAccountNotInRequisition) {
			t.Errorf("Execute() error = %v, want ErrBankAccountNotInRequisition", err)
		}
	})

	t.Run("rejects a bank account from an incomplete consent", func(t *testing.T) {
		f := newLinkFixture()
		pending := entity.NewRequisition("req-provider-2", "TESTBANK_XX", entity.RequisitionStatusCreated, "", "ref-2")
		pending.AccountIDs = []string{"bank-pending"}
		f.requisitionRepo.add(pending)
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{BankAccountID: "bank-pending", LedgerAccountID: &f.checking.ID})
		if !errors.Is(err, domainerror.ErrBankAccountNotInRequisition) {
			t.Errorf("Execute() error = %v, want ErrBankAccountNotInRequisition", err)
		}
	})

	t.Run("rejects a bank account that is already linked", func(t *testing.T) {
		f := newLinkFixture()
		f.linkRepo.add(entity.NewAccountLink(uuid.New(), nil, "bank-1", "TESTBANK_XX", "", entity.DateBasisBooking))
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{BankAccountID: "bank-1", LedgerAccountID: &f.checking.ID})
		if !errors.Is(err, domainerror.ErrBankAccountAlreadyLinked) {
			t.Errorf("Execute() error = %v, want ErrBankAccountAlreadyLinked", err)
		}
	})

	t.Run("rejects a ledger account that is already linked", func(t *testing.T) {
		f := newLinkFixture()
		f.linkRepo.add(entity.NewAccountLink(f.checking.ID, nil, "bank-2", "TESTBANK_XX", "", entity.DateBasisBooking))
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{BankAccountID: "bank-1", LedgerAccountID: &f.checking.ID})
		if !errors.Is(err, domainerror.ErrLedgerAccountAlreadyLinked) {
			t.Errorf("Execute() error = %v, want ErrLedgerAccountAlreadyLinked", err)
		}
	})

	t.Run("rejects an unknown date basis", func(t *testing.T) {
		f := newLinkFixture()
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{
			BankAccountID:   "bank-1",
			LedgerAccountID: &f.checking.ID,
			DateBasis:       "postingDate",
		})
		if !errors.Is(err, domainerror.ErrInvalidDateBasis) {
			t.Errorf("Execute() error = %v, want ErrInvalidDateBasis", err)
		}
	})

	t.Run("requires a ledger account id or name", func(t *testing.T) {
		f := newLinkFixture()
		uc := NewCreateLinkUseCase(f.linkRepo, f.accountRepo, f.requisitionRepo)

		_, err := uc.Execute(ctx, CreateLinkInput{BankAccountID: "bank-1"})
		if !errors.Is(err, domainerror.ErrLinkAccountNotFound) {
			t.Errorf("Execute() error = %v, want ErrLinkAccountNotFound", err)
		}
	})
}

func TestUpdateLink_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("updates alias, date basis and sync flag", func(t *testing.T) {
		linkRepo := newFakeLinkRepo()
		link := linkRepo.add(entity.NewAccountLink(uuid.New(), nil, "bank-1", "TESTBANK_XX", "Old", entity.DateBasisBooking))
		uc := NewUpdateLinkUseCase(linkRepo)

		alias := "  New alias  "
		basis := "valueDate"
		disabled := false
		output, err := uc.Execute(ctx, UpdateLinkInput{
			LinkID:      link.ID,
			Alias:       &alias,
			DateBasis:   &basis,
			SyncEnabled: &disabled,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.Link.Alias != "New alias" {
			t.Errorf("Alias = %q, want trimmed %q", output.Link.Alias, "New alias")
		}
		if output.Link.DateBasis != entity.DateBasisValue {
			t.Errorf("DateBasis = %q, want valueDate", output.Link.DateBasis)
		}
		if output.Link.SyncEnabled {
			t.Error("SyncEnabled = true, want disabled")
		}
		if len(linkRepo.updated) != 1 {
			t.Errorf("stored %d updates, want 1", len(linkRepo.updated))
		}
	})

	t.Run("rejects an unknown date basis", func(t *testing.T) {
		linkRepo := newFakeLinkRepo()
		link := linkRepo.add(entity.NewAccountLink(uuid.New(), nil, "bank-1", "TESTBANK_XX", "", entity.DateBasisBooking))
		uc := NewUpdateLinkUseCase(linkRepo)

		basis := "whenever"
		_, err := uc.Execute(ctx, UpdateLinkInput{LinkID: link.ID, DateBasis: &basis})
		if !errors.Is(err, domainerror.ErrInvalidDateBasis) {
			t.Errorf("Execute() error = %v, want ErrInvalidDateBasis", err)
		}
	})

	t.Run("reports a missing link", func(t *testing.T) {
		uc := NewUpdateLinkUseCase(newFakeLinkRepo())

		_, err := uc.Execute(ctx, UpdateLinkInput{LinkID: uuid.New()})
		if !errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			t.Errorf("Execute() error = %v, want ErrAccountLinkNotFound", err)
		}
	})
}

func TestDeleteLink_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing link", func(t *testing.T) {
		linkRepo := newFakeLinkRepo()
		link := linkRepo.add(entity.NewAccountLink(uuid.New(), nil, "bank-1", "TESTBANK_XX", "", entity.DateBasisBooking))
		uc := NewDeleteLinkUseCase(linkRepo)

		output, err := uc.Execute(ctx, DeleteLinkInput{LinkID: link.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Success {
			t.Error("Success = false, want true")
		}
		if len(linkRepo.deleted) != 1 || linkRepo.deleted[0] != link.ID {
			t.Errorf("deleted = %v, want [%s]", linkRepo.deleted, link.ID)
		}
	})

	t.Run("reports a missing link", func(t *testing.T) {
		uc := NewDeleteLinkUseCase(newFakeLinkRepo())

		_, err := uc.Execute(ctx, DeleteLinkInput{LinkID: uuid.New()})
		if !errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			t.Errorf("Execute() error = %v, want ErrAccountLinkNotFound", err)
		}
	})
}
