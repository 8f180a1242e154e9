// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func TestCreateRequisition_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("starts a consent flow and stores the requisition", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		uc := NewCreateRequisitionUseCase(repo, &fakeFeedClient{}, &fakeTokenManager{}, "https://app.example/callback")

		output, err := uc.Execute(ctx, CreateRequisitionInput{InstitutionID: "TESTBANK_XX"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		requisition := output.Requisition
		if requisition.ProviderID != "req-provider-1" {
			t.Errorf("ProviderID = %q, want the provider's id", requisition.ProviderID)
		}
		if requisition.Status != entity.RequisitionStatusCreated {
			t.Errorf("Status = %q, want %q", requisition.Status, entity.RequisitionStatusCreated)
		}
		if requisition.Link == "" {
			t.Error("authorisation link is empty")
		}
		if requisition.Reference == "" {
			t.Error("reference is empty")
		}
		if len(repo.created) != 1 {
			t.Errorf("stored %d requisitions, want 1", len(repo.created))
		}
	})

	t.Run("requires an institution id", func(t *testing.T) {
		uc := NewCreateRequisitionUseCase(newFakeRequisitionRepo(), &fakeFeedClient{}, &fakeTokenManager{}, "")

		_, err := uc.Execute(ctx, CreateRequisitionInput{InstitutionID: "  "})
		if !errors.Is(err, domainerror.ErrInstitutionNotFound) {
			t.Errorf("Execute() error = %v, want ErrInstitutionNotFound", err)
		}
	})
}

func TestGetRequisition_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes status and discovered accounts from the provider", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		stored := repo.add(entity.NewRequisition("req-provider-1", "TESTBANK_XX", entity.RequisitionStatusCreated, "https://consent.example", "ref-1"))
		linkRepo := newFakeLinkRepo()
		linkRepo.add(entity.NewAccountLink(uuid.New(), nil, "bank-1", "TESTBANK_XX", "", entity.DateBasisBooking))
		client := &fakeFeedClient{providedState: &adapter.ProviderRequisition{
			ID:         "req-provider-1",
			Status:     entity.RequisitionStatusLinked,
			AccountIDs: []string{"bank-1", "bank-2"},
		}}
		uc := NewGetRequisitionUseCase(repo, linkRepo, client, &fakeTokenManager{})

		output, err := uc.Execute(ctx, GetRequisitionInput{RequisitionID: stored.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Requisition.IsLinked() {
			t.Error("requisition not marked linked after refresh")
		}
		if len(output.Requisition.AccountIDs) != 2 {
			t.Errorf("got %d discovered accounts, want 2", len(output.Requisition.AccountIDs))
		}
		if !output.LinkedBankAccounts["bank-1"] || output.LinkedBankAccounts["bank-2"] {
			t.Errorf("LinkedBankAccounts = %v, want only bank-1 marked", output.LinkedBankAccounts)
		}
		if len(repo.updated) != 1 {
			t.Errorf("stored %d refreshes, want 1", len(repo.updated))
		}
	})

	t.Run("reports a requisition deleted at the provider", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		stored := repo.add(entity.NewRequisition("req-gone", "TESTBANK_XX", entity.RequisitionStatusCreated, "", "ref-2"))
		uc := NewGetRequisitionUseCase(repo, newFakeLinkRepo(), &fakeFeedClient{}, &fakeTokenManager{})

		_, err := uc.Execute(ctx, GetRequisitionInput{RequisitionID: stored.ID})
		if !errors.Is(err, domainerror.ErrRequisitionNotFound) {
			t.Errorf("Execute() error = %v, want ErrRequisitionNotFound", err)
		}
	})

	t.Run("reports a missing requisition", func(t *testing.T) {
		uc := NewGetRequisitionUseCase(newFakeRequisitionRepo(), newFakeLinkRepo(), &fakeFeedClient{}, &fakeTokenManager{})

		_, err := uc.Execute(ctx, GetRequisitionInput{RequisitionID: uuid.New()})
		if !errors.Is(err, domainerror.ErrRequisitionNotFound) {
			t.Errorf("Execute() error = %v, want ErrRequisitionNotFound", err)
		}
	})
}

func TestDeleteRequisition_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes at the provider and locally", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		stored := repo.add(entity.NewRequisition("req-provider-1", "TESTBANK_XX", entity.RequisitionStatusLinked, "", "ref-1"))
		client := &fakeFeedClient{}
		uc := NewDeleteRequisitionUseCase(repo, client, &fakeTokenManager{})

		output, err := uc.Execute(ctx, DeleteRequisitionInput{RequisitionID: stored.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Success {
			t.Error("Success = false, want true")
		}
		if len(client.deletedProviderIDs) != 1 || client.deletedProviderIDs[0] != "req-provider-1" {
			t.Errorf("provider deletions = %v, want [req-provider-1]", client.deletedProviderIDs)
		}
		if len(repo.deleted) != 1 {
			t.Errorf("local deletions = %v, want one", repo.deleted)
		}
	})

	t.Run("still deletes locally when the provider already forgot it", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		stored := repo.add(entity.NewRequisition("req-gone", "TESTBANK_XX", entity.RequisitionStatusExpired, "", "ref-2"))
		client := &fakeFeedClient{deleteErr: domainerror.ErrRequisitionNotFound}
		uc := NewDeleteRequisitionUseCase(repo, client, &fakeTokenManager{})

		output, err := uc.Execute(ctx, DeleteRequisitionInput{RequisitionID: stored.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.Success {
			t.Error("Success = false, want true")
		}
		if len(repo.deleted) != 1 {
			t.Errorf("local deletions = %v, want one", repo.deleted)
		}
	})

	t.Run("keeps the local record when the provider call fails", func(t *testing.T) {
		repo := newFakeRequisitionRepo()
		stored := repo.add(entity.NewRequisition("req-provider-1", "TESTBANK_XX", entity.RequisitionStatusLinked, "", "ref-3"))
		client := &fakeFeedClient{deleteErr: domainerror.ErrFeedUnavailable}
		uc := NewDeleteRequisitionUseCase(repo, client, &fakeTokenManager{})

		_, err := uc.Execute(ctx, DeleteRequisitionInput{RequisitionID: stored.ID})
		if !errors.Is(err, domainerror.ErrFeedUnavailable) {
			t.Fatalf("Execute() error = %v, want ErrFeedUnavailable", err)
		}
		if len(repo.deleted) != 0 {
			t.Errorf("local deletions = %v, want none", repo.deleted)
		}
	})
}
