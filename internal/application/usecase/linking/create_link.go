// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// CreateLinkInput represents the input for account link creation. The ledger
// account is addressed by ID or by full hierarchical name.
type CreateLinkInput struct {
	BankAccountID     string
	LedgerAccountID   *uuid.UUID
	LedgerAccountPath string
	Alias             string
	DateBasis         string // Optional, defaults to the booking date
}

// CreateLinkOutput represents the output of account link creation.
type CreateLinkOutput struct {
	Link *entity.AccountLink
}

// CreateLinkUseCase handles account link creation logic.
type CreateLinkUseCase struct {
	linkRepo        adapter.AccountLinkRepository
	accountRepo     adapter.AccountRepository
	requisitionRepo adapter.RequisitionRepository
}

// NewCreateLinkUseCase creates a new CreateLinkUseCase instance.
func NewCreateLinkUseCase(
	linkRepo adapter.AccountLinkRepository,
	accountRepo adapter.AccountRepository,
	requisitionRepo adapter.RequisitionRepository,
) *CreateLinkUseCase {
	return &CreateLinkUseCase{
		linkRepo:        linkRepo,
		accountRepo:     accountRepo,
		requisitionRepo: requisitionRepo,
	}
}

// Execute creates a link between a ledger account and a bank account. Both
// sides must be unlinked, and the bank account must come from a completed
// consent flow.
func (uc *CreateLinkUseCase) Execute(ctx context.Context, input CreateLinkInput) (*CreateLinkOutput, error) {
	// Validate the date basis
	if input.DateBasis != "" && !entity.IsValidDateBasis(input.DateBasis) {
		return nil, domainerror.NewLinkError(
			domainerror.ErrCodeInvalidDateBasis,
			fmt.Sprintf("date basis must be bookingDate or valueDate (got %q)", input.DateBasis),
			domainerror.ErrInvalidDateBasis,
		)
	}

	bankAccountID := strings.TrimSpace(input.BankAccountID)
	if bankAccountID == "" {
		return nil, domainerror.NewLinkError(
			domainerror.ErrCodeBankAccountNotInRequisition,
			"a bank account id is required",
			domainerror.ErrBankAccountNotInRequisition,
		)
	}

	// Resolve the ledger account
	account, err := uc.resolveAccount(ctx, input)
	if err != nil {
		return nil, err
	}

	// The bank account must have been unlocked by a completed consent flow
	requisition, err := uc.findRequisitionFor(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}

	// Both sides must be free
	if _, err := uc.linkRepo.FindByBankAccountID(ctx, bankAccountID); err == nil {
		return nil, domainerror.NewLinkError(
			domainerror.ErrCodeBankAccountAlreadyLinked,
			"this bank account is already linked to a ledger account",
			domainerror.ErrBankAccountAlreadyLinked,
		)
	} else if !errors.Is(err, domainerror.ErrAccountLinkNotFound) {
		return nil, fmt.Errorf("failed to check bank account link: %w", err)
	}
	if _, err := uc.linkRepo.FindByLedgerAccountID(ctx, account.ID); err == nil {
		return nil, domainerror.NewLinkError(
			domainerror.ErrCodeLedgerAccountAlreadyLinked,
			fmt.Sprintf("ledger account %q is already linked to a bank account", account.FullName),
			domainerror.ErrLedgerAccountAlreadyLinked,
		)
	} else if !errors.Is(err, domainerror.ErrAccountLinkNotFound) {
		return nil, fmt.Errorf("failed to check ledger account link: %w", err)
	}

	link := entity.NewAccountLink(
		account.ID,
		&requisition.ID,
		bankAccountID,
		requisition.InstitutionID,
		strings.TrimSpace(input.Alias),
		entity.DateBasis(input.DateBasis),
	)
	if err := uc.linkRepo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create account link: %w", err)
	}

	return &CreateLinkOutput{
		Link: link,
	}, nil
}

// resolveAccount finds the ledger account by ID or full name.
func (uc *CreateLinkUseCase) resolveAccount(ctx context.Context, input CreateLinkInput) (*entity.Account, error) {
	notFound := func() error {
		return domainerror.NewLinkError(
			domainerror.ErrCodeLinkAccountNotFound,
			"ledger account for link not found",
			domainerror.ErrLinkAccountNotFound,
		)
	}

	if input.LedgerAccountID != nil {
		account, err := uc.accountRepo.FindByID(ctx, *input.LedgerAccountID)
		if err != nil {
			if errors.Is(err, domainerror.ErrAccountNotFound) {
				return nil, notFound()
			}
			return nil, fmt.Errorf("failed to find ledger account: %w", err)
		}
		return account, nil
	}

	path := strings.TrimSpace(input.LedgerAccountPath)
	if path == "" {
		return nil, domainerror.NewLinkError(
			domainerror.ErrCodeLinkAccountNotFound,
			"a ledger account id or full name is required",
			domainerror.ErrLinkAccountNotFound,
		)
	}
	account, err := uc.accountRepo.FindByFullName(ctx, path)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("failed to find ledger account: %w", err)
	}
	return account, nil
}

// findRequisitionFor locates the completed requisition that unlocked a bank
// account.
func (uc *CreateLinkUseCase) findRequisitionFor(ctx context.Context, bankAccountID string) (*entity.Requisition, error) {
	requisitions, err := uc.requisitionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requisitions: %w", err)
	}
	for _, requisition := range requisitions {
		if !requisition.IsLinked() {
			continue
		}
		for _, id := range requisition.AccountIDs {
			if id == bankAccountID {
				return requisition, nil
			}
		}
	}
	return nil, domainerror.NewLinkError(
		domainerror.ErrCodeBankAccountNotInRequisition,
		"bank account was not unlocked by any completed consent flow",
		domainerror.ErrBankAccountNotInRequisition,
	)
}
