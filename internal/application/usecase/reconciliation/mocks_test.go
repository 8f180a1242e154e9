// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// The fakes embed their interface so only the methods a test exercises need
// an implementation; anything unexpected panics with a nil receiver.

type fakeTransactionRepo struct {
	adapter.LedgerTransactionRepository
	splits        map[uuid.UUID]*entity.Split
	transactions  map[uuid.UUID]*entity.LedgerTransaction
	byExternalID  map[string]*entity.Split
	updatedSplits []*entity.Split
	updateErr     error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		splits:       make(map[uuid.UUID]*entity.Split),
		transactions: make(map[uuid.UUID]*entity.LedgerTransaction),
		byExternalID: make(map[string]*entity.Split),
	}
}

func (f *fakeTransactionRepo) add(transaction *entity.LedgerTransaction) *entity.LedgerTransaction {
	f.transactions[transaction.ID] = transaction
	for _, split := range transaction.Splits {
		f.splits[split.ID] = split
		if split.ExternalID != nil {
			f.byExternalID[split.AccountID.String()+"/"+*split.ExternalID] = split
		}
	}
	return transaction
}

func (f *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerTransaction, error) {
	if transaction, ok := f.transactions[id]; ok {
		return transaction, nil
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) FindSplitByID(ctx context.Context, id uuid.UUID) (*entity.Split, error) {
	if split, ok := f.splits[id]; ok {
		return split, nil
	}
	return nil, domainerror.ErrSplitNotFound
}

func (f *fakeTransactionRepo) FindSplitByExternalID(ctx context.Context, accountID uuid.UUID, externalID string) (*entity.Split, error) {
	if split, ok := f.byExternalID[accountID.String()+"/"+externalID]; ok {
		return split, nil
	}
	return nil, domainerror.ErrSplitNotFound
}

func (f *fakeTransactionRepo) UpdateSplit(ctx context.Context, split *entity.Split) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedSplits = append(f.updatedSplits, split)
	return nil
}

type fakeReconciliationRepo struct {
	adapter.ReconciliationRepository
	pending      []adapter.PendingSplitData
	pendingTotal int64
	linked       []adapter.LinkedSplitData
	linkedTotal  int64
	candidates   []adapter.CandidateSplitData
	tallies      map[uuid.UUID]*adapter.ReconcileTallyData
	summary      *adapter.ReconciliationSummaryData

	lastAccountID *uuid.UUID
	lastLimit     int
	lastOffset    int
	lastCandidate struct {
		accountID uuid.UUID
		amount    decimal.Decimal
		dateRange adapter.DateRange
	}
}

func newFakeReconciliationRepo() *fakeReconciliationRepo {
	return &fakeReconciliationRepo{
		tallies: make(map[uuid.UUID]*adapter.ReconcileTallyData),
		summary: &adapter.ReconciliationSummaryData{},
	}
}

func (f *fakeReconciliationRepo) GetPendingSplits(ctx context.Context, accountID *uuid.UUID, limit, offset int) ([]adapter.PendingSplitData, int64, error) {
	f.lastAccountID = accountID
	f.lastLimit = limit
	f.lastOffset = offset
	return f.pending, f.pendingTotal, nil
}

func (f *fakeReconciliationRepo) GetLinkedSplits(ctx context.Context, accountID *uuid.UUID, limit, offset int) ([]adapter.LinkedSplitData, int64, error) {
	f.lastAccountID = accountID
	f.lastLimit = limit
	f.lastOffset = offset
	return f.linked, f.linkedTotal, nil
}

func (f *fakeReconciliationRepo) FindReferenceCandidates(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, dateRange adapter.DateRange) ([]adapter.CandidateSplitData, error) {
	f.lastCandidate.accountID = accountID
	f.lastCandidate.amount = amount
	f.lastCandidate.dateRange = dateRange
	return f.candidates, nil
}

func (f *fakeReconciliationRepo) TallyReconcileStates(ctx context.Context, accountID uuid.UUID) (*adapter.ReconcileTallyData, error) {
	if tally, ok := f.tallies[accountID]; ok {
		return tally, nil
	}
	return &adapter.ReconcileTallyData{}, nil
}

func (f *fakeReconciliationRepo) GetReconciliationSummary(ctx context.Context) (*adapter.ReconciliationSummaryData, error) {
	return f.summary, nil
}

type fakeLinkRepo struct {
	adapter.AccountLinkRepository
	links []*entity.AccountLinkWithAccount
}

func (f *fakeLinkRepo) FindAll(ctx context.Context) ([]*entity.AccountLinkWithAccount, error) {
	return f.links, nil
}
