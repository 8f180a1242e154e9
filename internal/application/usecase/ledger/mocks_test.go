// Package ledger contains ledger account and transaction use cases.
package ledger

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// The fakes embed their interface so only the methods a test exercises need
// an implementation; anything unexpected panics with a nil receiver.

type fakeAccountRepo struct {
	adapter.AccountRepository

	accounts   map[uuid.UUID]*entity.Account
	balances   map[uuid.UUID]decimal.Decimal
	imbalances map[string]*entity.Account
	children   map[uuid.UUID]bool
	withSplits map[uuid.UUID]bool

	created []*entity.Account
	updated []*entity.Account
	deleted []uuid.UUID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:   make(map[uuid.UUID]*entity.Account),
		balances:   make(map[uuid.UUID]decimal.Decimal),
		imbalances: make(map[string]*entity.Account),
		children:   make(map[uuid.UUID]bool),
		withSplits: make(map[uuid.UUID]bool),
	}
}

func (r *fakeAccountRepo) add(account *entity.Account) *entity.Account {
	r.accounts[account.ID] = account
	if account.ParentID != nil {
		r.children[*account.ParentID] = true
	}
	return account
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	r.created = append(r.created, account)
	r.add(account)
	return nil
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, domainerror.ErrAccountNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindAll(ctx context.Context) ([]*entity.Account, error) {
	accounts := make([]*entity.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].FullName < accounts[j].FullName })
	return accounts, nil
}

func (r *fakeAccountRepo) FindOrCreateImbalance(ctx context.Context, currency string) (*entity.Account, error) {
	if account, ok := r.imbalances[currency]; ok {
		return account, nil
	}
	account := entity.NewImbalanceAccount(currency)
	r.imbalances[currency] = account
	r.add(account)
	return account, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	r.updated = append(r.updated, account)
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	for _, account := range r.accounts {
		if account.FullName == fullName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.children[id], nil
}

func (r *fakeAccountRepo) HasSplits(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.withSplits[id], nil
}

func (r *fakeAccountRepo) GetBalances(ctx context.Context, ids []uuid.UUID) ([]*adapter.AccountBalance, error) {
	balances := make([]*adapter.AccountBalance, 0, len(ids))
	for _, id := range ids {
		balances = append(balances, &adapter.AccountBalance{AccountID: id, Balance: r.balances[id]})
	}
	return balances, nil
}

type fakeTransactionRepo struct {
	adapter.LedgerTransactionRepository

	transactions map[uuid.UUID]*entity.LedgerTransaction
	listResult   *entity.TransactionListResult

	created []*entity.LedgerTransaction
	updated []*entity.LedgerTransaction
	deleted []uuid.UUID

	lastFilter     adapter.TransactionFilter
	lastPagination adapter.TransactionPagination
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: make(map[uuid.UUID]*entity.LedgerTransaction),
	}
}

func (r *fakeTransactionRepo) add(transaction *entity.LedgerTransaction) *entity.LedgerTransaction {
	r.transactions[transaction.ID] = transaction
	return transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.LedgerTransaction) error {
	r.created = append(r.created, transaction)
	r.add(transaction)
	return nil
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerTransaction, error) {
	transaction, ok := r.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return transaction, nil
}

func (r *fakeTransactionRepo) FindByIDWithAccounts(ctx context.Context, id uuid.UUID) (*entity.TransactionWithSplits, error) {
	transaction, ok := r.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return &entity.TransactionWithSplits{Transaction: transaction}, nil
}

func (r *fakeTransactionRepo) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	r.lastFilter = filter
	r.lastPagination = pagination
	if r.listResult != nil {
		return r.listResult, nil
	}
	return &entity.TransactionListResult{Page: pagination.Page, Limit: pagination.Limit}, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, transaction *entity.LedgerTransaction) error {
	r.updated = append(r.updated, transaction)
	r.transactions[transaction.ID] = transaction
	return nil
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.transactions, id)
	return nil
}
