// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"sync"
	"time"

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
	mu                   sync.Mutex
	splits               []*adapter.SplitWithTransaction
	latestByCounterparty map[string]*entity.LedgerTransaction
	created              []*entity.LedgerTransaction
	updatedSplits        []*entity.Split
	movedDates           map[uuid.UUID]time.Time
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		latestByCounterparty: make(map[string]*entity.LedgerTransaction),
		movedDates:           make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.LedgerTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, transaction)
	return nil
}

func (f *fakeTransactionRepo) FindSplitsByAccount(ctx context.Context, accountID uuid.UUID) ([]*adapter.SplitWithTransaction, error) {
	return f.splits, nil
}

func (f *fakeTransactionRepo) FindLatestByCounterparty(ctx context.Context, accountID uuid.UUID, counterparty string) (*entity.LedgerTransaction, error) {
	if transaction, ok := f.latestByCounterparty[counterparty]; ok {
		return transaction, nil
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) UpdateSplit(ctx context.Context, split *entity.Split) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedSplits = append(f.updatedSplits, split)
	return nil
}

func (f *fakeTransactionRepo) UpdateTransactionDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movedDates[id] = date
	return nil
}

type fakeAccountRepo struct {
	adapter.AccountRepository
	accounts   map[uuid.UUID]*entity.Account
	imbalances map[string]*entity.Account
	balance    decimal.Decimal
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:   make(map[uuid.UUID]*entity.Account),
		imbalances: make(map[string]*entity.Account),
	}
}

func (f *fakeAccountRepo) add(account *entity.Account) *entity.Account {
	f.accounts[account.ID] = account
	return account
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, domainerror.ErrAccountNotFound
}

func (f *fakeAccountRepo) FindOrCreateImbalance(ctx context.Context, currency string) (*entity.Account, error) {
	if account, ok := f.imbalances[currency]; ok {
		return account, nil
	}
	account := entity.NewImbalanceAccount(currency)
	f.imbalances[currency] = account
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeAccountRepo) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	return f.balance, nil
}

type fakeRuleRepo struct {
	adapter.PayeeRuleRepository
	rules []*entity.PayeeRule
}

func (f *fakeRuleRepo) FindActive(ctx context.Context) ([]*entity.PayeeRule, error) {
	return f.rules, nil
}

type fakeLinkRepo struct {
	adapter.AccountLinkRepository
	links   map[uuid.UUID]*entity.AccountLink
	enabled []*entity.AccountLink
	updated []*entity.AccountLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uuid.UUID]*entity.AccountLink)}
}

func (f *fakeLinkRepo) add(link *entity.AccountLink) *entity.AccountLink {
	f.links[link.ID] = link
	if link.SyncEnabled {
		f.enabled = append(f.enabled, link)
	}
	return link
}

func (f *fakeLinkRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.AccountLink, error) {
	if link, ok := f.links[id]; ok {
		return link, nil
	}
	return nil, domainerror.ErrAccountLinkNotFound
}

func (f *fakeLinkRepo) FindSyncEnabled(ctx context.Context) ([]*entity.AccountLink, error) {
	return f.enabled, nil
}

func (f *fakeLinkRepo) Update(ctx context.Context, link *entity.AccountLink) error {
	f.updated = append(f.updated, link)
	return nil
}

type fakeRunRepo struct {
	adapter.SyncRunRepository
	mu      sync.Mutex
	runs    []*entity.SyncRun
	updates []*entity.SyncRun
}

func (f *fakeRunRepo) Create(ctx context.Context, run *entity.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) Update(ctx context.Context, run *entity.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, run)
	return nil
}

func (f *fakeRunRepo) HasRunning(ctx context.Context) (bool, error) {
	return false, nil
}

func (f *fakeRunRepo) FindRecent(ctx context.Context, limit int) ([]*entity.SyncRunWithLink, error) {
	return nil, nil
}

type fakeDiscrepancyRepo struct {
	adapter.DiscrepancyRepository
	open    map[uuid.UUID]*entity.Discrepancy
	created []*entity.Discrepancy
	updated []*entity.Discrepancy
}

func newFakeDiscrepancyRepo() *fakeDiscrepancyRepo {
	return &fakeDiscrepancyRepo{open: make(map[uuid.UUID]*entity.Discrepancy)}
}

func (f *fakeDiscrepancyRepo) FindOpenByLink(ctx context.Context, accountLinkID uuid.UUID) (*entity.Discrepancy, error) {
	if discrepancy, ok := f.open[accountLinkID]; ok {
		return discrepancy, nil
	}
	return nil, domainerror.ErrDiscrepancyNotFound
}

func (f *fakeDiscrepancyRepo) Create(ctx context.Context, discrepancy *entity.Discrepancy) error {
	f.created = append(f.created, discrepancy)
	f.open[discrepancy.AccountLinkID] = discrepancy
	return nil
}

func (f *fakeDiscrepancyRepo) Update(ctx context.Context, discrepancy *entity.Discrepancy) error {
	f.updated = append(f.updated, discrepancy)
	if discrepancy.Status != entity.DiscrepancyStatusOpen {
		delete(f.open, discrepancy.AccountLinkID)
	}
	return nil
}

type fakeFeedClient struct {
	adapter.BankFeedClient
	balance    *entity.BankBalance
	booked     []entity.BankTransaction
	pending    []entity.BankTransaction
	balanceErr error
	txErr      error
}

func (f *fakeFeedClient) GetBalance(ctx context.Context, accessToken, bankAccountID string) (*entity.BankBalance, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeFeedClient) GetTransactions(ctx context.Context, accessToken, bankAccountID string) ([]entity.BankTransaction, []entity.BankTransaction, error) {
	if f.txErr != nil {
		return nil, nil, f.txErr
	}
	return f.booked, f.pending, nil
}

type fakeTokenManager struct {
	invalidated int
	err         error
}

func (f *fakeTokenManager) AccessToken(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "access-token", nil
}

func (f *fakeTokenManager) Invalidate(ctx context.Context) error {
	f.invalidated++
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired []string
	released []string
	denyAll  bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denyAll || f.held[key] {
		return false, nil
	}
	f.held[key] = true
	f.acquired = append(f.acquired, key)
	return true, nil
}

func (f *fakeLocker) Release(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	f.released = append(f.released, key)
	return nil
}

type fakeEmailService struct {
	mu      sync.Mutex
	alerts  []adapter.QueueDiscrepancyAlertInput
	reports []adapter.QueueSyncReportInput
}

func (f *fakeEmailService) QueueDiscrepancyAlertEmail(ctx context.Context, input adapter.QueueDiscrepancyAlertInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, input)
	return nil
}

func (f *fakeEmailService) QueueSyncReportEmail(ctx context.Context, input adapter.QueueSyncReportInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, input)
	return nil
}
