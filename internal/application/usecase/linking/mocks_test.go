// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// The fakes embed their interface so only the methods a test exercises need
// an implementation; anything unexpected panics with a nil receiver.

type fakeAccountRepo struct {
	adapter.AccountRepository

	accounts map[uuid.UUID]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (r *fakeAccountRepo) add(account *entity.Account) *entity.Account {
	r.accounts[account.ID] = account
	return account
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, domainerror.ErrAccountNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindByFullName(ctx context.Context, fullName string) (*entity.Account, error) {
	for _, account := range r.accounts {
		if account.FullName == fullName {
			return account, nil
		}
	}
	return nil, domainerror.ErrAccountNotFound
}

type fakeLinkRepo struct {
	adapter.AccountLinkRepository

	links   map[uuid.UUID]*entity.AccountLink
	created []*entity.AccountLink
	updated []*entity.AccountLink
	deleted []uuid.UUID
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uuid.UUID]*entity.AccountLink)}
}

func (r *fakeLinkRepo) add(link *entity.AccountLink) *entity.AccountLink {
	r.links[link.ID] = link
	return link
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *entity.AccountLink) error {
	r.created = append(r.created, link)
	r.add(link)
	return nil
}

func (r *fakeLinkRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.AccountLink, error) {
	link, ok := r.links[id]
	if !ok {
		return nil, domainerror.ErrAccountLinkNotFound
	}
	return link, nil
}

func (r *fakeLinkRepo) FindByBankAccountID(ctx context.Context, bankAccountID string) (*entity.AccountLink, error) {
	for _, link := range r.links {
		if link.BankAccountID == bankAccountID {
			return link, nil
		}
	}
	return nil, domainerror.ErrAccountLinkNotFound
}

func (r *fakeLinkRepo) FindByLedgerAccountID(ctx context.Context, ledgerAccountID uuid.UUID) (*entity.AccountLink, error) {
	for _, link := range r.links {
		if link.LedgerAccountID == ledgerAccountID {
			return link, nil
		}
	}
	return nil, domainerror.ErrAccountLinkNotFound
}

func (r *fakeLinkRepo) Update(ctx context.Context, link *entity.AccountLink) error {
	r.updated = append(r.updated, link)
	r.links[link.ID] = link
	return nil
}

func (r *fakeLinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.links, id)
	return nil
}

type fakeRequisitionRepo struct {
	adapter.RequisitionRepository

	requisitions map[uuid.UUID]*entity.Requisition
	created      []*entity.Requisition
	updated      []*entity.Requisition
	deleted      []uuid.UUID
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{requisitions: make(map[uuid.UUID]*entity.Requisition)}
}

func (r *fakeRequisitionRepo) add(requisition *entity.Requisition) *entity.Requisition {
	r.requisitions[requisition.ID] = requisition
	return requisition
}

func (r *fakeRequisitionRepo) Create(ctx context.Context, requisition *entity.Requisition) error {
	r.created = append(r.created, requisition)
	r.add(requisition)
	return nil
}

func (r *fakeRequisitionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Requisition, error) {
	requisition, ok := r.requisitions[id]
	if !ok {
		return nil, domainerror.ErrRequisitionNotFound
	}
	return requisition, nil
}

func (r *fakeRequisitionRepo) FindAll(ctx context.Context) ([]*entity.Requisition, error) {
	all := make([]*entity.Requisition, 0, len(r.requisitions))
	for _, requisition := range r.requisitions {
		all = append(all, requisition)
	}
	return all, nil
}

func (r *fakeRequisitionRepo) Update(ctx context.Context, requisition *entity.Requisition) error {
	r.updated = append(r.updated, requisition)
	r.requisitions[requisition.ID] = requisition
	return nil
}

func (r *fakeRequisitionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.requisitions, id)
	return nil
}

type fakeFeedClient struct {
	adapter.BankFeedClient

	institutions    []*entity.Institution
	institutionsErr error
	listCalls       int

	createdRequisition *adapter.ProviderRequisition
	providedState      *adapter.ProviderRequisition
	deleteErr          error
	deletedProviderIDs []string
}

func (c *fakeFeedClient) ListInstitutions(ctx context.Context, accessToken, countryCode string) ([]*entity.Institution, error) {
	c.listCalls++
	if c.institutionsErr != nil {
		return nil, c.institutionsErr
	}
	return c.institutions, nil
}

func (c *fakeFeedClient) CreateRequisition(ctx context.Context, accessToken, institutionID, redirectURL, reference string) (*adapter.ProviderRequisition, error) {
	if c.createdRequisition != nil {
		requisition := *c.createdRequisition
		requisition.Reference = reference
		return &requisition, nil
	}
	return &adapter.ProviderRequisition{
		ID:        "req-provider-1",
		Status:    entity.RequisitionStatusCreated,
		Link:      "https://consent.example/" + institutionID,
		Reference: reference,
	}, nil
}

func (c *fakeFeedClient) GetRequisition(ctx context.Context, accessToken, requisitionID string) (*adapter.ProviderRequisition, error) {
	if c.providedState == nil {
		return nil, domainerror.ErrRequisitionNotFound
	}
	return c.providedState, nil
}

func (c *fakeFeedClient) DeleteRequisition(ctx context.Context, accessToken, requisitionID string) error {
	c.deletedProviderIDs = append(c.deletedProviderIDs, requisitionID)
	return c.deleteErr
}

type fakeTokenManager struct {
	invalidated int
	err         error
}

func (m *fakeTokenManager) AccessToken(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "access-token", nil
}

func (m *fakeTokenManager) Invalidate(ctx context.Context) error {
	m.invalidated++
	return nil
}

type fakeCache struct {
	values  map[string]string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	value, ok := c.values[key]
	return value, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value
	c.lastTTL = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

var errBoom = errors.New("boom")
