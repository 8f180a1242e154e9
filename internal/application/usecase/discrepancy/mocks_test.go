// Package discrepancy contains balance discrepancy review use cases.
package discrepancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// The fakes embed their interface so only the methods a test exercises need
// an implementation; anything unexpected panics with a nil receiver.

type fakeDiscrepancyRepo struct {
	adapter.DiscrepancyRepository
	discrepancies map[uuid.UUID]*entity.Discrepancy
	listed        []*entity.DiscrepancyWithLink
	openCount     int64
	lastStatus    entity.DiscrepancyStatus
	updated       []*entity.Discrepancy
	updateErr     error
}

func newFakeDiscrepancyRepo() *fakeDiscrepancyRepo {
	return &fakeDiscrepancyRepo{discrepancies: make(map[uuid.UUID]*entity.Discrepancy)}
}

func (f *fakeDiscrepancyRepo) add(discrepancy *entity.Discrepancy) *entity.Discrepancy {
	f.discrepancies[discrepancy.ID] = discrepancy
	return discrepancy
}

func (f *fakeDiscrepancyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Discrepancy, error) {
	if discrepancy, ok := f.discrepancies[id]; ok {
		return discrepancy, nil
	}
	return nil, domainerror.ErrDiscrepancyNotFound
}

func (f *fakeDiscrepancyRepo) FindByStatus(ctx context.Context, status entity.DiscrepancyStatus) ([]*entity.DiscrepancyWithLink, error) {
	f.lastStatus = status
	return f.listed, nil
}

func (f *fakeDiscrepancyRepo) CountOpen(ctx context.Context) (int64, error) {
	return f.openCount, nil
}

func (f *fakeDiscrepancyRepo) Update(ctx context.Context, discrepancy *entity.Discrepancy) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, discrepancy)
	return nil
}
