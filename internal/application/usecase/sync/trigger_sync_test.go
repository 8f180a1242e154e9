// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

type triggerFixture struct {
	uc      *TriggerSyncUseCase
	links   *fakeLinkRepo
	tracker *InMemoryRunTracker
	locker  *fakeLocker
	emails  *fakeEmailService
	fi      *importerFixture
}

func newTriggerFixture() *triggerFixture {
	fi := newImporterFixture()
	tracker := NewInMemoryRunTracker()
	locker := newFakeLocker()

	uc := NewTriggerSyncUseCase(
		fi.runRepo,
		fi.linkRepo,
		fi.accountRepo,
		fi.txRepo,
		fi.discRepo,
		&fakeRuleRepo{},
		fi.client,
		fi.tokens,
		fi.emails,
		locker,
		tracker,
		valueobject.DefaultMatchingConfig(),
		0,
	)
	return &triggerFixture{
		uc:      uc,
		links:   fi.linkRepo,
		tracker: tracker,
		locker:  locker,
		emails:  fi.emails,
		fi:      fi,
	}
}

func TestTriggerSync_Execute(t *testing.T) {
	t.Run("rejects a trigger while a job runs", func(t *testing.T) {
		f := newTriggerFixture()
		f.tracker.Begin("existing")

		_, err := f.uc.Execute(context.Background(), TriggerSyncInput{})
		if !errors.Is(err, domainerror.ErrSyncAlreadyRunning) {
			t.Fatalf("expected already running, got %v", err)
		}
	})

	t.Run("rejects when no links are enabled", func(t *testing.T) {
		f := newTriggerFixture()
		f.links.enabled = nil

		_, err := f.uc.Execute(context.Background(), TriggerSyncInput{})
		if !errors.Is(err, domainerror.ErrNothingToSync) {
			t.Fatalf("expected nothing to sync, got %v", err)
		}
	})

	t.Run("rejects an unknown link id", func(t *testing.T) {
		f := newTriggerFixture()
		missing := entity.NewAccountLink(f.fi.account.ID, nil, "other", "X", "", entity.DateBasisBooking)

		_, err := f.uc.Execute(context.Background(), TriggerSyncInput{AccountLinkID: &missing.ID})
		if !errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			t.Fatalf("expected link not found, got %v", err)
		}
	})

	t.Run("a disabled link can be triggered explicitly", func(t *testing.T) {
		f := newTriggerFixture()
		disabled := entity.NewAccountLink(f.fi.account.ID, nil, "bank-2", "X", "", entity.DateBasisBooking)
		disabled.SyncEnabled = false
		f.links.add(disabled)

		links, err := f.uc.resolveLinks(context.Background(), TriggerSyncInput{AccountLinkID: &disabled.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(links) != 1 || links[0].ID != disabled.ID {
			t.Error("expected the disabled link to be selected")
		}
	})
}

func TestTriggerSync_SyncLink(t *testing.T) {
	t.Run("acquires and releases the link's lock", func(t *testing.T) {
		f := newTriggerFixture()
		f.fi.client.booked = nil

		line, err := f.uc.syncLink(context.Background(), testLogger(), f.fi.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line == nil {
			t.Fatal("expected a report line")
		}
		if line.AccountName != "Main checking" {
			t.Errorf("expected the link alias, got %q", line.AccountName)
		}

		key := syncLockKey(f.fi.link.ID)
		if len(f.locker.acquired) != 1 || f.locker.acquired[0] != key {
			t.Error("expected the link lock to be acquired")
		}
		if len(f.locker.released) != 1 || f.locker.released[0] != key {
			t.Error("expected the link lock to be released")
		}
	})

	t.Run("skips a link whose lock is held", func(t *testing.T) {
		f := newTriggerFixture()
		f.locker.denyAll = true

		_, err := f.uc.syncLink(context.Background(), testLogger(), f.fi.link)
		if !errors.Is(err, domainerror.ErrSyncAlreadyRunning) {
			t.Fatalf("expected already running, got %v", err)
		}
		if len(f.fi.runRepo.runs) != 0 {
			t.Error("expected no run to be created")
		}
	})

	t.Run("summarises the run for the report", func(t *testing.T) {
		f := newTriggerFixture()
		f.fi.client.booked = []entity.BankTransaction{feedItem("tx-1", "-8.00", day(0))}
		f.fi.client.balance.Amount = decimal.RequireFromString("-8.00")
		f.fi.accountRepo.balance = decimal.RequireFromString("-8.00")

		line, err := f.uc.syncLink(context.Background(), testLogger(), f.fi.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Created != 1 || line.Fetched != 1 {
			t.Errorf("unexpected line counters: %+v", line)
		}
		if !line.InSync {
			t.Error("expected the line to be in sync")
		}
	})
}
