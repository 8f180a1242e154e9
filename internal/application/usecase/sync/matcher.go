// Package sync contains bank feed synchronization use cases.
package sync

import (
	"time"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

const secondsPerDay = 86400

// itemPlan records how one feed item will be resolved against the ledger.
type itemPlan struct {
	Item             entity.BankTransaction
	Date             time.Time
	Outcome          valueobject.MatchOutcome
	Matched          *adapter.SplitWithTransaction
	DateDistanceDays int
}

// matcher resolves feed items against a snapshot of the splits posted to a
// linked account. Referenced splits are indexed by their external reference;
// unreferenced splits form a pool that items can claim. Both indexes are
// kept current while planning, so a split claimed by one item is gone for
// the next and an item whose reference was minted earlier in the same run
// confirms instead of creating a duplicate.
type matcher struct {
	config       valueobject.MatchingConfig
	byExternalID map[string]*adapter.SplitWithTransaction
	pool         []*adapter.SplitWithTransaction
}

// newMatcher partitions the account's splits into the reference index and
// the claimable pool.
func newMatcher(config valueobject.MatchingConfig, splits []*adapter.SplitWithTransaction) *matcher {
	m := &matcher{
		config:       config,
		byExternalID: make(map[string]*adapter.SplitWithTransaction, len(splits)),
		pool:         make([]*adapter.SplitWithTransaction, 0, len(splits)),
	}
	for _, entry := range splits {
		if entry.Split.ExternalID != nil && *entry.Split.ExternalID != "" {
			m.byExternalID[*entry.Split.ExternalID] = entry
			continue
		}
		m.pool = append(m.pool, entry)
	}
	return m
}

// plan decides the outcome for one feed item booked under the given date.
// A linked outcome removes the claimed split from the pool and indexes it
// under the item's reference.
func (m *matcher) plan(item entity.BankTransaction, date time.Time) itemPlan {
	if item.ExternalID != "" {
		if entry, ok := m.byExternalID[item.ExternalID]; ok {
			outcome := valueobject.MatchOutcomeConfirmed
			if !m.config.AmountsMatch(item.Amount, entry.Split.Amount) {
				outcome = valueobject.MatchOutcomeConflict
			}
			return itemPlan{
				Item:             item,
				Date:             date,
				Outcome:          outcome,
				Matched:          entry,
				DateDistanceDays: int(dayNumber(entry.Date) - dayNumber(date)),
			}
		}
	}

	if entry, distance, ok := m.claim(item, date); ok {
		if item.ExternalID != "" {
			m.byExternalID[item.ExternalID] = entry
		}
		return itemPlan{
			Item:             item,
			Date:             date,
			Outcome:          valueobject.MatchOutcomeLinked,
			Matched:          entry,
			DateDistanceDays: distance,
		}
	}

	return itemPlan{
		Item:    item,
		Date:    date,
		Outcome: valueobject.MatchOutcomeCreated,
	}
}

// claim picks the best unreferenced split for the item: amount within
// tolerance and date strictly inside the claim window, nearest date first.
// Ties go to the older split. The winner leaves the pool.
func (m *matcher) claim(item entity.BankTransaction, date time.Time) (*adapter.SplitWithTransaction, int, bool) {
	feedDay := dayNumber(date)

	bestIdx := -1
	var bestDistance int64
	for i, entry := range m.pool {
		if !m.config.AmountsMatch(item.Amount, entry.Split.Amount) {
			continue
		}
		splitDay := dayNumber(entry.Date)
		if !m.config.DateWithinWindow(feedDay, splitDay) {
			continue
		}
		distance := splitDay - feedDay
		if distance < 0 {
			distance = -distance
		}
		if bestIdx == -1 || distance < bestDistance ||
			(distance == bestDistance && entry.Date.Before(m.pool[bestIdx].Date)) {
			bestIdx = i
			bestDistance = distance
		}
	}
	if bestIdx == -1 {
		return nil, 0, false
	}

	entry := m.pool[bestIdx]
	m.pool = append(m.pool[:bestIdx], m.pool[bestIdx+1:]...)
	return entry, int(bestDistance), true
}

// registerCreated indexes a split created during this run so a duplicate
// feed item confirms it instead of creating a second transaction.
func (m *matcher) registerCreated(externalID string, entry *adapter.SplitWithTransaction) {
	if externalID == "" {
		return
	}
	m.byExternalID[externalID] = entry
}

// dayNumber converts a timestamp to a whole day count so date distances
// ignore the time of day.
func dayNumber(t time.Time) int64 {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}
