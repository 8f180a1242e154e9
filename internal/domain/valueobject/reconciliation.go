// Package valueobject contains domain value objects for the ledger feed system.
package valueobject

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// MatchOutcome represents how a bank feed item was resolved during a sync.
type MatchOutcome string

const (
	// MatchOutcomeConfirmed means a split already carrying the item's
	// external reference was found and marked reconciled.
	MatchOutcomeConfirmed MatchOutcome = "confirmed"

	// MatchOutcomeLinked means an unreferenced split with a matching amount
	// and nearby date claimed the item and was tagged with its reference.
	MatchOutcomeLinked MatchOutcome = "linked"

	// MatchOutcomeCreated means no candidate existed and a new ledger
	// transaction was created for the item.
	MatchOutcomeCreated MatchOutcome = "created"

	// MatchOutcomeConflict means a split carries the item's reference but
	// its amount disagrees; the item was skipped and flagged.
	MatchOutcomeConflict MatchOutcome = "conflict"
)

// Confidence represents the confidence level of a proposed link between a
// feed item and an existing split.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CalculateConfidence grades a candidate link from its amount difference and
// date distance. Exact amounts on adjacent days grade high; matches that
// need tolerance or sit deeper in the window grade lower.
func CalculateConfidence(config MatchingConfig, feedAmount, splitAmount decimal.Decimal, dateDistanceDays int) Confidence {
	if dateDistanceDays < 0 {
		dateDistanceDays = -dateDistanceDays
	}
	diff := feedAmount.Sub(splitAmount).Abs()

	if diff.IsZero() && dateDistanceDays <= 1 {
		return ConfidenceHigh
	}
	if diff.IsZero() && dateDistanceDays <= 3 {
		return ConfidenceMedium
	}
	if config.AmountsMatch(feedAmount, splitAmount) && dateDistanceDays <= 1 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// FormatDateDistance renders a day distance for display in previews and
// reports, e.g. "same day", "1 day", "4 days".
func FormatDateDistance(days int) string {
	if days < 0 {
		days = -days
	}
	switch days {
	case 0:
		return "same day"
	case 1:
		return "1 day"
	default:
		return strconv.Itoa(days) + " days"
	}
}
