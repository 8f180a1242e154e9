// Package valueobject contains domain value objects for the ledger feed system.
package valueobject

import "github.com/shopspring/decimal"

// MatchingConfig contains the tolerances used when matching bank feed items
// against ledger splits.
type MatchingConfig struct {
	// Amount tolerance: a split qualifies when either check passes
	AmountToleranceAbsolute decimal.Decimal // 0.00 = exact equality
	AmountTolerancePercent  decimal.Decimal // 0.5 = 0.5% of the feed amount

	// Date tolerance: half-width of the claim window, exclusive on both
	// sides, so 5 admits dates up to 4 days away
	DateToleranceDays int
}

// DefaultMatchingConfig returns the default matching configuration:
// exact amount equality and a five day claim window.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AmountToleranceAbsolute: decimal.Zero,
		AmountTolerancePercent:  decimal.Zero,
		DateToleranceDays:       5,
	}
}

// NewMatchingConfig builds a MatchingConfig from primitive settings.
// Negative tolerances are clamped to zero and a non-positive date window
// falls back to the default.
func NewMatchingConfig(toleranceAbsolute, tolerancePercent float64, dateToleranceDays int) MatchingConfig {
	cfg := MatchingConfig{
		AmountToleranceAbsolute: decimal.NewFromFloat(toleranceAbsolute),
		AmountTolerancePercent:  decimal.NewFromFloat(tolerancePercent),
		DateToleranceDays:       dateToleranceDays,
	}
	if cfg.AmountToleranceAbsolute.IsNegative() {
		cfg.AmountToleranceAbsolute = decimal.Zero
	}
	if cfg.AmountTolerancePercent.IsNegative() {
		cfg.AmountTolerancePercent = decimal.Zero
	}
	if cfg.DateToleranceDays <= 0 {
		cfg.DateToleranceDays = DefaultMatchingConfig().DateToleranceDays
	}
	return cfg
}

// AmountsMatch checks if the split amount is close enough to the feed amount.
func (c MatchingConfig) AmountsMatch(feedAmount, splitAmount decimal.Decimal) bool {
	diff := feedAmount.Sub(splitAmount).Abs()

	// Check absolute tolerance first (covers the exact-equality default)
	if diff.LessThanOrEqual(c.AmountToleranceAbsolute) {
		return true
	}

	// Check percentage tolerance
	if !c.AmountTolerancePercent.IsPositive() || feedAmount.IsZero() {
		return false
	}
	percentDiff := diff.Div(feedAmount.Abs()).Mul(decimal.NewFromInt(100))
	return percentDiff.LessThanOrEqual(c.AmountTolerancePercent)
}

// DateWithinWindow checks if a split date lies strictly inside the claim
// window centred on the feed date. Both arguments are day numbers.
func (c MatchingConfig) DateWithinWindow(feedDay, splitDay int64) bool {
	days := int64(c.DateToleranceDays)
	diff := splitDay - feedDay
	return diff > -days && diff < days
}
