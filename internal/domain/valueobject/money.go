// Package valueobject contains domain value objects for the Budget Tracker system.
package valueobject

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of decimal places used for displayed amounts.
const CurrencyPlaces int32 = 2

var (
	hundred = decimal.NewFromInt(100)

	// SignTolerance absorbs rounding error in over/under budget checks.
	SignTolerance = decimal.New(1, -6)

	// WarningThreshold is the percent at which a budget enters the warning tier.
	WarningThreshold = decimal.NewFromInt(70)

	// OverThreshold is the percent at which a budget is considered spent.
	OverThreshold = decimal.NewFromInt(100)
)

// Tier is the severity of a budget's progress.
type Tier string

const (
	TierOK      Tier = "ok"
	TierWarning Tier = "warning"
	TierOver    Tier = "over"
)

// ToFixed rounds amount to the given number of places, half away from zero.
func ToFixed(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// ToCurrency rounds amount to CurrencyPlaces.
func ToCurrency(amount decimal.Decimal) decimal.Decimal {
	return ToFixed(amount, CurrencyPlaces)
}

// PercentUsed returns 100 * spent / limit. It returns zero when the limit is
// not positive and does not clamp results above 100.
func PercentUsed(spent, limit decimal.Decimal) decimal.Decimal {
	if limit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return spent.Mul(hundred).Div(limit)
}

// ClampPercent bounds pct to [0, 100] for progress rendering.
func ClampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// ProgressTier maps a percent to its severity tier.
func ProgressTier(pct decimal.Decimal) Tier {
	switch {
	case pct.Add(SignTolerance).GreaterThanOrEqual(OverThreshold):
		return TierOver
	case pct.Add(SignTolerance).GreaterThanOrEqual(WarningThreshold):
		return TierWarning
	default:
		return TierOK
	}
}

// IsNegative reports whether d is below zero by more than SignTolerance.
func IsNegative(d decimal.Decimal) bool {
	return d.LessThan(SignTolerance.Neg())
}

// IsPositive reports whether d is above zero by more than SignTolerance.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(SignTolerance)
}

// IsOverBudget reports whether spending exceeds the limit. A category with no
// limit is over as soon as anything is spent, even though its percent is zero.
func IsOverBudget(limit, spent decimal.Decimal) bool {
	if !IsPositive(limit) {
		return IsPositive(spent)
	}
	return IsNegative(limit.Sub(spent))
}
