/*
Package generic provides the domain-agnostic building blocks of the cashflow engine.

PURPOSE:
  Calendar days, inclusive periods, recurrence schedules and money arithmetic
  are not specific to budgeting. They live here so the cashflow package can
  focus on plan semantics, and so the store and api layers share one
  vocabulary for dates and amounts.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money helpers over decimal.Decimal (no floating-point drift in balances)
  - DocumentID / Version: identifiers for stored plan documents

DESIGN PRINCIPLES:
  1. Precision: every amount is a decimal.Decimal, never a float64
  2. Totality: helpers never panic on empty input
  3. Immutability: values are passed and returned by copy

USAGE:
  total := generic.Sum(decimal.NewFromInt(10), generic.Money(2.5))
  start := generic.MustParseDate("2025-01-01")
  p := generic.Period{Start: start, End: generic.EndOfMonth(2025, time.January)}

SEE ALSO:
  - time.go: TimePoint and calendar helpers
  - period.go: inclusive date ranges
  - recurrence.go: cadence stepping
  - store.go: versioned document persistence
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - decimal helpers (currency is a display concern only)
// =============================================================================

// Money converts a float literal into a decimal amount.
func Money(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// MustParseDecimal parses s, returning zero when s is not a number.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sum adds all values; the empty sum is zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// SafeDiv returns num/den, or zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// RoundCents rounds to two decimal places (banker's rounding is not used).
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type DocumentID string
type Version int
