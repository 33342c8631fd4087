package money

import "github.com/shopspring/decimal"

// Monetary values are decimal.Decimal throughout the system. Intermediate
// results in a computation chain keep full precision; a value is rounded to
// two fractional digits only when it is finalized for display or persistence.

// Zero is the zero amount.
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// Round finalizes a monetary value to two fractional digits using half-up
// rounding.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromInt returns the amount for a whole currency unit count.
func FromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// FromString parses an amount, returning false on malformed input.
func FromString(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Percent returns pct percent of base at full precision.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// ClampNonNegative floors a value at zero.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// IsValidPercent reports whether p lies in [0, 100].
func IsValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
