// Package money provides an exact, four-fractional-digit decimal amount
// type for account balances. Binary floating point never touches a
// persisted balance; every arithmetic operation truncates to the same
// scale an input amount is parsed at.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// scale is the number of fractional digits a balance is carried at.
const scale = 4

// Decimal is a signed fixed-point amount with up to four fractional
// digits. The zero value is zero.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{}

// Parse reads a decimal literal such as "42.0", "10", or "-6.75" and
// truncates it to four fractional digits. It returns an error if s is
// not a valid decimal literal.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Decimal{d: d.Truncate(scale)}, nil
}

// FromInt64Units builds a Decimal from an integer count of 1/10000ths,
// mainly useful in tests that want exact values without string parsing.
func FromInt64Units(units int64) Decimal {
	return Decimal{d: decimal.New(units, -scale)}
}

// Add returns d + other.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{d: d.d.Add(other.d).Truncate(scale)}
}

// Sub returns d - other.
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{d: d.d.Sub(other.d).Truncate(scale)}
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{d: d.d.Neg()}
}

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than other.
func (d Decimal) Cmp(other Decimal) int {
	return d.d.Cmp(other.d)
}

// LessThan reports whether d < other.
func (d Decimal) LessThan(other Decimal) bool {
	return d.d.LessThan(other.d)
}

// GreaterThan reports whether d > other.
func (d Decimal) GreaterThan(other Decimal) bool {
	return d.d.GreaterThan(other.d)
}

// IsPositive reports whether d > 0.
func (d Decimal) IsPositive() bool {
	return d.d.IsPositive()
}

// IsNegative reports whether d < 0.
func (d Decimal) IsNegative() bool {
	return d.d.IsNegative()
}

// Equal reports whether d and other represent the same value.
func (d Decimal) Equal(other Decimal) bool {
	return d.d.Equal(other.d)
}

// String renders d with trailing fractional zeros trimmed; a value with
// no fractional part is rendered without a decimal point.
func (d Decimal) String() string {
	s := d.d.Truncate(scale).StringFixed(scale)
	// Trim trailing zeros, then a dangling decimal point.
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
