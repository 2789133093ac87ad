package model

import (
	"math"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
)

// CurrencyINR is the settlement currency of the marketplace.
const CurrencyINR = "INR"

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Money is an amount in minor currency units (paise).
type Money int64

// Major returns the amount in rupees.
func (m Money) Major() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Add returns m+other. ok is false when either operand is negative or the sum
// does not fit in Money.
func (m Money) Add(other Money) (sum Money, ok bool) {
	if m < 0 || other < 0 || other > math.MaxInt64-m {
		return 0, false
	}
	return m + other, true
}

func (m Money) String() string {
	return m.Major().StringFixed(2)
}

// MoneyFromMajor converts a rupee amount into paise. Negative amounts,
// fractions below one paisa and amounts beyond the int64 paise range are rejected.
func MoneyFromMajor(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return 0, domainErrors.ErrInvalidAmount
	}
	minor := amount.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) || minor.GreaterThan(maxMinor) {
		return 0, domainErrors.ErrInvalidAmount
	}
	return Money(minor.IntPart()), nil
}
