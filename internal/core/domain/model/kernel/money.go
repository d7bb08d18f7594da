package kernel

import (
	"returns/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNegative indicates an attempt to construct a negative monetary amount
// where only non-negative values are allowed.
var ErrMoneyIsNegative = errs.NewValueIsInvalidError("money amount must not be negative")

// Money is an immutable monetary value in USD backed by arbitrary-precision
// decimals. All arithmetic preserves full precision; RoundToCent applies the
// round-half-up rule required for customer-facing amounts.
//
// The zero value is a valid $0.00 amount, so Money can be embedded in
// aggregates without a constructor guard.
//
// Example:
//
//	fee := kernel.MustMoneyFromString("3.99")
//	total := fee.Add(kernel.MoneyFromCents(250)) // $6.49
type Money struct {
	amount decimal.Decimal
}

// MoneyFromDecimal wraps a decimal amount as Money.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromCents creates Money from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// MoneyFromString parses a decimal string such as "3.99" into Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money amount", err)
	}
	return Money{amount: d}, nil
}

// MustMoneyFromString parses a decimal string and panics on failure.
// Intended for package-level constants with literal values.
func MustMoneyFromString(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a $0.00 amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul returns the amount multiplied by a decimal factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// RoundToCent rounds the amount to two decimal places using round-half-up
// (half away from zero, which is half-up for the non-negative amounts used
// throughout pricing and settlement).
func (m Money) RoundToCent() Money {
	return Money{amount: m.amount.Round(2)}
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Cents returns the amount in whole cents after rounding to the cent.
func (m Money) Cents() int64 {
	return m.amount.Round(2).Shift(2).IntPart()
}

// IsEqual reports whether two amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount equals zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String renders the amount with two decimal places, e.g. "7.46".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
