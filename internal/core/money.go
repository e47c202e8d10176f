// Package core holds the ledger domain types and exact money arithmetic.
//
// Amounts cross the API boundary as decimal strings or JSON numbers, are
// parsed through shopspring/decimal, and live as integer cents from there
// on. Percentages are computed in decimal and clamped to [0, 100].
package core

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to Money, rounding half-up to
// cents. The amount must be strictly positive.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12.345") -> 1235 cents (half-up)
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the exact decimal value of the amount.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float64 returns the amount as a float for JSON response shaping only.
// All arithmetic happens on cents or decimals.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// String renders the amount with two decimal places, e.g. "12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Percent returns part/whole as a percentage clamped to [0, 100], rounded
// to two decimal places. A non-positive whole yields 0 rather than a
// division error, so progress figures stay total.
func Percent(part, whole Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	p := part.Decimal().Div(whole.Decimal()).Mul(hundred)
	if p.IsNegative() {
		return 0
	}
	if p.GreaterThan(hundred) {
		return 100
	}
	f, _ := p.Round(2).Float64()
	return f
}
