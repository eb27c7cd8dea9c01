// Package money implements the fixed-point amount convention used across
// the store and the API.
//
// Transaction amounts are persisted as integer miliunits: the display value
// multiplied by 1000. Arithmetic stays in decimal form and converts to a
// float only at the JSON boundary.
package money

import (
	"errors"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Scale is the number of miliunits in one display unit.
const Scale = 1000

// ErrInvalidAmount is returned for amounts that are not a finite number of
// whole miliunits.
var ErrInvalidAmount = errors.New("invalid amount")

// ToDisplay converts a stored miliunit amount into display units.
func ToDisplay(miliunits int64) decimal.Decimal {
	return decimal.New(miliunits, -3)
}

// FromUnits returns a whole number of display units, the form account
// budgets are kept in.
func FromUnits(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

// ToStorage converts a display value into miliunits, rounding half away
// from zero.
func ToStorage(value decimal.Decimal) int64 {
	return value.Shift(3).Round(0).IntPart()
}

// FromFloat converts a display value received as a float into miliunits.
func FromFloat(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return ToStorage(decimal.NewFromFloat(v)), nil
}

// ParseStored parses an amount in the text form it comes out of the store
// and returns it in display units. Empty, non-numeric and fractional
// miliunit values are rejected.
func ParseStored(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Shift(-3), nil
}

// NullIfZero reports zero as absent so callers can tell an unset budget
// from a configured one. Any other value is returned as a float.
func NullIfZero(d decimal.Decimal) *float64 {
	if d.IsZero() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// Format renders a display value in the currency's conventional notation,
// e.g. "$410.00". Unknown currency codes fall back to a plain two-decimal form.
func Format(d decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}
