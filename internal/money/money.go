// Package money holds the decimal helpers shared by the settlement pipeline.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the settlement granularity.
const Places = 2

// Epsilon is the smallest amount still worth settling.
var Epsilon = decimal.New(1, -Places)

// ErrInvalidAmount is returned for text that is not a decimal amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Round rounds to two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Accumulate adds x to total and rounds the sum. Totals are folded with this
// after every addition so they match a displayed running total.
func Accumulate(total, x decimal.Decimal) decimal.Decimal {
	return Round(total.Add(x))
}

// Parse reads an amount, accepting "12.34" and "12,34".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// Format renders d with two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
