package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable holds exchange rates relative to Base, expressed as units of the
// quoted currency per 1 unit of Base.
type RateTable struct {
	Base      string
	FetchedAt time.Time
	Rates     map[string]decimal.Decimal
}

// Lookup returns the rate for code. Only positive rates are returned.
func (t *RateTable) Lookup(code string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	r, ok := t.Rates[strings.ToUpper(code)]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return r, true
}
