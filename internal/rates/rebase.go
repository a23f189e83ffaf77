package rates

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
)

// Rebase re-expresses t relative to base, which must be quoted in t.
func Rebase(t *model.RateTable, base string) (*model.RateTable, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if t.Base == base {
		return t, nil
	}
	pivot, ok := t.Lookup(base)
	if !ok {
		return nil, fmt.Errorf("rate table based on %s has no rate for %s", t.Base, base)
	}
	out := &model.RateTable{Base: base, FetchedAt: t.FetchedAt, Rates: make(map[string]decimal.Decimal, len(t.Rates)+1)}
	for code, r := range t.Rates {
		out.Rates[code] = r.DivRound(pivot, 16)
	}
	out.Rates[t.Base] = decimal.NewFromInt(1).DivRound(pivot, 16)
	out.Rates[base] = decimal.NewFromInt(1)
	return out, nil
}
