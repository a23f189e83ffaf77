// Package normalize converts expenses into the reporting currency.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

// Normalize converts every amount and explicit share into reporting using
// rates. Each converted value is rounded on its own, so converted shares are
// not re-derived from the converted total.
//
// A nil rates table means the rate source was unavailable: all amounts are
// taken as already being in reporting and a single warning is returned.
// A currency missing from the table passes through unconverted with a warning.
func Normalize(expenses []model.Expense, rates *model.RateTable, reporting string) ([]model.Expense, []model.Warning) {
	reporting = strings.ToUpper(reporting)
	out := make([]model.Expense, 0, len(expenses))
	var warnings []model.Warning

	if rates == nil {
		if len(expenses) > 0 {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnRateSourceUnavailable,
				Message: fmt.Sprintf("exchange rates unavailable, all amounts treated as %s", reporting),
			})
		}
		for _, e := range expenses {
			e.Currency = reporting
			out = append(out, e)
		}
		return out, warnings
	}

	for _, e := range expenses {
		cur := strings.ToUpper(strings.TrimSpace(e.Currency))
		if cur == "" || cur == reporting {
			e.Currency = reporting
			out = append(out, e)
			continue
		}

		rate, ok := rates.Lookup(cur)
		if !ok {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnUnresolvedCurrency,
				Row:     e.Row,
				Message: fmt.Sprintf("no exchange rate for %s, amount used unconverted", cur),
			})
			e.Currency = reporting
			out = append(out, e)
			continue
		}

		out = append(out, convert(e, rate, reporting))
	}
	return out, warnings
}

// Convert returns amount expressed in the reporting currency, where rate is
// foreign units per reporting unit.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return money.Round(amount.Div(rate))
}

func convert(e model.Expense, rate decimal.Decimal, reporting string) model.Expense {
	e.Amount = Convert(e.Amount, rate)
	if e.Shares != nil {
		shares := make(map[string]decimal.Decimal, len(e.Shares))
		for person, s := range e.Shares {
			shares[person] = Convert(s, rate)
		}
		e.Shares = shares
	}
	e.Currency = reporting
	return e
}
