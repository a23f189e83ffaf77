// Package engine runs the settlement pipeline: validate rows, normalize
// currencies, fold balances and simplify debts.
package engine

import (
	"errors"
	"strings"

	"github.com/settleup-dev/settleup/internal/balance"
	"github.com/settleup-dev/settleup/internal/expense"
	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/normalize"
	"github.com/settleup-dev/settleup/internal/settle"
)

// ErrNoData is returned when the input has no usable expense rows.
var ErrNoData = errors.New("no valid expense data")

// DefaultCurrency is the reporting currency when none is configured.
const DefaultCurrency = "DKK"

// Input is everything one run depends on.
type Input struct {
	Rows        []model.RawRow
	Rates       *model.RateTable // nil when the rate source was unavailable
	Reporting   string
	Placeholder string
}

// Result is the output of one run. Balances are sorted by person; Payments
// and Items are keyed by person in expense order.
type Result struct {
	Reporting   string
	Expenses    []model.Expense
	Balances    []model.PersonBalance
	Transfers   []model.Transfer
	Payments    map[string][]model.Payment
	Items       map[string][]model.ShareItem
	Unallocated []balance.Unallocated
	Warnings    []model.Warning
}

// Run executes the pipeline. Identical input always yields an identical
// Result. When no row survives validation it returns ErrNoData together with
// a Result carrying the warnings collected so far.
func Run(in Input) (*Result, error) {
	reporting := strings.ToUpper(strings.TrimSpace(in.Reporting))
	if reporting == "" {
		reporting = DefaultCurrency
	}
	res := &Result{Reporting: reporting}

	expenses, warns := expense.Parse(in.Rows, reporting, in.Placeholder)
	res.Warnings = append(res.Warnings, warns...)
	if len(expenses) == 0 {
		return res, ErrNoData
	}

	normalized, warns := normalize.Normalize(expenses, in.Rates, reporting)
	res.Warnings = append(res.Warnings, warns...)
	res.Expenses = normalized

	ledger := balance.Aggregate(normalized)
	res.Balances = ledger.Sorted()
	res.Transfers = settle.Simplify(ledger.Balances())
	res.Payments = ledger.Payments
	res.Items = ledger.Items
	res.Unallocated = ledger.Unallocated
	return res, nil
}

// Balance returns the balance for person.
func (r *Result) Balance(person string) (model.PersonBalance, bool) {
	for _, b := range r.Balances {
		if b.Person == person {
			return b, true
		}
	}
	return model.PersonBalance{}, false
}
