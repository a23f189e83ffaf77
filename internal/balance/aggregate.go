// Package balance folds normalized expenses into one net balance per person.
package balance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/allocate"
	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

// Unallocated records an expense whose amount was not fully charged to anyone,
// or was over-charged by explicit shares.
type Unallocated struct {
	Row         int
	Description string
	Policy      allocate.Policy
	Amount      decimal.Decimal // positive = shortfall, negative = overflow
}

// Ledger is the folded state of a batch of expenses.
type Ledger struct {
	paid   map[string]decimal.Decimal
	shares map[string]decimal.Decimal
	order  []string

	Payments    map[string][]model.Payment
	Items       map[string][]model.ShareItem
	Unallocated []Unallocated
}

func newLedger() *Ledger {
	return &Ledger{
		paid:     make(map[string]decimal.Decimal),
		shares:   make(map[string]decimal.Decimal),
		Payments: make(map[string][]model.Payment),
		Items:    make(map[string][]model.ShareItem),
	}
}

// Aggregate folds expenses, which must already be in the reporting currency.
// Totals are rounded to two places after every addition.
func Aggregate(expenses []model.Expense) *Ledger {
	l := newLedger()
	for _, e := range expenses {
		l.add(e)
	}
	return l
}

func (l *Ledger) add(e model.Expense) {
	l.touch(e.Payer)
	l.paid[e.Payer] = money.Accumulate(l.paid[e.Payer], e.Amount)
	l.Payments[e.Payer] = append(l.Payments[e.Payer], model.Payment{Description: e.Description, Amount: e.Amount})

	a := allocate.Allocate(e)
	for _, s := range a.Shares {
		l.touch(s.Person)
		l.shares[s.Person] = money.Accumulate(l.shares[s.Person], s.Amount)
		l.Items[s.Person] = append(l.Items[s.Person], model.ShareItem{
			Description: e.Description,
			Share:       s.Amount,
			Total:       e.Amount,
		})
	}
	if !a.Unallocated.IsZero() {
		l.Unallocated = append(l.Unallocated, Unallocated{
			Row:         e.Row,
			Description: e.Description,
			Policy:      a.Policy,
			Amount:      a.Unallocated,
		})
	}
}

func (l *Ledger) touch(person string) {
	if _, ok := l.paid[person]; ok {
		return
	}
	l.paid[person] = decimal.Zero
	l.shares[person] = decimal.Zero
	l.order = append(l.order, person)
}

// Balance returns the totals for one person.
func (l *Ledger) Balance(person string) (model.PersonBalance, bool) {
	paid, ok := l.paid[person]
	if !ok {
		return model.PersonBalance{}, false
	}
	share := l.shares[person]
	return model.PersonBalance{
		Person: person,
		Paid:   paid,
		Share:  share,
		Net:    money.Round(paid.Sub(share)),
	}, true
}

// Balances returns the person -> balance mapping.
func (l *Ledger) Balances() map[string]model.PersonBalance {
	out := make(map[string]model.PersonBalance, len(l.order))
	for _, p := range l.order {
		b, _ := l.Balance(p)
		out[p] = b
	}
	return out
}

// Sorted returns balances ordered by person.
func (l *Ledger) Sorted() []model.PersonBalance {
	out := make([]model.PersonBalance, 0, len(l.order))
	for _, p := range l.order {
		b, _ := l.Balance(p)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Person < out[j].Person })
	return out
}

// UnallocatedTotal sums recorded shortfalls and overflows, including
// expenses shared with nobody.
func UnallocatedTotal(us []Unallocated) decimal.Decimal {
	total := decimal.Zero
	for _, u := range us {
		total = total.Add(u.Amount)
	}
	return total
}

// ShortfallTotal is UnallocatedTotal restricted to expenses that were
// shared with somebody.
func ShortfallTotal(us []Unallocated) decimal.Decimal {
	total := decimal.Zero
	for _, u := range us {
		if u.Policy != allocate.PolicyNone {
			total = total.Add(u.Amount)
		}
	}
	return total
}
