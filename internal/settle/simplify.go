// Package settle reduces net balances to a short list of settling transfers.
package settle

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

// Simplify matches the largest remaining debtor against the largest remaining
// creditor until one side runs out. Equal amounts are ordered by person name,
// so the output depends only on the balances.
//
// This is a greedy heuristic. It does not look for zero-sum cycles among three
// or more people, so it can emit more transfers than the true minimum.
func Simplify(balances map[string]model.PersonBalance) []model.Transfer {
	var debtors, creditors queue
	for person, b := range balances {
		switch b.Net.Sign() {
		case -1:
			debtors = append(debtors, party{person: person, amount: b.Net.Neg()})
		case 1:
			creditors = append(creditors, party{person: person, amount: b.Net})
		}
	}
	debtors.sort()
	creditors.sort()

	var transfers []model.Transfer
	for len(debtors) > 0 && len(creditors) > 0 {
		d := debtors.pop()
		c := creditors.pop()

		amount := decimal.Min(d.amount, c.amount)
		transfers = append(transfers, model.Transfer{Debtor: d.person, Creditor: c.person, Amount: amount})

		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)
		if d.amount.GreaterThan(money.Epsilon) {
			debtors.push(d)
		}
		if c.amount.GreaterThan(money.Epsilon) {
			creditors.push(c)
		}
	}
	return transfers
}

type party struct {
	person string
	amount decimal.Decimal
}

// before orders by amount descending, then person ascending.
func (p party) before(o party) bool {
	if c := p.amount.Cmp(o.amount); c != 0 {
		return c > 0
	}
	return p.person < o.person
}

// queue is kept sorted with the next party to match at index 0.
type queue []party

func (q queue) sort() {
	sort.Slice(q, func(i, j int) bool { return q[i].before(q[j]) })
}

func (q *queue) pop() party {
	p := (*q)[0]
	*q = (*q)[1:]
	return p
}

func (q *queue) push(p party) {
	i := sort.Search(len(*q), func(i int) bool { return p.before((*q)[i]) })
	*q = append(*q, party{})
	copy((*q)[i+1:], (*q)[i:])
	(*q)[i] = p
}
