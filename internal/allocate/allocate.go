// Package allocate distributes one expense among the people it is shared
// with.
package allocate

import (
	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
)

// Policy names the rule that produced an allocation.
type Policy string

const (
	PolicyNone      Policy = "none"      // no participants
	PolicyEqual     Policy = "equal"     // no explicit shares
	PolicyExplicit  Policy = "explicit"  // explicit shares cover the amount
	PolicyRemainder Policy = "remainder" // remainder split among implicit participants
	PolicyShortfall Policy = "shortfall" // explicit shares fall short, nobody absorbs the rest
)

// Allocation is the result of splitting one expense.
type Allocation struct {
	Policy Policy
	Shares []model.Share // participant order; people allocated nothing are omitted
	// Unallocated is Amount minus the declared shares when explicit shares
	// decide the split: positive for a shortfall, negative for an overflow.
	// It is Amount itself when the expense has no participants.
	Unallocated decimal.Decimal
}

// Allocate splits e among its participants:
//
//   - no explicit shares: equal split;
//   - explicit shares summing to at least Amount: declared shares only;
//   - otherwise the remainder is split equally among participants without an
//     explicit share, or dropped when there are none.
//
// Shares are not rounded here.
func Allocate(e model.Expense) Allocation {
	if len(e.Participants) == 0 {
		return Allocation{Policy: PolicyNone, Unallocated: e.Amount}
	}

	var explicit []model.Share
	var implicit []string
	explicitSum := decimal.Zero
	for _, p := range e.Participants {
		if s, ok := e.ExplicitShare(p); ok {
			explicit = append(explicit, model.Share{Person: p, Amount: s})
			explicitSum = explicitSum.Add(s)
		} else {
			implicit = append(implicit, p)
		}
	}

	if len(explicit) == 0 {
		each := e.Amount.Div(decimal.NewFromInt(int64(len(e.Participants))))
		shares := make([]model.Share, 0, len(e.Participants))
		for _, p := range e.Participants {
			shares = append(shares, model.Share{Person: p, Amount: each})
		}
		return Allocation{Policy: PolicyEqual, Shares: shares, Unallocated: decimal.Zero}
	}

	if explicitSum.GreaterThanOrEqual(e.Amount) {
		return Allocation{Policy: PolicyExplicit, Shares: explicit, Unallocated: e.Amount.Sub(explicitSum)}
	}

	if len(implicit) == 0 {
		return Allocation{Policy: PolicyShortfall, Shares: explicit, Unallocated: e.Amount.Sub(explicitSum)}
	}

	each := e.Amount.Sub(explicitSum).Div(decimal.NewFromInt(int64(len(implicit))))
	shares := make([]model.Share, 0, len(e.Participants))
	for _, p := range e.Participants {
		if s, ok := e.ExplicitShare(p); ok {
			shares = append(shares, model.Share{Person: p, Amount: s})
		} else {
			shares = append(shares, model.Share{Person: p, Amount: each})
		}
	}
	return Allocation{Policy: PolicyRemainder, Shares: shares, Unallocated: decimal.Zero}
}

// ByPerson returns the allocation as a person -> amount mapping.
func (a Allocation) ByPerson() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(a.Shares))
	for _, s := range a.Shares {
		m[s.Person] = s.Amount
	}
	return m
}
