package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/balance"
	"github.com/settleup-dev/settleup/internal/money"
)

// CheckError describes a violated consistency property of a Result.
type CheckError struct {
	Property    int
	Subject     string
	Description string
}

func (e CheckError) Error() string {
	return fmt.Sprintf("property %d [%s]: %s", e.Property, e.Subject, e.Description)
}

const (
	PropConservation = 1
	PropZeroSum      = 2
	PropSettlement   = 3
)

// Check verifies a Result:
//
//  1. paid totals equal the expense amounts within one cent per expense, and
//     share totals equal the amounts of shared expenses within a further cent
//     per allocated share;
//  2. net balances sum to zero within the same allowance plus a cent per
//     person, once recorded shortfalls and overflows are accounted for;
//  3. applying the transfers leaves nobody owing or owed more than a cent on
//     the side that was settled.
func Check(res *Result) []CheckError {
	var errs []CheckError
	if res == nil || len(res.Expenses) == 0 {
		return nil
	}

	amountSum, sharedSum := decimal.Zero, decimal.Zero
	for _, e := range res.Expenses {
		amountSum = amountSum.Add(e.Amount)
		if len(e.Participants) > 0 {
			sharedSum = sharedSum.Add(e.Amount)
		}
	}
	shortfall := balance.ShortfallTotal(res.Unallocated)

	// Every share is rounded to the cent as it is added to a running total.
	shares := 0
	for _, items := range res.Items {
		shares += len(items)
	}
	perShare := money.Epsilon.Mul(decimal.NewFromInt(int64(shares)))

	paidSum, shareSum, netSum := decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range res.Balances {
		paidSum = paidSum.Add(b.Paid)
		shareSum = shareSum.Add(b.Share)
		netSum = netSum.Add(b.Net)
	}

	perExpense := money.Epsilon.Mul(decimal.NewFromInt(int64(len(res.Expenses))))
	if paidSum.Sub(amountSum).Abs().GreaterThan(perExpense) {
		errs = append(errs, CheckError{
			Property:    PropConservation,
			Subject:     "paid",
			Description: fmt.Sprintf("paid total %s != expense total %s", money.Format(paidSum), money.Format(amountSum)),
		})
	}
	// Shares charged on shared expenses, less what the explicit-share policy
	// left unallocated, should match the shared amounts.
	if shareSum.Add(shortfall).Sub(sharedSum).Abs().GreaterThan(perExpense.Add(perShare)) {
		errs = append(errs, CheckError{
			Property:    PropConservation,
			Subject:     "share",
			Description: fmt.Sprintf("share total %s != shared expense total %s (unallocated %s)", money.Format(shareSum), money.Format(sharedSum), money.Format(shortfall)),
		})
	}

	unallocated := balance.UnallocatedTotal(res.Unallocated)
	perPerson := money.Epsilon.Mul(decimal.NewFromInt(int64(len(res.Balances))))
	if netSum.Sub(unallocated).Abs().GreaterThan(perPerson.Add(perExpense).Add(perShare)) {
		errs = append(errs, CheckError{
			Property:    PropZeroSum,
			Subject:     "net",
			Description: fmt.Sprintf("net balances sum to %s, unallocated %s", money.Format(netSum), money.Format(unallocated)),
		})
	}

	residual := make(map[string]decimal.Decimal, len(res.Balances))
	for _, b := range res.Balances {
		residual[b.Person] = b.Net
	}
	for _, t := range res.Transfers {
		residual[t.Debtor] = residual[t.Debtor].Add(t.Amount)
		residual[t.Creditor] = residual[t.Creditor].Sub(t.Amount)
	}
	var owing, owed []string
	for _, b := range res.Balances {
		r := residual[b.Person]
		if r.LessThan(money.Epsilon.Neg()) {
			owing = append(owing, b.Person)
		}
		if r.GreaterThan(money.Epsilon) {
			owed = append(owed, b.Person)
		}
	}
	if len(owing) > 0 && len(owed) > 0 {
		errs = append(errs, CheckError{
			Property:    PropSettlement,
			Subject:     "transfers",
			Description: fmt.Sprintf("still unsettled after transfers: owing %v, owed %v", owing, owed),
		})
	}
	return errs
}
