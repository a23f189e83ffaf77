// Package report renders settlement results.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/allocate"
	"github.com/settleup-dev/settleup/internal/balance"
	"github.com/settleup-dev/settleup/internal/engine"
	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	rule       = "------------------------"
)

// textWriter remembers the first write error so sections can be written
// without checking every line.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// WriteText writes the human-readable report for one expense sheet.
func WriteText(w io.Writer, title string, generated time.Time, res *engine.Result) error {
	tw := &textWriter{w: w}
	cur := res.Reporting
	amt := func(d decimal.Decimal) string { return money.Format(d) + " " + cur }

	tw.printf("Expense Report for %s\n", title)
	tw.printf("Generated on %s\n\n", generated.Format(timeLayout))

	tw.printf("===== NET BALANCES =====\n")
	for _, b := range res.Balances {
		tw.printf("%s\n", standing(b.Person, b.Net, cur))
	}

	tw.printf("\n===== WHO OWES WHAT TO WHOM =====\n")
	byDebtor, debtors := groupByDebtor(res.Transfers)
	if len(debtors) == 0 {
		tw.printf("\nEveryone is settled up\n")
	}
	for _, d := range debtors {
		total := decimal.Zero
		for _, t := range byDebtor[d] {
			total = total.Add(t.Amount)
		}
		tw.printf("\n%s owes a total of %s:\n", d, amt(total))
		for _, t := range byDebtor[d] {
			tw.printf("  → %s to %s\n", amt(t.Amount), t.Creditor)
		}
	}

	tw.printf("\n===== PERSON SUMMARIES =====\n")
	for _, b := range res.Balances {
		writeSummary(tw, b, res.Payments[b.Person], res.Items[b.Person], cur)
	}

	if len(res.Unallocated) > 0 {
		tw.printf("\n===== UNALLOCATED AMOUNTS =====\n")
		for _, u := range res.Unallocated {
			tw.printf("- row %d %s: %s\n", u.Row, u.Description, unallocatedText(u, amt))
		}
	}

	if len(res.Warnings) > 0 {
		tw.printf("\n===== WARNINGS =====\n")
		for _, w := range res.Warnings {
			tw.printf("- %s\n", w)
		}
	}
	return tw.err
}

func writeSummary(tw *textWriter, b model.PersonBalance, payments []model.Payment, items []model.ShareItem, cur string) {
	amt := func(d decimal.Decimal) string { return money.Format(d) + " " + cur }
	tw.printf("\n%s's Summary\n%s\n", b.Person, rule)

	if len(payments) > 0 {
		tw.printf("Expenses Paid:\n")
		total := decimal.Zero
		for _, p := range payments {
			tw.printf("- %s: %s\n", p.Description, amt(p.Amount))
			total = total.Add(p.Amount)
		}
		tw.printf("Total Paid: %s\n", amt(total))
	} else {
		tw.printf("Expenses Paid: None\n")
	}

	if len(items) > 0 {
		tw.printf("\nShares:\n")
		total := decimal.Zero
		for _, it := range items {
			tw.printf("- %s: %s of %s\n", it.Description, amt(it.Share), amt(it.Total))
			total = total.Add(it.Share)
		}
		tw.printf("Total Share: %s\n", amt(total))
	} else {
		tw.printf("\nShares: None\n")
	}

	tw.printf("\nNet Balance: %s\n", amt(b.Net))
	tw.printf("%s\n%s\n", standing(b.Person, b.Net, cur), rule)
}

func standing(person string, net decimal.Decimal, cur string) string {
	switch net.Sign() {
	case 1:
		return fmt.Sprintf("%s is owed %s %s", person, money.Format(net), cur)
	case -1:
		return fmt.Sprintf("%s owes %s %s", person, money.Format(net.Abs()), cur)
	}
	return person + " is settled up"
}

func unallocatedText(u balance.Unallocated, amt func(decimal.Decimal) string) string {
	switch {
	case u.Policy == allocate.PolicyNone:
		return fmt.Sprintf("%s paid but shared with nobody", amt(u.Amount))
	case u.Amount.IsNegative():
		return fmt.Sprintf("explicit shares exceed the amount by %s", amt(u.Amount.Neg()))
	}
	return fmt.Sprintf("%s not covered by explicit shares, charged to nobody", amt(u.Amount))
}

// groupByDebtor keeps transfer order within each debtor; debtors are sorted.
func groupByDebtor(transfers []model.Transfer) (map[string][]model.Transfer, []string) {
	by := make(map[string][]model.Transfer)
	var debtors []string
	for _, t := range transfers {
		if _, ok := by[t.Debtor]; !ok {
			debtors = append(debtors, t.Debtor)
		}
		by[t.Debtor] = append(by[t.Debtor], t)
	}
	sort.Strings(debtors)
	return by, debtors
}
