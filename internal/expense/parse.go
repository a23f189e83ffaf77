// Package expense validates raw input rows into expenses.
package expense

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

// DefaultPlaceholder replaces a blank description.
const DefaultPlaceholder = "Unnamed item"

// Parse validates rows. Rows without a payer or without a usable amount are
// dropped with a malformed-row warning; everything else is coerced.
func Parse(rows []model.RawRow, reporting, placeholder string) ([]model.Expense, []model.Warning) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	var expenses []model.Expense
	var warnings []model.Warning
	for _, row := range rows {
		e, warns, ok := parseRow(row, reporting, placeholder)
		warnings = append(warnings, warns...)
		if ok {
			expenses = append(expenses, e)
		}
	}
	return expenses, warnings
}

func parseRow(row model.RawRow, reporting, placeholder string) (model.Expense, []model.Warning, bool) {
	payer := strings.TrimSpace(row.Payer)
	if payer == "" {
		// Template rows come with "Shared with" filled in; only warn when
		// something else was entered.
		if strings.TrimSpace(row.Amount) == "" && strings.TrimSpace(row.Description) == "" {
			return model.Expense{}, nil, false
		}
		return model.Expense{}, []model.Warning{malformed(row.Row, "missing paying person")}, false
	}

	amount, err := money.Parse(row.Amount)
	if err != nil {
		return model.Expense{}, []model.Warning{malformed(row.Row, fmt.Sprintf("amount %q is not a number", strings.TrimSpace(row.Amount)))}, false
	}
	if amount.IsNegative() {
		return model.Expense{}, []model.Warning{malformed(row.Row, fmt.Sprintf("amount %s is negative", amount))}, false
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = reporting
	}

	desc := strings.TrimSpace(row.Description)
	if desc == "" {
		desc = placeholder
	}

	e := model.Expense{
		Row:          row.Row,
		Payer:        payer,
		Description:  desc,
		Amount:       amount,
		Currency:     currency,
		Participants: SplitParticipants(row.SharedWith),
	}

	var warnings []model.Warning
	for _, person := range e.Participants {
		cell, ok := row.Shares[person]
		if !ok || strings.TrimSpace(cell) == "" {
			continue
		}
		share, err := money.Parse(cell)
		if err != nil || share.IsNegative() {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnInvalidShare,
				Row:     row.Row,
				Message: fmt.Sprintf("ignoring share %q for %s", strings.TrimSpace(cell), person),
			})
			continue
		}
		if e.Shares == nil {
			e.Shares = make(map[string]decimal.Decimal)
		}
		e.Shares[person] = share
	}
	return e, warnings, true
}

// SplitParticipants parses a "Shared with" cell. Names are trimmed; blanks
// and duplicates are dropped.
func SplitParticipants(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func malformed(row int, msg string) model.Warning {
	return model.Warning{Kind: model.WarnMalformedRow, Row: row, Message: msg + ", row skipped"}
}
