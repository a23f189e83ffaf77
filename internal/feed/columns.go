package feed

import (
	"fmt"
	"strings"

	"github.com/settleup-dev/settleup/internal/model"
)

// Column headers of an expense sheet.
const (
	ColPayer       = "Paying person"
	ColDescription = "Description"
	ColAmount      = "Amount"
	ColCurrency    = "Currency"
	ColSharedWith  = "Shared with"

	shareSuffix = "'s share"
)

// ShareColumn returns the explicit-share column header for person.
func ShareColumn(person string) string {
	return person + shareSuffix
}

// layout maps header names to column indexes.
type layout struct {
	payer, desc, amount, currency, shared int
	shares                                map[string]int // person -> column
}

func newLayout(header []string) (layout, error) {
	l := layout{payer: -1, desc: -1, amount: -1, currency: -1, shared: -1, shares: make(map[string]int)}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, ColPayer):
			l.payer = i
		case strings.EqualFold(h, ColDescription):
			l.desc = i
		case strings.EqualFold(h, ColAmount):
			l.amount = i
		case strings.EqualFold(h, ColCurrency):
			l.currency = i
		case strings.EqualFold(h, ColSharedWith):
			l.shared = i
		case strings.HasSuffix(h, shareSuffix):
			person := strings.TrimSpace(strings.TrimSuffix(h, shareSuffix))
			if person != "" {
				l.shares[person] = i
			}
		}
	}
	if l.payer < 0 {
		return layout{}, fmt.Errorf("missing %q column", ColPayer)
	}
	return l, nil
}

// row builds a RawRow from one record; short records read as blank cells.
func (l layout) row(n int, rec []string) model.RawRow {
	r := model.RawRow{
		Row:         n,
		Payer:       cell(rec, l.payer),
		Description: cell(rec, l.desc),
		Amount:      cell(rec, l.amount),
		Currency:    cell(rec, l.currency),
		SharedWith:  cell(rec, l.shared),
	}
	for person, i := range l.shares {
		if v := cell(rec, i); strings.TrimSpace(v) != "" {
			if r.Shares == nil {
				r.Shares = make(map[string]string)
			}
			r.Shares[person] = v
		}
	}
	return r
}

// rows converts a header + records table. Blank records are skipped.
func rows(table [][]string) ([]model.RawRow, error) {
	if len(table) == 0 {
		return nil, nil
	}
	l, err := newLayout(table[0])
	if err != nil {
		return nil, err
	}
	var out []model.RawRow
	for i, rec := range table[1:] {
		if blank(rec) {
			continue
		}
		out = append(out, l.row(i+2, rec))
	}
	return out, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
