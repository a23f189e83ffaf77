package model

import "github.com/shopspring/decimal"

// RawRow is one row of the input feed before validation. Cells hold the text
// exactly as read from the source.
type RawRow struct {
	Row         int // 1-based source row; the header is row 1
	Payer       string
	Description string
	Amount      string
	Currency    string
	SharedWith  string            // "A, B, C"
	Shares      map[string]string // person -> "<Person>'s share" cell
}

// Expense is a validated expense. Amounts are in Currency until normalized.
type Expense struct {
	Row          int
	Payer        string
	Description  string
	Amount       decimal.Decimal
	Currency     string
	Participants []string                   // deduplicated, first-appearance order
	Shares       map[string]decimal.Decimal // explicit shares, may be nil
}

// ExplicitShare returns the declared share for person. Entries for people
// outside Participants are never consulted.
func (e Expense) ExplicitShare(person string) (decimal.Decimal, bool) {
	if e.Shares == nil || !e.IsParticipant(person) {
		return decimal.Zero, false
	}
	s, ok := e.Shares[person]
	return s, ok
}

// IsParticipant reports whether person shares the expense.
func (e Expense) IsParticipant(person string) bool {
	for _, p := range e.Participants {
		if p == person {
			return true
		}
	}
	return false
}
