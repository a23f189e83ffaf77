package model

import "github.com/shopspring/decimal"

// PersonBalance is one person's totals in the reporting currency.
// Net > 0 means the person is owed money.
type PersonBalance struct {
	Person string
	Paid   decimal.Decimal
	Share  decimal.Decimal
	Net    decimal.Decimal
}

// Share is the portion of one expense allocated to a person.
type Share struct {
	Person string
	Amount decimal.Decimal
}

// Transfer is a single settling payment from Debtor to Creditor.
type Transfer struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal
}

// Payment is one expense paid by a person, for itemized summaries.
type Payment struct {
	Description string
	Amount      decimal.Decimal
}

// ShareItem is one allocated share of an expense, for itemized summaries.
type ShareItem struct {
	Description string
	Share       decimal.Decimal
	Total       decimal.Decimal // full expense amount
}
