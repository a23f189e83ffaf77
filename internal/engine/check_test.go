package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleup-dev/settleup/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func settledResult(t *testing.T) *Result {
	t.Helper()
	res, err := Run(Input{
		Rows: []model.RawRow{
			row(2, "A", "x", "-50", "", "A", nil), // dropped
			row(3, "A", "Dinner", "300", "", "A, B, C", nil),
			row(4, "B", "Wine", "45.50", "", "A, B, C", nil),
		},
		Rates:     rates(),
		Reporting: "DKK",
	})
	require.NoError(t, err)
	return res
}

func TestCheck_Clean(t *testing.T) {
	assert.Empty(t, Check(settledResult(t)))
	assert.Empty(t, Check(nil))
	assert.Empty(t, Check(&Result{}))
}

func TestCheck_PaidMismatch(t *testing.T) {
	res := settledResult(t)
	res.Balances[0].Paid = res.Balances[0].Paid.Add(dec("5"))

	errs := Check(res)
	require.NotEmpty(t, errs)
	assert.Equal(t, PropConservation, errs[0].Property)
	assert.Equal(t, "paid", errs[0].Subject)
}

func TestCheck_NetDoesNotSumToZero(t *testing.T) {
	res := settledResult(t)
	res.Balances[1].Net = res.Balances[1].Net.Add(dec("3"))

	var props []int
	for _, e := range Check(res) {
		props = append(props, e.Property)
	}
	assert.Contains(t, props, PropZeroSum)
}

func TestCheck_MissingTransfer(t *testing.T) {
	res := settledResult(t)
	require.NotEmpty(t, res.Transfers)
	res.Transfers = res.Transfers[:len(res.Transfers)-1]

	errs := Check(res)
	require.Len(t, errs, 1)
	assert.Equal(t, PropSettlement, errs[0].Property)
	assert.Contains(t, errs[0].Error(), "property 3 [transfers]")
}

func TestCheck_RoundedEqualSplits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
	}{
		// 0.175 each is charged as 0.18, so 0.72 against 0.70.
		{"small amount", "0.70", ""},
		// 83.71 EUR is 624.70 DKK, 156.175 each.
		{"converted amount", "83.71", "EUR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(Input{
				Rows:      []model.RawRow{row(2, "B", "Boat", tt.amount, tt.currency, "B, C, D, E", nil)},
				Rates:     rates(),
				Reporting: "DKK",
			})
			require.NoError(t, err)
			assert.Empty(t, Check(res))
		})
	}
}

func TestCheck_ShareMismatchBeyondRounding(t *testing.T) {
	res, err := Run(Input{
		Rows:      []model.RawRow{row(2, "B", "Boat", "0.70", "", "B, C, D, E", nil)},
		Rates:     rates(),
		Reporting: "DKK",
	})
	require.NoError(t, err)
	res.Balances[0].Share = res.Balances[0].Share.Add(dec("0.10"))

	errs := Check(res)
	require.NotEmpty(t, errs)
	assert.Equal(t, "share", errs[0].Subject)
}
