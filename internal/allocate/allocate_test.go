package allocate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleup-dev/settleup/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(amount string, participants []string, shares map[string]string) model.Expense {
	e := model.Expense{Payer: "Anna", Amount: dec(amount), Currency: "DKK", Participants: participants}
	if shares != nil {
		e.Shares = make(map[string]decimal.Decimal)
		for p, s := range shares {
			e.Shares[p] = dec(s)
		}
	}
	return e
}

func fixed(a Allocation) map[string]string {
	out := make(map[string]string)
	for p, s := range a.ByPerson() {
		out[p] = s.StringFixed(2)
	}
	return out
}

func TestAllocate_EqualSplit(t *testing.T) {
	a := Allocate(expense("300", []string{"Anna", "Bo", "Cleo"}, nil))

	assert.Equal(t, PolicyEqual, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "100.00", "Bo": "100.00", "Cleo": "100.00"}, fixed(a))
	assert.True(t, a.Unallocated.IsZero())
}

func TestAllocate_EqualSplitIsUnrounded(t *testing.T) {
	a := Allocate(expense("100", []string{"Anna", "Bo", "Cleo"}, nil))

	require.Len(t, a.Shares, 3)
	assert.True(t, a.Shares[0].Amount.GreaterThan(dec("33.33")))
	assert.True(t, a.Shares[0].Amount.LessThan(dec("33.34")))
}

func TestAllocate_PartialExplicit(t *testing.T) {
	a := Allocate(expense("100", []string{"Anna", "Bo", "Cleo"}, map[string]string{"Anna": "40"}))

	assert.Equal(t, PolicyRemainder, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "40.00", "Bo": "30.00", "Cleo": "30.00"}, fixed(a))
	assert.Equal(t, []string{"Anna", "Bo", "Cleo"}, people(a))
}

func TestAllocate_ExplicitCoversAmount(t *testing.T) {
	a := Allocate(expense("100", []string{"Anna", "Bo", "Cleo"}, map[string]string{"Anna": "60", "Bo": "40"}))

	assert.Equal(t, PolicyExplicit, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "60.00", "Bo": "40.00"}, fixed(a), "Cleo receives nothing")
	assert.True(t, a.Unallocated.IsZero())
}

// Explicit shares above the amount are kept as declared. The surplus is not
// redistributed; Unallocated records it as a negative amount.
func TestAllocate_ExplicitOverflowKeptAsDeclared(t *testing.T) {
	a := Allocate(expense("100", []string{"Anna", "Bo"}, map[string]string{"Anna": "80", "Bo": "50"}))

	assert.Equal(t, PolicyExplicit, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "80.00", "Bo": "50.00"}, fixed(a))
	assert.Equal(t, "-30.00", a.Unallocated.StringFixed(2))
}

// When every participant has an explicit share and the shares fall short of
// the amount, the shortfall is charged to nobody.
func TestAllocate_ShortfallDropped(t *testing.T) {
	a := Allocate(expense("100", []string{"Anna", "Bo"}, map[string]string{"Anna": "30", "Bo": "20"}))

	assert.Equal(t, PolicyShortfall, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "30.00", "Bo": "20.00"}, fixed(a))
	assert.Equal(t, "50.00", a.Unallocated.StringFixed(2))
}

func TestAllocate_NoParticipants(t *testing.T) {
	a := Allocate(expense("75", nil, nil))

	assert.Equal(t, PolicyNone, a.Policy)
	assert.Empty(t, a.Shares)
	assert.Equal(t, "75.00", a.Unallocated.StringFixed(2))
}

func TestAllocate_ZeroExplicitShareCountsAsExplicit(t *testing.T) {
	a := Allocate(expense("90", []string{"Anna", "Bo", "Cleo"}, map[string]string{"Anna": "0"}))

	assert.Equal(t, PolicyRemainder, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "0.00", "Bo": "45.00", "Cleo": "45.00"}, fixed(a))
}

func TestAllocate_SharesOutsideParticipantsIgnored(t *testing.T) {
	a := Allocate(expense("60", []string{"Anna", "Bo"}, map[string]string{"Zed": "60"}))

	assert.Equal(t, PolicyEqual, a.Policy)
	assert.Equal(t, map[string]string{"Anna": "30.00", "Bo": "30.00"}, fixed(a))
}

func people(a Allocation) []string {
	var out []string
	for _, s := range a.Shares {
		out = append(out, s.Person)
	}
	return out
}
