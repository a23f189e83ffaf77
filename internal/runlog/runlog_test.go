package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleup-dev/settleup/internal/model"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testWarnings() []model.Warning {
	return []model.Warning{
		{Kind: model.WarnUnresolvedCurrency, Row: 4, Message: "no exchange rate for XYZ, amount used unconverted"},
		{Kind: model.WarnRateSourceUnavailable, Message: "exchange rates unavailable, all amounts treated as DKK"},
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "warnings.csv")
	require.NoError(t, Append(path, FromWarnings(testTime, "trip.csv", testWarnings())))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "trip.csv", entries[0].Source)
	assert.Equal(t, model.WarnUnresolvedCurrency, entries[0].Kind)
	assert.Equal(t, 4, entries[0].Row)
	assert.Equal(t, 0, entries[1].Row)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warnings.csv")
	require.NoError(t, Append(path, FromWarnings(testTime, "trip.csv", testWarnings()[:1])))
	require.NoError(t, Append(path, FromWarnings(testTime.Add(time.Hour), "party.csv", testWarnings()[1:])))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "trip.csv", entries[0].Source)
	assert.Equal(t, "party.csv", entries[1].Source)
	assert.True(t, testTime.Add(time.Hour).Equal(entries[1].Timestamp))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestAppend_NothingToWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warnings.csv")
	require.NoError(t, Append(path, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warnings.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"short", []string{"a", "b"}, "expected 5 fields"},
		{"bad timestamp", []string{"yesterday", "trip.csv", "malformed-row", "2", "x"}, "parsing timestamp"},
		{"bad row", []string{"2025-01-15T10:30:00Z", "trip.csv", "malformed-row", "two", "x"}, "parsing row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEntry(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
