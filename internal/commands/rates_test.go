package commands_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleup-dev/settleup/internal/rates"
)

func rateServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result":"success","base_code":%q,"rates":{"DKK":1,"EUR":0.134,"SEK":1.52,"XXX":0}}`, filepath.Base(r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRates_Print(t *testing.T) {
	srv := rateServer(t)
	env := []string{"SETTLEUP_RATES_URL=" + srv.URL + "/latest/{base}"}

	out, err := runSettleup(t, env, "rates", "--dir", t.TempDir())
	require.NoError(t, err, out)
	assert.Contains(t, out, "Rates for 1 DKK")
	assert.Contains(t, out, "DKK 1\nEUR 0.134\nSEK 1.52\n")
	assert.NotContains(t, out, "XXX")
}

func TestRates_SaveAndSettleOffline(t *testing.T) {
	srv := rateServer(t)
	env := []string{"SETTLEUP_RATES_URL=" + srv.URL + "/latest/{base}"}
	dir := setupTrip(t)

	out, err := runSettleup(t, env, "rates", "--dir", dir, "--save", "saved.yaml")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved 3 rates to saved.yaml")

	table, err := rates.LoadFile(filepath.Join(dir, "saved.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "DKK", table.Base)
	assert.Equal(t, "0.134", table.Rates["EUR"].String())

	out, err = runSettleup(t, nil, "settle", "trip.csv", "--dir", dir, "--offline", "--rates-file", "saved.yaml")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Bo is owed 243.13 DKK")
}

func TestRates_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"error","error-type":"unsupported-code"}`)
	}))
	defer srv.Close()

	env := []string{"SETTLEUP_RATES_URL=" + srv.URL + "/{base}"}
	out, err := runSettleup(t, env, "rates", "--dir", t.TempDir(), "--currency", "zzz")
	require.Error(t, err)
	assert.Contains(t, out, "exchange rates unavailable")
}
