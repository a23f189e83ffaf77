// Package rates retrieves and stores exchange rate tables.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/log"
	"github.com/settleup-dev/settleup/internal/model"
)

// ErrUnavailable is returned when the rate source cannot produce a table.
var ErrUnavailable = errors.New("exchange rates unavailable")

// DefaultURL is the open.er-api.com latest-rates endpoint; {base} is
// replaced with the reporting currency.
const DefaultURL = "https://open.er-api.com/v6/latest/{base}"

// Fetcher downloads rate tables over HTTP.
type Fetcher struct {
	URL    string
	Client *http.Client
	Logger *log.Logger
	now    func() time.Time
}

// NewFetcher creates a Fetcher with a request timeout.
func NewFetcher(url string, timeout time.Duration, logger *log.Logger) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Fetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Logger: logger.WithComponent("rates"),
		now:    time.Now,
	}
}

type apiResponse struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	ErrType  string                     `json:"error-type"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// Fetch returns the rate table for base. Any failure wraps ErrUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, base string) (*model.RateTable, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	url := strings.ReplaceAll(f.URL, "{base}", base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	f.Logger.DebugContext(ctx, "fetching exchange rates", "url", url)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%w: result %q %s", ErrUnavailable, body.Result, body.ErrType)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrUnavailable)
	}

	if body.BaseCode != "" {
		base = strings.ToUpper(body.BaseCode)
	}
	table := &model.RateTable{Base: base, FetchedAt: f.now().UTC(), Rates: clean(body.Rates)}
	f.Logger.DebugContext(ctx, "fetched exchange rates", "base", table.Base, "count", len(table.Rates))
	return table, nil
}

// clean upper-cases codes and drops non-positive rates.
func clean(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for code, r := range in {
		if !r.IsPositive() {
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = r
	}
	return out
}
