package rates

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/settleup-dev/settleup/internal/model"
)

// fileTable is the YAML form of a rate table. Rates are kept as strings so
// they survive without float rounding.
type fileTable struct {
	Base      string            `yaml:"base"`
	FetchedAt time.Time         `yaml:"fetched_at,omitempty"`
	Rates     map[string]string `yaml:"rates"`
}

// LoadFile reads a YAML rate table. Non-positive rates are dropped.
func LoadFile(path string) (*model.RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rate table: %w", err)
	}
	var ft fileTable
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("parsing rate table: %w", err)
	}

	parsed := make(map[string]decimal.Decimal, len(ft.Rates))
	for code, s := range ft.Rates {
		r, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("parsing rate for %s: %w", code, err)
		}
		parsed[code] = r
	}
	return &model.RateTable{
		Base:      strings.ToUpper(strings.TrimSpace(ft.Base)),
		FetchedAt: ft.FetchedAt,
		Rates:     clean(parsed),
	}, nil
}

// SaveFile writes t as YAML.
func SaveFile(path string, t *model.RateTable) error {
	ft := fileTable{Base: t.Base, FetchedAt: t.FetchedAt, Rates: make(map[string]string, len(t.Rates))}
	for code, r := range t.Rates {
		ft.Rates[code] = r.String()
	}
	data, err := yaml.Marshal(&ft)
	if err != nil {
		return fmt.Errorf("marshaling rate table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rate table: %w", err)
	}
	return nil
}
