package feed

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/settleup-dev/settleup/internal/model"
)

// CSVParser reads expense sheets exported as CSV.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV expense sheet.
func (p *CSVParser) Parse(r io.Reader) ([]model.RawRow, error) {
	return ReadCSV(r)
}

// ReadCSV reads a header-driven expense CSV. Columns are located by header
// name; any "<Person>'s share" column becomes an explicit-share cell.
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expense CSV: %w", err)
	}

	out, err := rows(records)
	if err != nil {
		return nil, fmt.Errorf("reading expense CSV: %w", err)
	}
	return out, nil
}
