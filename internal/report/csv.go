package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/money"
)

// TransfersHeader is the CSV header for <sheet>_transfers.csv.
const TransfersHeader = "debtor,creditor,amount,currency"

const (
	numFields   = 4
	colDebtor   = 0
	colCreditor = 1
	colAmount   = 2
	colCurrency = 3
)

// WriteTransfersCSV writes transfers in settlement order.
func WriteTransfersCSV(w io.Writer, transfers []model.Transfer, currency string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransfersHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range transfers {
		if err := cw.Write(MarshalTransfer(t, currency)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransfersCSV reads a transfers CSV written by WriteTransfersCSV.
func ReadTransfersCSV(r io.Reader) ([]model.Transfer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transfers CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var out []model.Transfer
	for i, rec := range records[1:] {
		t, err := UnmarshalTransfer(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// MarshalTransfer converts a Transfer to a CSV row.
func MarshalTransfer(t model.Transfer, currency string) []string {
	row := make([]string, numFields)
	row[colDebtor] = t.Debtor
	row[colCreditor] = t.Creditor
	row[colAmount] = money.Format(t.Amount)
	row[colCurrency] = currency
	return row
}

// UnmarshalTransfer converts a CSV row to a Transfer.
func UnmarshalTransfer(record []string) (model.Transfer, error) {
	if len(record) != numFields {
		return model.Transfer{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return model.Transfer{
		Debtor:   record[colDebtor],
		Creditor: record[colCreditor],
		Amount:   amount,
	}, nil
}
