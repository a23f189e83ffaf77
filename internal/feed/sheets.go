package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/settleup-dev/settleup/internal/model"
)

// SheetsSource reads an expense sheet from Google Sheets.
type SheetsSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// DefaultRange is read when no range is given: the first sheet, all columns.
const DefaultRange = "A:ZZ"

// NewSheetsSource creates a source using service account credentials from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange string) (*SheetsSource, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if readRange == "" {
		readRange = DefaultRange
	}

	creds, err := serviceAccountJSON()
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSource{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Name identifies the source in reports.
func (s *SheetsSource) Name() string {
	return s.spreadsheetID
}

// Rows fetches the range and converts it to raw rows.
func (s *SheetsSource) Rows(ctx context.Context) ([]model.RawRow, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", s.readRange, err)
	}
	return FromValues(resp.Values)
}

// FromValues converts a Sheets values matrix (header row first) to raw rows.
func FromValues(values [][]interface{}) ([]model.RawRow, error) {
	table := make([][]string, 0, len(values))
	for _, v := range values {
		table = append(table, toStrings(v))
	}
	out, err := rows(table)
	if err != nil {
		return nil, fmt.Errorf("reading sheet values: %w", err)
	}
	return out, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case nil:
		case string:
			out[i] = x
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func serviceAccountJSON() ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); v != "" {
		return []byte(v), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}
