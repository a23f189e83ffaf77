// Package runlog keeps a CSV history of the warnings raised by settle runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/settleup-dev/settleup/internal/model"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Source    string
	Kind      model.WarningKind
	Row       int // 0 when the warning is not tied to a row
	Message   string
}

// Header is the CSV header of the run log.
const Header = "timestamp,source,kind,row,message"

// DefaultFile is used when no path is configured.
const DefaultFile = "settleup_warnings.csv"

const (
	numFields    = 5
	colTimestamp = 0
	colSource    = 1
	colKind      = 2
	colRow       = 3
	colMessage   = 4
)

// FromWarnings stamps the warnings of one source with ts.
func FromWarnings(ts time.Time, source string, warnings []model.Warning) []Entry {
	entries := make([]Entry, 0, len(warnings))
	for _, w := range warnings {
		entries = append(entries, Entry{
			Timestamp: ts,
			Source:    source,
			Kind:      w.Kind,
			Row:       w.Row,
			Message:   w.Message,
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colKind] = string(e.Kind)
	if e.Row > 0 {
		row[colRow] = strconv.Itoa(e.Row)
	}
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var row int
	if record[colRow] != "" {
		row, err = strconv.Atoi(record[colRow])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing row %q: %w", record[colRow], err)
		}
	}

	return Entry{
		Timestamp: ts,
		Source:    record[colSource],
		Kind:      model.WarningKind(record[colKind]),
		Row:       row,
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to path, creating the file, its directory and the
// header if needed.
func Append(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from path, or nil if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
