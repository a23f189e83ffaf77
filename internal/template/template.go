// Package template writes blank expense sheets for a group.
package template

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/settleup-dev/settleup/internal/feed"
)

// DefaultRows is the number of blank rows in a new sheet.
const DefaultRows = 10

// sharedCol is the index of the "Shared with" column in Header.
const sharedCol = 4

// ErrNoMembers is returned when a template is requested for an empty group.
var ErrNoMembers = errors.New("template needs at least one member")

// Header returns the sheet header for members.
func Header(members []string) []string {
	h := []string{feed.ColPayer, feed.ColDescription, feed.ColAmount, feed.ColCurrency, feed.ColSharedWith}
	for _, m := range members {
		h = append(h, feed.ShareColumn(m))
	}
	return h
}

// Write writes a sheet with blankRows empty expense rows. Each row has
// "Shared with" filled in with the whole group.
func Write(w io.Writer, members []string, blankRows int) error {
	if len(members) == 0 {
		return ErrNoMembers
	}
	if blankRows < 0 {
		blankRows = 0
	}

	header := Header(members)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	everyone := strings.Join(members, ", ")
	for i := 0; i < blankRows; i++ {
		row := make([]string, len(header))
		row[sharedCol] = everyone
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
