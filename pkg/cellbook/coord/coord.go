// Package coord resolves spreadsheet cell addresses into canonical zero-based
// coordinates.
//
// Three notations are accepted: A1-style labels ("B3", "$b$3"), zero-based
// (row, column) pairs and one-based (row, column) pairs. Every entry point
// returns the same Cell for equivalent inputs, and Cell.Label is the inverse
// of ParseLabel.
package coord

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// MaxRows is the number of rows a worksheet can address.
	MaxRows = 1048576
	// MaxColumns is the number of columns a worksheet can address.
	MaxColumns = 16384
)

var labelPattern = regexp.MustCompile(`^\$?([A-Za-z]{1,3})\$?([0-9]+)$`)

// Cell is a canonical zero-based cell coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ParseLabel parses an A1-style label. Absolute markers ("$") and lowercase
// column letters are accepted.
func ParseLabel(label string) (Cell, error) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Cell{}, &AddressError{Input: label, Reason: "expected column letters followed by a row number"}
	}

	col, err := excelize.ColumnNameToNumber(m[1])
	if err != nil {
		return Cell{}, &AddressError{Input: label, Reason: err.Error()}
	}
	if col > MaxColumns {
		return Cell{}, &AddressError{Input: label, Reason: fmt.Sprintf("column exceeds %s", ColumnLabel(MaxColumns-1))}
	}

	row, err := strconv.Atoi(m[2])
	if err != nil || row < 1 || row > MaxRows {
		return Cell{}, &AddressError{Input: label, Reason: fmt.Sprintf("row must be between 1 and %d", MaxRows)}
	}

	return Cell{Row: row - 1, Col: col - 1}, nil
}

// MustParse is like ParseLabel but panics on malformed input. It is intended
// for constant labels in tests and examples.
func MustParse(label string) Cell {
	c, err := ParseLabel(label)
	if err != nil {
		panic(err)
	}
	return c
}

// FromZeroBased validates a zero-based (row, col) pair.
func FromZeroBased(row, col int) (Cell, error) {
	c := Cell{Row: row, Col: col}
	if !c.Valid() {
		return Cell{}, &AddressError{Input: fmt.Sprintf("(%d, %d)", row, col), Reason: "zero-based index out of range"}
	}
	return c, nil
}

// FromOneBased converts a one-based (row, col) pair, as used by spreadsheet
// applications, into a canonical Cell.
func FromOneBased(row, col int) (Cell, error) {
	if row < 1 || col < 1 {
		return Cell{}, &AddressError{Input: fmt.Sprintf("(%d, %d)", row, col), Reason: "one-based indices must be at least 1"}
	}
	c := Cell{Row: row - 1, Col: col - 1}
	if !c.Valid() {
		return Cell{}, &AddressError{Input: fmt.Sprintf("(%d, %d)", row, col), Reason: "one-based index out of range"}
	}
	return c, nil
}

// Valid reports whether c lies inside the addressable sheet area.
func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < MaxRows && c.Col >= 0 && c.Col < MaxColumns
}

// Label returns the canonical uppercase A1-style label. The result for an
// invalid Cell is unspecified.
func (c Cell) Label() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return ColumnLabel(c.Col) + strconv.Itoa(c.Row+1)
	}
	return name
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return c.Label()
}

// Offset returns c moved by the given number of rows and columns.
func (c Cell) Offset(rows, cols int) Cell {
	return Cell{Row: c.Row + rows, Col: c.Col + cols}
}

// ColumnLabel converts a zero-based column index into bijective base-26
// letters: 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLabel(col int) string {
	if name, err := excelize.ColumnNumberToName(col + 1); err == nil {
		return name
	}
	if col < 0 {
		return ""
	}
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// ColumnIndex converts column letters into a zero-based column index.
func ColumnIndex(letters string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimPrefix(letters, "$"))
	if err != nil {
		return 0, &AddressError{Input: letters, Reason: err.Error()}
	}
	if n > MaxColumns {
		return 0, &AddressError{Input: letters, Reason: fmt.Sprintf("column exceeds %s", ColumnLabel(MaxColumns-1))}
	}
	return n - 1, nil
}
