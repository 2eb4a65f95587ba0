package models

import (
	"fmt"
	"iter"
	"maps"
	"math"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// Visibility is the tab visibility of a worksheet.
type Visibility int

const (
	// Visible sheets are shown in the tab bar.
	Visible Visibility = iota
	// Hidden sheets can be unhidden by the user.
	Hidden
	// VeryHidden sheets can only be unhidden programmatically.
	VeryHidden
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	case VeryHidden:
		return "veryHidden"
	default:
		return "unknown"
	}
}

// ParseVisibility parses the names returned by Visibility.String.
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "", "visible":
		return Visible, nil
	case "hidden":
		return Hidden, nil
	case "veryHidden":
		return VeryHidden, nil
	default:
		return Visible, fmt.Errorf("unknown sheet visibility %q", s)
	}
}

// Worksheet is a named grid of cells with merge regions and layout
// metadata. Worksheets are created through a Workbook.
type Worksheet struct {
	name       string
	book       *Workbook
	styles     *StyleSet
	grid       *Grid
	merges     []coord.Range
	colWidths  map[int]float64
	rowHeights map[int]float64
	freeze     *coord.Cell
	printArea  *coord.Range
	visibility Visibility
}

func newWorksheet(book *Workbook, name string) *Worksheet {
	return &Worksheet{
		name:       name,
		book:       book,
		styles:     book.styles,
		grid:       NewGrid(),
		colWidths:  make(map[int]float64),
		rowHeights: make(map[int]float64),
	}
}

// Name returns the sheet name.
func (ws *Worksheet) Name() string {
	return ws.name
}

// Index returns the position of the sheet in its workbook, or -1 once the
// sheet has been removed.
func (ws *Worksheet) Index() int {
	if ws.book == nil {
		return -1
	}
	return ws.book.indexOf(ws)
}

// Visibility returns the tab visibility.
func (ws *Worksheet) Visibility() Visibility {
	return ws.visibility
}

// SetVisibility sets the tab visibility.
func (ws *Worksheet) SetVisibility(v Visibility) {
	ws.visibility = v
}

// Get returns the cell at c. Unset coordinates return an empty cell.
func (ws *Worksheet) Get(c coord.Cell) Cell {
	return ws.grid.Get(c)
}

// Cell returns the cell addressed by an A1-style label.
func (ws *Worksheet) Cell(label string) (Cell, error) {
	c, err := coord.ParseLabel(label)
	if err != nil {
		return Cell{}, err
	}
	return ws.grid.Get(c), nil
}

// Set replaces the value at c, keeping its style and hyperlink. NaN and
// infinite numbers are rejected with a RangeError.
func (ws *Worksheet) Set(c coord.Cell, v Value) error {
	if err := checkCell(c); err != nil {
		return err
	}
	if err := checkValue(c, v); err != nil {
		return err
	}
	cell := ws.grid.Get(c)
	cell.Value = v
	ws.grid.Put(c, cell)
	return nil
}

// SetValue converts v with ValueOf and stores it at label.
func (ws *Worksheet) SetValue(label string, v any) error {
	c, err := coord.ParseLabel(label)
	if err != nil {
		return err
	}
	return ws.Set(c, ValueOf(v))
}

// SetFormula stores a formula and its last computed result at c.
func (ws *Worksheet) SetFormula(c coord.Cell, expr string, cached Value) error {
	return ws.Set(c, Formula(expr, cached))
}

// SetHyperlink attaches a hyperlink to the cell at c. When the cell is
// empty and display is given, display also becomes the cell's text.
func (ws *Worksheet) SetHyperlink(c coord.Cell, url, display string) error {
	if err := checkCell(c); err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("hyperlink at %s: empty url", c.Label())
	}
	cell := ws.grid.Get(c)
	cell.Hyperlink = &Hyperlink{URL: url, Display: display}
	if cell.Value.IsEmpty() && display != "" {
		cell.Value = Text(display)
	}
	ws.grid.Put(c, cell)
	return nil
}

// RemoveHyperlink detaches the hyperlink at c, leaving its value.
func (ws *Worksheet) RemoveHyperlink(c coord.Cell) {
	cell := ws.grid.Get(c)
	if cell.Hyperlink == nil {
		return
	}
	cell.Hyperlink = nil
	ws.grid.Put(c, cell)
}

// Clear removes the value, style and hyperlink at c.
func (ws *Worksheet) Clear(c coord.Cell) {
	ws.grid.Delete(c)
}

// SetStyle applies s to every cell in r. Coordinates covered by a merge
// region other than its anchor are skipped.
func (ws *Worksheet) SetStyle(r coord.Range, s Style) error {
	if err := checkRange(r); err != nil {
		return err
	}
	shared, err := ws.styles.Intern(s)
	if err != nil {
		return err
	}
	r.Cells(func(c coord.Cell) bool {
		if m, ok := ws.MergeAt(c); ok && m.Start != c {
			return true
		}
		cell := ws.grid.Get(c)
		cell.Style = shared
		ws.grid.Put(c, cell)
		return true
	})
	return nil
}

// StyleAt returns the style of the cell at c. Unstyled cells return the
// zero Style.
func (ws *Worksheet) StyleAt(c coord.Cell) Style {
	if s := ws.grid.Get(c).Style; s != nil {
		return *s
	}
	return Style{}
}

// AppendRow writes values into the row after the highest populated row,
// starting at column 0, and returns the row index written. A merge region
// reaching the last populated row pushes the append past its bottom edge.
// Coordinates covered by a merge region other than its anchor are skipped.
func (ws *Worksheet) AppendRow(values ...any) (int, error) {
	last := ws.grid.MaxRow()
	for _, m := range ws.merges {
		if m.Start.Row <= last {
			last = max(last, m.End.Row)
		}
	}
	row := last + 1
	if row >= coord.MaxRows {
		return 0, &RangeError{Range: fmt.Sprintf("row %d", row+1), Reason: "append past the last addressable row"}
	}
	if len(values) > coord.MaxColumns {
		return 0, &RangeError{Range: fmt.Sprintf("row %d", row+1), Reason: fmt.Sprintf("%d values exceed %d columns", len(values), coord.MaxColumns)}
	}
	if err := ws.writeRow(coord.Cell{Row: row}, values); err != nil {
		return 0, err
	}
	return row, nil
}

// writeRow converts every value before storing any, so a rejected value
// leaves the row untouched.
func (ws *Worksheet) writeRow(at coord.Cell, values []any) error {
	converted := make([]Value, len(values))
	for i, v := range values {
		converted[i] = ValueOf(v)
		if err := checkValue(at.Offset(0, i), converted[i]); err != nil {
			return err
		}
	}
	for i, v := range converted {
		c := at.Offset(0, i)
		if ws.isPlaceholder(c) {
			continue
		}
		cell := ws.grid.Get(c)
		cell.Value = v
		ws.grid.Put(c, cell)
	}
	return nil
}

// Rows yields every row from 0 through MaxRow with cells for columns 0
// through MaxColumn. Gaps are yielded as empty cells.
func (ws *Worksheet) Rows() iter.Seq2[int, []Cell] {
	return ws.grid.Rows()
}

// Cells yields every stored cell in unspecified order.
func (ws *Worksheet) Cells() iter.Seq2[coord.Cell, Cell] {
	return ws.grid.All()
}

// MaxRow returns the highest populated row index, or -1 for an empty sheet.
func (ws *Worksheet) MaxRow() int {
	return ws.grid.MaxRow()
}

// MaxColumn returns the highest populated column index, or -1.
func (ws *Worksheet) MaxColumn() int {
	return ws.grid.MaxCol()
}

// Dimension returns A1 through the highest populated row and column.
func (ws *Worksheet) Dimension() (coord.Range, bool) {
	if ws.grid.MaxRow() < 0 {
		return coord.Range{}, false
	}
	return coord.Range{End: coord.Cell{Row: ws.grid.MaxRow(), Col: ws.grid.MaxCol()}}, true
}

// ColumnWidth returns the custom width of a zero-based column.
func (ws *Worksheet) ColumnWidth(col int) (float64, bool) {
	w, ok := ws.colWidths[col]
	return w, ok
}

// SetColumnWidth sets the width of a zero-based column in character units.
func (ws *Worksheet) SetColumnWidth(col int, width float64) error {
	if col < 0 || col >= coord.MaxColumns {
		return &RangeError{Range: fmt.Sprintf("column %d", col), Reason: "outside the addressable area"}
	}
	if width <= 0 || width > 255 {
		return &RangeError{Range: coord.ColumnLabel(col), Reason: fmt.Sprintf("width %v must be in (0, 255]", width)}
	}
	ws.colWidths[col] = width
	return nil
}

// ColumnWidths returns a copy of all custom column widths.
func (ws *Worksheet) ColumnWidths() map[int]float64 {
	return maps.Clone(ws.colWidths)
}

// RowHeight returns the custom height of a zero-based row.
func (ws *Worksheet) RowHeight(row int) (float64, bool) {
	h, ok := ws.rowHeights[row]
	return h, ok
}

// SetRowHeight sets the height of a zero-based row in points.
func (ws *Worksheet) SetRowHeight(row int, height float64) error {
	if row < 0 || row >= coord.MaxRows {
		return &RangeError{Range: fmt.Sprintf("row %d", row+1), Reason: "outside the addressable area"}
	}
	if height <= 0 || height > 409 {
		return &RangeError{Range: fmt.Sprintf("row %d", row+1), Reason: fmt.Sprintf("height %v must be in (0, 409]", height)}
	}
	ws.rowHeights[row] = height
	return nil
}

// RowHeights returns a copy of all custom row heights.
func (ws *Worksheet) RowHeights() map[int]float64 {
	return maps.Clone(ws.rowHeights)
}

// FreezePanes returns the top-left cell of the scrollable pane.
func (ws *Worksheet) FreezePanes() (coord.Cell, bool) {
	if ws.freeze == nil {
		return coord.Cell{}, false
	}
	return *ws.freeze, true
}

// SetFreezePanes freezes the rows above and the columns left of c.
// Freezing at A1 removes the freeze.
func (ws *Worksheet) SetFreezePanes(c coord.Cell) error {
	if err := checkCell(c); err != nil {
		return err
	}
	if c == (coord.Cell{}) {
		ws.freeze = nil
		return nil
	}
	ws.freeze = &c
	return nil
}

// PrintArea returns the sheet's print area.
func (ws *Worksheet) PrintArea() (coord.Range, bool) {
	if ws.printArea == nil {
		return coord.Range{}, false
	}
	return *ws.printArea, true
}

// SetPrintArea restricts printing to r.
func (ws *Worksheet) SetPrintArea(r coord.Range) error {
	if err := checkRange(r); err != nil {
		return err
	}
	ws.printArea = &r
	return nil
}

// ClearPrintArea removes the print area.
func (ws *Worksheet) ClearPrintArea() {
	ws.printArea = nil
}

func (ws *Worksheet) clone(book *Workbook, name string) *Worksheet {
	out := &Worksheet{
		name:       name,
		book:       book,
		styles:     book.styles,
		grid:       ws.grid.clone(),
		merges:     append([]coord.Range(nil), ws.merges...),
		colWidths:  maps.Clone(ws.colWidths),
		rowHeights: maps.Clone(ws.rowHeights),
		visibility: ws.visibility,
	}
	if ws.freeze != nil {
		c := *ws.freeze
		out.freeze = &c
	}
	if ws.printArea != nil {
		r := *ws.printArea
		out.printArea = &r
	}
	return out
}

func checkCell(c coord.Cell) error {
	if !c.Valid() {
		return &RangeError{Range: fmt.Sprintf("(%d, %d)", c.Row, c.Col), Reason: "outside the addressable area"}
	}
	return nil
}

func checkValue(c coord.Cell, v Value) error {
	n, ok := v.Cached().AsNumber()
	if ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return &RangeError{Range: c.Label(), Reason: fmt.Sprintf("number %v is not finite", n)}
	}
	return nil
}

func checkRange(r coord.Range) error {
	if !r.Valid() {
		return &RangeError{
			Range:  fmt.Sprintf("(%d, %d):(%d, %d)", r.Start.Row, r.Start.Col, r.End.Row, r.End.Col),
			Reason: "outside the addressable area or corners out of order",
		}
	}
	return nil
}
