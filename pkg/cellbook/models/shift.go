package models

import (
	"fmt"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// axis selects the coordinate moved by a row or column shift.
type axis int

const (
	rowAxis axis = iota
	colAxis
)

func (a axis) of(c coord.Cell) int {
	if a == rowAxis {
		return c.Row
	}
	return c.Col
}

func (a axis) with(c coord.Cell, i int) coord.Cell {
	if a == rowAxis {
		c.Row = i
	} else {
		c.Col = i
	}
	return c
}

func (a axis) limit() int {
	if a == rowAxis {
		return coord.MaxRows
	}
	return coord.MaxColumns
}

func (a axis) name(i int) string {
	if a == rowAxis {
		return fmt.Sprintf("row %d", i+1)
	}
	return "column " + coord.ColumnLabel(i)
}

func (a axis) span(at, n int) string {
	switch {
	case n == 1:
		return a.name(at)
	case a == rowAxis:
		return fmt.Sprintf("rows %d-%d", at+1, at+n)
	default:
		return fmt.Sprintf("columns %s-%s", coord.ColumnLabel(at), coord.ColumnLabel(at+n-1))
	}
}

// InsertRows inserts n empty rows before the zero-based row at. Cells,
// merge regions, row heights, the freeze pane and the print area at or
// below at move down by n. It fails with a RangeError, leaving the sheet
// unchanged, when at falls strictly inside a merge region or when content
// would be pushed past the last addressable row.
func (ws *Worksheet) InsertRows(at, n int) error {
	return ws.insert(rowAxis, at, n)
}

// InsertCols inserts n empty columns before the zero-based column at. It
// behaves like InsertRows along the other axis.
func (ws *Worksheet) InsertCols(at, n int) error {
	return ws.insert(colAxis, at, n)
}

// DeleteRows removes n rows starting at the zero-based row at and moves
// everything below up. Merge regions lying entirely inside the deleted rows
// are removed with them. A merge region only partly inside them fails with
// a RangeError and the sheet is left unchanged.
func (ws *Worksheet) DeleteRows(at, n int) error {
	return ws.delete(rowAxis, at, n)
}

// DeleteCols removes n columns starting at the zero-based column at. It
// behaves like DeleteRows along the other axis.
func (ws *Worksheet) DeleteCols(at, n int) error {
	return ws.delete(colAxis, at, n)
}

func (ws *Worksheet) checkShift(a axis, at, n int) error {
	if at < 0 || at >= a.limit() {
		return &RangeError{Range: a.name(max(at, 0)), Reason: "outside the addressable area"}
	}
	if n < 1 {
		return &RangeError{Range: a.name(at), Reason: fmt.Sprintf("count %d must be positive", n)}
	}
	return nil
}

func (ws *Worksheet) insert(a axis, at, n int) error {
	if err := ws.checkShift(a, at, n); err != nil {
		return err
	}
	for _, m := range ws.merges {
		if a.of(m.Start) < at && at <= a.of(m.End) {
			return &RangeError{Range: m.Label(), Reason: "insert at " + a.name(at) + " would split the merged region"}
		}
		if a.of(m.End) >= at && a.of(m.End)+n >= a.limit() {
			return &RangeError{Range: m.Label(), Reason: "would be pushed past the sheet edge"}
		}
	}
	for c := range ws.grid.All() {
		if a.of(c) >= at && a.of(c)+n >= a.limit() {
			return &RangeError{Range: c.Label(), Reason: "would be pushed past the sheet edge"}
		}
	}

	ws.remap(a, func(i int) (int, bool) {
		if i < at {
			return i, true
		}
		return i + n, i+n < a.limit()
	})
	return nil
}

func (ws *Worksheet) delete(a axis, at, n int) error {
	if err := ws.checkShift(a, at, n); err != nil {
		return err
	}
	end := min(at+n, a.limit())
	var kept []coord.Range
	for _, m := range ws.merges {
		lo, hi := a.of(m.Start), a.of(m.End)
		switch {
		case hi < at || lo >= end:
			kept = append(kept, m)
		case lo >= at && hi < end:
		default:
			return &RangeError{Range: m.Label(), Reason: "deleting " + a.span(at, end-at) + " would split the merged region"}
		}
	}
	ws.merges = kept

	ws.remap(a, func(i int) (int, bool) {
		switch {
		case i < at:
			return i, true
		case i < end:
			return 0, false
		default:
			return i - (end - at), true
		}
	})
	return nil
}

// remap moves every piece of positional state along a. move returns the new
// index of i, or false when i is dropped.
func (ws *Worksheet) remap(a axis, move func(int) (int, bool)) {
	cells := make(map[coord.Cell]Cell, ws.grid.Len())
	for c, cell := range ws.grid.All() {
		if i, ok := move(a.of(c)); ok {
			cells[a.with(c, i)] = cell
		}
	}
	ws.grid.cells = cells
	ws.grid.recompute()

	for k, m := range ws.merges {
		lo, _ := move(a.of(m.Start))
		hi, _ := move(a.of(m.End))
		ws.merges[k] = coord.Range{Start: a.with(m.Start, lo), End: a.with(m.End, hi)}
	}

	sizes := ws.rowHeights
	if a == colAxis {
		sizes = ws.colWidths
	}
	moved := make(map[int]float64, len(sizes))
	for i, v := range sizes {
		if j, ok := move(i); ok {
			moved[j] = v
		}
	}
	if a == rowAxis {
		ws.rowHeights = moved
	} else {
		ws.colWidths = moved
	}

	if ws.freeze != nil {
		c := *ws.freeze
		if i, ok := move(a.of(c)); ok {
			c = a.with(c, i)
		} else {
			// The first scrollable line was deleted; the next one takes its place.
			c = a.with(c, nextKept(a.of(c), move))
		}
		ws.freeze = nil
		if c != (coord.Cell{}) && c.Valid() {
			ws.freeze = &c
		}
	}

	if ws.printArea != nil {
		r := *ws.printArea
		lo, hi := a.of(r.Start), a.of(r.End)
		newLo, newHi := nextKept(lo, move), prevKept(hi, move)
		ws.printArea = nil
		if newLo <= newHi && newLo < a.limit() {
			r = coord.Range{Start: a.with(r.Start, newLo), End: a.with(r.End, min(newHi, a.limit()-1))}
			ws.printArea = &r
		}
	}
}

// nextKept returns where the first surviving index at or after i lands.
func nextKept(i int, move func(int) (int, bool)) int {
	for j := i; ; j++ {
		if k, ok := move(j); ok {
			return k
		}
		if j > coord.MaxRows {
			return coord.MaxRows
		}
	}
}

// prevKept returns where the last surviving index at or before i lands, or
// -1 when none survives.
func prevKept(i int, move func(int) (int, bool)) int {
	for j := i; j >= 0; j-- {
		if k, ok := move(j); ok {
			return k
		}
	}
	return -1
}
