package models

import (
	"slices"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// MergeRange merges r into one region anchored at its top-left cell. The
// values and hyperlinks of the other covered cells are cleared; their
// styles are kept. Merging fails with a RangeError when r covers a single
// cell or overlaps an existing region, leaving the sheet unchanged.
func (ws *Worksheet) MergeRange(r coord.Range) error {
	if err := checkRange(r); err != nil {
		return err
	}
	if r.Size() < 2 {
		return &RangeError{Range: r.Label(), Reason: "a merge region must span more than one cell"}
	}
	for _, m := range ws.merges {
		if m.Overlaps(r) {
			return &RangeError{Range: r.Label(), Reason: "overlaps merged region " + m.Label()}
		}
	}

	r.Cells(func(c coord.Cell) bool {
		if c == r.Start {
			return true
		}
		cell := ws.grid.Get(c)
		if cell.IsBlank() {
			return true
		}
		cell.Value = Empty()
		cell.Hyperlink = nil
		ws.grid.Put(c, cell)
		return true
	})
	ws.merges = append(ws.merges, r)
	return nil
}

// UnmergeRange removes the merge region exactly matching r.
func (ws *Worksheet) UnmergeRange(r coord.Range) error {
	i := slices.Index(ws.merges, r)
	if i < 0 {
		return &RangeError{Range: r.Label(), Reason: "no merged region with these bounds"}
	}
	ws.merges = slices.Delete(ws.merges, i, i+1)
	return nil
}

// Merges returns the merge regions in creation order.
func (ws *Worksheet) Merges() []coord.Range {
	return slices.Clone(ws.merges)
}

// MergeAt returns the merge region covering c.
func (ws *Worksheet) MergeAt(c coord.Cell) (coord.Range, bool) {
	for _, m := range ws.merges {
		if m.Contains(c) {
			return m, true
		}
	}
	return coord.Range{}, false
}

// isPlaceholder reports whether c is covered by a merge region without
// being its anchor.
func (ws *Worksheet) isPlaceholder(c coord.Cell) bool {
	m, ok := ws.MergeAt(c)
	return ok && m.Start != c
}
