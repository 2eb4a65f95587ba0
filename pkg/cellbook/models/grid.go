package models

import (
	"iter"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// Grid is a sparse cell store. Unset coordinates read as empty cells and
// are never stored. The populated extent is tracked over cells that carry a
// value or a hyperlink, so styled blank cells do not widen it.
//
// Reads never mutate the grid, so any number of goroutines may read a Grid
// that is not being written.
type Grid struct {
	cells  map[coord.Cell]Cell
	maxRow int
	maxCol int
}

// NewGrid creates an empty Grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[coord.Cell]Cell), maxRow: -1, maxCol: -1}
}

// Get returns the cell at c, or an empty cell if unset.
func (g *Grid) Get(c coord.Cell) Cell {
	return g.cells[c]
}

// Put stores cell at c. A blank, unstyled cell clears the slot.
func (g *Grid) Put(c coord.Cell, cell Cell) {
	if cell.IsBlank() && cell.Style == nil {
		g.Delete(c)
		return
	}
	prev, existed := g.cells[c]
	g.cells[c] = cell

	if cell.IsBlank() {
		if existed && !prev.IsBlank() && g.onEdge(c) {
			g.recompute()
		}
		return
	}
	g.maxRow = max(g.maxRow, c.Row)
	g.maxCol = max(g.maxCol, c.Col)
}

// Delete removes the cell at c.
func (g *Grid) Delete(c coord.Cell) {
	prev, ok := g.cells[c]
	if !ok {
		return
	}
	delete(g.cells, c)
	if !prev.IsBlank() && g.onEdge(c) {
		g.recompute()
	}
}

func (g *Grid) onEdge(c coord.Cell) bool {
	return c.Row == g.maxRow || c.Col == g.maxCol
}

// Len returns the number of stored cells, styled blanks included.
func (g *Grid) Len() int {
	return len(g.cells)
}

// MaxRow returns the highest row holding a non-blank cell, or -1.
func (g *Grid) MaxRow() int {
	return g.maxRow
}

// MaxCol returns the highest column holding a non-blank cell, or -1.
func (g *Grid) MaxCol() int {
	return g.maxCol
}

func (g *Grid) recompute() {
	g.maxRow, g.maxCol = -1, -1
	for c, cell := range g.cells {
		if cell.IsBlank() {
			continue
		}
		g.maxRow = max(g.maxRow, c.Row)
		g.maxCol = max(g.maxCol, c.Col)
	}
}

// All yields every stored cell in unspecified order.
func (g *Grid) All() iter.Seq2[coord.Cell, Cell] {
	return func(yield func(coord.Cell, Cell) bool) {
		for c, cell := range g.cells {
			if !yield(c, cell) {
				return
			}
		}
	}
}

// Rows yields (row, cells) for every row from 0 through MaxRow. Each slice
// spans columns 0 through MaxCol and gaps are filled with empty cells. The
// sequence is lazy and may be iterated more than once.
func (g *Grid) Rows() iter.Seq2[int, []Cell] {
	return func(yield func(int, []Cell) bool) {
		maxRow, maxCol := g.MaxRow(), g.MaxCol()
		for r := 0; r <= maxRow; r++ {
			row := make([]Cell, maxCol+1)
			for col := range row {
				row[col] = g.cells[coord.Cell{Row: r, Col: col}]
			}
			if !yield(r, row) {
				return
			}
		}
	}
}

func (g *Grid) clone() *Grid {
	out := &Grid{
		cells:  make(map[coord.Cell]Cell, len(g.cells)),
		maxRow: g.maxRow,
		maxCol: g.maxCol,
	}
	for c, cell := range g.cells {
		out.cells[c] = cell.clone()
	}
	return out
}
