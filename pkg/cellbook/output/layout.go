package output

import (
	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// TableOptions controls how InferTable renders cells.
type TableOptions struct {
	// ValueMode selects the side of formula cells that is rendered.
	ValueMode models.ValueMode
	// Render formats one non-placeholder cell. Nil renders plain text.
	Render func(models.Cell) string
}

// Table is the logical table inferred from a sheet.
type Table struct {
	// Bounds is the populated bounding box the table was cut from.
	Bounds coord.Range
	// Header holds one label per column.
	Header []string
	// Body holds the data rows, each as wide as Header.
	Body [][]string
	// Promoted reports whether Header came from the first sheet row. When
	// false the labels were synthesized from column letters.
	Promoted bool
}

// Width returns the number of columns.
func (t Table) Width() int { return len(t.Header) }

// InferTable turns the sparse grid of ws into a header and body. It returns
// false when the sheet holds nothing to render.
//
// Only empty rows and columns at the edges are dropped; gaps between
// populated rows or columns are kept. Cells covered by a merge region render
// empty so that the anchor's content appears once.
func InferTable(ws *models.Worksheet, opts TableOptions) (Table, bool) {
	mode := opts.ValueMode
	if mode == "" {
		mode = models.ValueModeValue
	}
	render := opts.Render
	if render == nil {
		render = func(c models.Cell) string { return c.Text(mode) }
	}

	bounds, ok := boundingBox(ws)
	if !ok {
		return Table{}, false
	}

	grid := make([][]models.Cell, 0, bounds.Rows())
	covered := make([][]bool, 0, bounds.Rows())
	for row := bounds.Start.Row; row <= bounds.End.Row; row++ {
		cells := make([]models.Cell, bounds.Cols())
		skip := make([]bool, bounds.Cols())
		for i := range cells {
			c := coord.Cell{Row: row, Col: bounds.Start.Col + i}
			if m, merged := ws.MergeAt(c); merged && m.Start != c {
				skip[i] = true
				continue
			}
			cells[i] = ws.Get(c)
		}
		grid = append(grid, cells)
		covered = append(covered, skip)
	}

	renderRow := func(r int) []string {
		out := make([]string, len(grid[r]))
		for i, cell := range grid[r] {
			if covered[r][i] || cell.IsBlank() {
				continue
			}
			out[i] = render(cell)
		}
		return out
	}

	t := Table{Bounds: bounds}
	first := grid[0]
	// A lone text row is promoted too.
	if isLabelRow(first, covered[0], mode) {
		t.Header = renderRow(0)
		t.Promoted = true
		for r := 1; r < len(grid); r++ {
			t.Body = append(t.Body, renderRow(r))
		}
		return t, true
	}

	// The first row holds data, so the labels come from the column letters.
	// Its first cell is kept as the leading label and the row itself stays
	// in the body.
	t.Header = make([]string, bounds.Cols())
	for i := range t.Header {
		switch {
		case i == 0:
			if !covered[0][0] && !first[0].IsBlank() {
				t.Header[0] = render(first[0])
			}
		case covered[0][i]:
		default:
			t.Header[i] = coord.ColumnLabel(bounds.Start.Col + i)
		}
	}
	for r := range grid {
		t.Body = append(t.Body, renderRow(r))
	}
	return t, true
}

// isLabelRow reports whether every populated cell of row is text under mode
// and at least one is populated.
func isLabelRow(row []models.Cell, covered []bool, mode models.ValueMode) bool {
	populated := false
	for i, cell := range row {
		if covered[i] || cell.IsBlank() {
			continue
		}
		populated = true
		if cell.Hyperlink != nil && cell.Value.IsEmpty() {
			continue
		}
		if cell.Value.Resolve(mode).Kind() != models.KindText {
			return false
		}
	}
	return populated
}

// boundingBox returns the smallest range holding every non-blank cell and
// every merge region of ws.
func boundingBox(ws *models.Worksheet) (coord.Range, bool) {
	var box coord.Range
	found := false
	add := func(r coord.Range) {
		if !found {
			box, found = r, true
			return
		}
		box = box.Union(r)
	}
	for c, cell := range ws.Cells() {
		if !cell.IsBlank() {
			add(coord.Range{Start: c, End: c})
		}
	}
	for _, m := range ws.Merges() {
		add(m)
	}
	return box, found
}
