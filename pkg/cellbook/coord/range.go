package coord

import (
	"strings"
)

// Range is a rectangular block of cells. Start is always the top-left
// corner and End the bottom-right one.
type Range struct {
	Start Cell `json:"start"`
	End   Cell `json:"end"`
}

// NewRange returns the range spanned by two opposite corners given in any
// order.
func NewRange(a, b Cell) Range {
	return Range{
		Start: Cell{Row: min(a.Row, b.Row), Col: min(a.Col, b.Col)},
		End:   Cell{Row: max(a.Row, b.Row), Col: max(a.Col, b.Col)},
	}
}

// ParseRange parses a range label such as "A1:C3" or "$C$3:$A$1". A single
// label yields a one-cell range.
func ParseRange(label string) (Range, error) {
	label = strings.TrimSpace(label)
	parts := strings.Split(label, ":")
	switch len(parts) {
	case 1:
		c, err := ParseLabel(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Range{Start: c, End: c}, nil
	case 2:
		a, err := ParseLabel(parts[0])
		if err != nil {
			return Range{}, err
		}
		b, err := ParseLabel(parts[1])
		if err != nil {
			return Range{}, err
		}
		return NewRange(a, b), nil
	default:
		return Range{}, &AddressError{Input: label, Reason: "expected a single ':' separator"}
	}
}

// MustParseRange is like ParseRange but panics on malformed input.
func MustParseRange(label string) Range {
	r, err := ParseRange(label)
	if err != nil {
		panic(err)
	}
	return r
}

// Label returns the canonical "A1:C3" form. One-cell ranges are rendered
// as "A1:A1" so that the result always parses back to the same range.
func (r Range) Label() string {
	return r.Start.Label() + ":" + r.End.Label()
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return r.Label()
}

// Valid reports whether both corners are addressable and ordered.
func (r Range) Valid() bool {
	return r.Start.Valid() && r.End.Valid() &&
		r.Start.Row <= r.End.Row && r.Start.Col <= r.End.Col
}

// Rows returns the number of rows covered.
func (r Range) Rows() int {
	return r.End.Row - r.Start.Row + 1
}

// Cols returns the number of columns covered.
func (r Range) Cols() int {
	return r.End.Col - r.Start.Col + 1
}

// Size returns the number of cells covered.
func (r Range) Size() int {
	return r.Rows() * r.Cols()
}

// Contains reports whether c lies inside r.
func (r Range) Contains(c Cell) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Col >= r.Start.Col && c.Col <= r.End.Col
}

// Overlaps reports whether r and o share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Row <= o.End.Row && o.Start.Row <= r.End.Row &&
		r.Start.Col <= o.End.Col && o.Start.Col <= r.End.Col
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{
		Start: Cell{Row: min(r.Start.Row, o.Start.Row), Col: min(r.Start.Col, o.Start.Col)},
		End:   Cell{Row: max(r.End.Row, o.End.Row), Col: max(r.End.Col, o.End.Col)},
	}
}

// Cells calls fn for every cell in row-major order until fn returns false.
func (r Range) Cells(fn func(Cell) bool) {
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			if !fn(Cell{Row: row, Col: col}) {
				return
			}
		}
	}
}
