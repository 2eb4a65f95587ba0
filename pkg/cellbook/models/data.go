package models

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// WorkbookData is a format-agnostic description of a workbook, exchanged
// with container codecs.
type WorkbookData struct {
	// BookName is the workbook file name (no path), when known.
	BookName string `json:"book_name,omitempty"`
	// Properties is the document metadata.
	Properties Properties `json:"properties"`
	// ActiveSheet is the zero-based index of the active sheet.
	ActiveSheet int `json:"active_sheet"`
	// Sheets lists the sheets in tab order.
	Sheets []SheetData `json:"sheets"`
}

// SheetData describes one sheet.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Visibility is "visible", "hidden" or "veryHidden".
	Visibility string `json:"visibility,omitempty"`
	// Cells lists the stored cells in row-major order.
	Cells []CellData `json:"cells,omitempty"`
	// Merges lists merge regions as "A1:C1" labels.
	Merges []string `json:"merges,omitempty"`
	// ColumnWidths maps zero-based column index to width.
	ColumnWidths map[int]float64 `json:"column_widths,omitempty"`
	// RowHeights maps zero-based row index to height.
	RowHeights map[int]float64 `json:"row_heights,omitempty"`
	// FreezePanes is the top-left cell of the scrollable pane.
	FreezePanes string `json:"freeze_panes,omitempty"`
	// PrintArea is the print range label.
	PrintArea string `json:"print_area,omitempty"`
}

// CellData describes one cell.
type CellData struct {
	// Ref is the A1-style label.
	Ref string `json:"ref"`
	// Kind is the value variant name (see Kind.String).
	Kind string `json:"kind"`
	// Value is nil, a string, a float64 or a bool. Formula cells carry their
	// cached result here.
	Value any `json:"value,omitempty"`
	// Formula is the formula expression without '='.
	Formula string `json:"formula,omitempty"`
	// Style is the cell style, nil for the default.
	Style *Style `json:"style,omitempty"`
	// Hyperlink is the attached link, if any.
	Hyperlink *Hyperlink `json:"hyperlink,omitempty"`
}

// Describe converts a workbook into its format-agnostic description.
func Describe(wb *Workbook) *WorkbookData {
	data := &WorkbookData{
		Properties:  wb.Properties(),
		ActiveSheet: wb.active,
		Sheets:      make([]SheetData, 0, len(wb.sheets)),
	}
	for _, ws := range wb.sheets {
		data.Sheets = append(data.Sheets, describeSheet(ws))
	}
	return data
}

func describeSheet(ws *Worksheet) SheetData {
	sd := SheetData{
		Name:         ws.name,
		ColumnWidths: ws.ColumnWidths(),
		RowHeights:   ws.RowHeights(),
	}
	if ws.visibility != Visible {
		sd.Visibility = ws.visibility.String()
	}
	if c, ok := ws.FreezePanes(); ok {
		sd.FreezePanes = c.Label()
	}
	if r, ok := ws.PrintArea(); ok {
		sd.PrintArea = r.Label()
	}
	for _, m := range ws.merges {
		sd.Merges = append(sd.Merges, m.Label())
	}

	refs := make([]coord.Cell, 0, ws.grid.Len())
	for c := range ws.grid.All() {
		refs = append(refs, c)
	}
	slices.SortFunc(refs, func(a, b coord.Cell) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
	})

	sd.Cells = make([]CellData, 0, len(refs))
	for _, c := range refs {
		cell := ws.grid.Get(c)
		cd := CellData{
			Ref:   c.Label(),
			Kind:  cell.Value.Kind().String(),
			Value: cell.Value.Interface(),
			Style: cell.Style,
		}
		if expr, ok := cell.Value.Formula(); ok {
			cd.Formula = expr
		}
		if cell.Hyperlink != nil {
			h := *cell.Hyperlink
			cd.Hyperlink = &h
		}
		sd.Cells = append(sd.Cells, cd)
	}
	return sd
}

// FromData builds a workbook from a description. Styles are applied
// before merges so that anchor styling survives.
func FromData(data *WorkbookData) (*Workbook, error) {
	wb := NewWorkbook()
	props := data.Properties
	if props.Created.IsZero() {
		props.Created = wb.props.Created
	}
	if props.Modified.IsZero() {
		props.Modified = wb.props.Modified
	}
	wb.SetProperties(props)

	for i, sd := range data.Sheets {
		var ws *Worksheet
		if i == 0 {
			if err := wb.RenameSheet(DefaultSheetName, sd.Name); err != nil {
				return nil, err
			}
			ws = wb.sheets[0]
		} else {
			var err error
			if ws, err = wb.AddSheet(sd.Name); err != nil {
				return nil, err
			}
		}
		if err := loadSheet(ws, sd); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sd.Name, err)
		}
	}

	if data.ActiveSheet > 0 && data.ActiveSheet < len(wb.sheets) {
		wb.active = data.ActiveSheet
	}
	return wb, nil
}

func loadSheet(ws *Worksheet, sd SheetData) error {
	vis, err := ParseVisibility(sd.Visibility)
	if err != nil {
		return err
	}
	ws.visibility = vis

	for _, cd := range sd.Cells {
		c, err := coord.ParseLabel(cd.Ref)
		if err != nil {
			return err
		}
		v := ValueOf(cd.Value)
		if cd.Kind == KindFormula.String() || cd.Formula != "" {
			v = Formula(cd.Formula, v)
		}
		if err := ws.Set(c, v); err != nil {
			return err
		}
		if cd.Hyperlink != nil && cd.Hyperlink.URL != "" {
			if err := ws.SetHyperlink(c, cd.Hyperlink.URL, cd.Hyperlink.Display); err != nil {
				return err
			}
		}
		if cd.Style != nil {
			if err := ws.SetStyle(coord.Range{Start: c, End: c}, *cd.Style); err != nil {
				return err
			}
		}
	}

	for _, label := range sd.Merges {
		r, err := coord.ParseRange(label)
		if err != nil {
			return err
		}
		if err := ws.MergeRange(r); err != nil {
			return err
		}
	}
	for col, w := range sd.ColumnWidths {
		if err := ws.SetColumnWidth(col, w); err != nil {
			return err
		}
	}
	for row, h := range sd.RowHeights {
		if err := ws.SetRowHeight(row, h); err != nil {
			return err
		}
	}
	if sd.FreezePanes != "" {
		c, err := coord.ParseLabel(sd.FreezePanes)
		if err != nil {
			return err
		}
		if err := ws.SetFreezePanes(c); err != nil {
			return err
		}
	}
	if sd.PrintArea != "" {
		r, err := coord.ParseRange(sd.PrintArea)
		if err != nil {
			return err
		}
		if err := ws.SetPrintArea(r); err != nil {
			return err
		}
	}
	return nil
}
