package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// PrintAreaName is the defined name xlsx uses for a sheet's print area.
const PrintAreaName = "_xlnm.Print_Area"

var borderStyles = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
}

// BorderStyleID returns the excelize border style index for a style name.
func BorderStyleID(name string) (int, bool) {
	id, ok := borderStyles[name]
	return id, ok
}

// EncodeXLSX writes data as an xlsx container to w.
func EncodeXLSX(w io.Writer, data *models.WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(data.Sheets) == 0 {
		return f.Write(w)
	}

	for i, sd := range data.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sd.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := f.NewSheet(sd.Name); err != nil {
			return err
		}
	}

	enc := &encoder{f: f, styles: make(map[models.Style]int)}
	for _, sd := range data.Sheets {
		if err := enc.sheet(sd); err != nil {
			return fmt.Errorf("sheet %q: %w", sd.Name, err)
		}
	}

	if data.ActiveSheet > 0 && data.ActiveSheet < len(data.Sheets) {
		f.SetActiveSheet(data.ActiveSheet)
	}
	for i, sd := range data.Sheets {
		if i == data.ActiveSheet || sd.Visibility == "" || sd.Visibility == models.Visible.String() {
			continue
		}
		if err := f.SetSheetVisible(sd.Name, false, sd.Visibility == models.VeryHidden.String()); err != nil {
			return err
		}
	}

	if err := enc.properties(data.Properties); err != nil {
		return err
	}
	return f.Write(w)
}

type encoder struct {
	f      *excelize.File
	styles map[models.Style]int
}

func (e *encoder) sheet(sd models.SheetData) error {
	for _, cd := range sd.Cells {
		if err := e.cell(sd.Name, cd); err != nil {
			return fmt.Errorf("cell %s: %w", cd.Ref, err)
		}
	}

	for _, label := range sd.Merges {
		r, err := coord.ParseRange(label)
		if err != nil {
			return err
		}
		if err := e.f.MergeCell(sd.Name, r.Start.Label(), r.End.Label()); err != nil {
			return err
		}
	}

	for col, width := range sd.ColumnWidths {
		name := coord.ColumnLabel(col)
		if err := e.f.SetColWidth(sd.Name, name, name, width); err != nil {
			return err
		}
	}
	for row, height := range sd.RowHeights {
		if err := e.f.SetRowHeight(sd.Name, row+1, height); err != nil {
			return err
		}
	}

	if sd.FreezePanes != "" {
		if err := e.f.SetPanes(sd.Name, freezePanes(sd.FreezePanes)); err != nil {
			return err
		}
	}

	if sd.PrintArea != "" {
		r, err := coord.ParseRange(sd.PrintArea)
		if err != nil {
			return err
		}
		err = e.f.SetDefinedName(&excelize.DefinedName{
			Name:     PrintAreaName,
			RefersTo: fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sd.Name, "'", "''"), absoluteRange(r)),
			Scope:    sd.Name,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) cell(sheet string, cd models.CellData) error {
	switch cd.Kind {
	case models.KindFormula.String():
		// The cached result goes in first; setting the formula keeps it.
		if err := e.value(sheet, cd.Ref, cd.Value); err != nil {
			return err
		}
		if err := e.f.SetCellFormula(sheet, cd.Ref, strings.TrimPrefix(cd.Formula, "=")); err != nil {
			return err
		}
	default:
		if err := e.value(sheet, cd.Ref, cd.Value); err != nil {
			return err
		}
	}

	if cd.Hyperlink != nil {
		if cd.Value == nil {
			// Spreadsheet applications show a link's text as the cell value.
			text := cd.Hyperlink.Display
			if text == "" {
				text = cd.Hyperlink.URL
			}
			if err := e.f.SetCellStr(sheet, cd.Ref, text); err != nil {
				return err
			}
		}
		if err := e.hyperlink(sheet, cd.Ref, *cd.Hyperlink); err != nil {
			return err
		}
	}

	if cd.Style != nil {
		id, err := e.style(*cd.Style)
		if err != nil {
			return err
		}
		if err := e.f.SetCellStyle(sheet, cd.Ref, cd.Ref, id); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) value(sheet, ref string, v any) error {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return e.f.SetCellStr(sheet, ref, v)
	case float64:
		return e.f.SetCellFloat(sheet, ref, v, -1, 64)
	case bool:
		return e.f.SetCellBool(sheet, ref, v)
	default:
		return e.f.SetCellValue(sheet, ref, v)
	}
}

func (e *encoder) hyperlink(sheet, ref string, link models.Hyperlink) error {
	var opts []excelize.HyperlinkOpts
	if link.Display != "" {
		display := link.Display
		opts = append(opts, excelize.HyperlinkOpts{Display: &display})
	}
	if loc, ok := strings.CutPrefix(link.URL, "#"); ok {
		return e.f.SetCellHyperLink(sheet, ref, loc, "Location", opts...)
	}
	return e.f.SetCellHyperLink(sheet, ref, link.URL, "External", opts...)
}

func (e *encoder) style(s models.Style) (int, error) {
	if id, ok := e.styles[s]; ok {
		return id, nil
	}
	xs := &excelize.Style{}
	if s.Font != (models.Font{}) {
		xs.Font = &excelize.Font{
			Bold:  s.Font.Bold,
			Size:  s.Font.Size,
			Color: strings.TrimPrefix(s.Font.Color, "#"),
		}
	}
	if s.Fill.Color != "" {
		xs.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(s.Fill.Color, "#")},
		}
	}
	if id, ok := BorderStyleID(s.Border.Style); ok {
		color := strings.TrimPrefix(s.Border.Color, "#")
		for _, side := range []string{"left", "top", "right", "bottom"} {
			xs.Border = append(xs.Border, excelize.Border{Type: side, Color: color, Style: id})
		}
	}
	id, err := e.f.NewStyle(xs)
	if err != nil {
		return 0, err
	}
	e.styles[s] = id
	return id, nil
}

func (e *encoder) properties(p models.Properties) error {
	dp := &excelize.DocProperties{
		Title:       p.Title,
		Creator:     p.Author,
		Subject:     p.Subject,
		Description: p.Description,
		Keywords:    p.Keywords,
		Category:    p.Category,
	}
	if !p.Created.IsZero() {
		dp.Created = p.Created.UTC().Format(time.RFC3339)
	}
	if !p.Modified.IsZero() {
		dp.Modified = p.Modified.UTC().Format(time.RFC3339)
	}
	if err := e.f.SetDocProps(dp); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(p.Custom)) {
		if err := e.f.SetCustomProps(excelize.CustomProperty{Name: name, Value: p.Custom[name]}); err != nil {
			return err
		}
	}
	return nil
}

// freezePanes builds the pane settings that freeze everything above and
// left of the given top-left cell.
func freezePanes(label string) *excelize.Panes {
	c, err := coord.ParseLabel(label)
	if err != nil {
		return &excelize.Panes{}
	}
	pane := "bottomRight"
	switch {
	case c.Col == 0:
		pane = "bottomLeft"
	case c.Row == 0:
		pane = "topRight"
	}
	return &excelize.Panes{
		Freeze:      true,
		XSplit:      c.Col,
		YSplit:      c.Row,
		TopLeftCell: c.Label(),
		ActivePane:  pane,
	}
}

func absoluteRange(r coord.Range) string {
	abs := func(c coord.Cell) string {
		return fmt.Sprintf("$%s$%d", coord.ColumnLabel(c.Col), c.Row+1)
	}
	return abs(r.Start) + ":" + abs(r.End)
}
