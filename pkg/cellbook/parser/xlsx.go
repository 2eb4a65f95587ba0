package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// Sheet metrics excelize reports for rows and columns without a custom
// size.
const (
	defaultColWidth  = 9.140625
	defaultRowHeight = 15
)

// DecodeXLSX reads an xlsx container into a workbook description.
func DecodeXLSX(r io.Reader) (*models.WorkbookData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Extract(f)
}

// Extract describes every sheet of an open workbook.
func Extract(f *excelize.File) (*models.WorkbookData, error) {
	props, err := ExtractProperties(f)
	if err != nil {
		return nil, err
	}
	printAreas := ExtractPrintAreas(f)

	data := &models.WorkbookData{
		Properties:  props,
		ActiveSheet: f.GetActiveSheetIndex(),
	}
	for _, sheetName := range f.GetSheetList() {
		sd, err := ExtractSheet(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		if areas := printAreas[sheetName]; len(areas) > 0 {
			sd.PrintArea = areas[0].Label()
		}
		data.Sheets = append(data.Sheets, sd)
	}
	return data, nil
}

// ExtractSheet describes one sheet: cells, merges, layout and visibility.
func ExtractSheet(f *excelize.File, sheetName string) (models.SheetData, error) {
	sd := models.SheetData{Name: sheetName}

	merges, err := ExtractMerges(f, sheetName)
	if err != nil {
		return sd, err
	}
	for _, m := range merges {
		sd.Merges = append(sd.Merges, m.Label())
	}

	if sd.Cells, err = ExtractCells(f, sheetName, merges); err != nil {
		return sd, err
	}

	visible, err := f.GetSheetVisible(sheetName)
	if err != nil {
		return sd, err
	}
	if !visible {
		sd.Visibility = models.Hidden.String()
	}

	if err := extractLayout(f, &sd); err != nil {
		return sd, err
	}
	return sd, nil
}

// ExtractMerges returns the merge regions of a sheet.
func ExtractMerges(f *excelize.File, sheetName string) ([]coord.Range, error) {
	cells, err := f.GetMergeCells(sheetName, true)
	if err != nil {
		return nil, err
	}
	merges := make([]coord.Range, 0, len(cells))
	for _, mc := range cells {
		r, err := coord.ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		merges = append(merges, r)
	}
	return merges, nil
}

// ExtractProperties reads the document and custom properties.
func ExtractProperties(f *excelize.File) (models.Properties, error) {
	var p models.Properties
	dp, err := f.GetDocProps()
	if err != nil {
		return p, err
	}
	p.Title = dp.Title
	p.Author = dp.Creator
	p.Subject = dp.Subject
	p.Description = dp.Description
	p.Keywords = dp.Keywords
	p.Category = dp.Category
	p.Created = parseTime(dp.Created)
	p.Modified = parseTime(dp.Modified)

	custom, err := f.GetCustomProps()
	if err != nil {
		return p, err
	}
	for _, cp := range custom {
		if p.Custom == nil {
			p.Custom = make(map[string]string, len(custom))
		}
		p.Custom[cp.Name] = fmt.Sprint(cp.Value)
	}
	return p, nil
}

func extractLayout(f *excelize.File, sd *models.SheetData) error {
	maxRow, maxCol := -1, -1
	for _, cd := range sd.Cells {
		c, err := coord.ParseLabel(cd.Ref)
		if err != nil {
			return err
		}
		maxRow, maxCol = max(maxRow, c.Row), max(maxCol, c.Col)
	}

	for col := 0; col <= maxCol; col++ {
		w, err := f.GetColWidth(sd.Name, coord.ColumnLabel(col))
		if err != nil {
			return err
		}
		if w != defaultColWidth {
			if sd.ColumnWidths == nil {
				sd.ColumnWidths = make(map[int]float64)
			}
			sd.ColumnWidths[col] = w
		}
	}
	for row := 0; row <= maxRow; row++ {
		h, err := f.GetRowHeight(sd.Name, row+1)
		if err != nil {
			return err
		}
		if h != defaultRowHeight {
			if sd.RowHeights == nil {
				sd.RowHeights = make(map[int]float64)
			}
			sd.RowHeights[row] = h
		}
	}

	panes, err := f.GetPanes(sd.Name)
	if err != nil {
		return err
	}
	if panes.Freeze && (panes.XSplit > 0 || panes.YSplit > 0) {
		sd.FreezePanes = coord.Cell{Row: panes.YSplit, Col: panes.XSplit}.Label()
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
