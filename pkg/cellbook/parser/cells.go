package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// defaultFontSize is the body font size of a new workbook. Fonts at this
// size are read back with no explicit size.
const defaultFontSize = 11

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

var borderNames = map[int]string{
	1: "thin",
	2: "medium",
	3: "dashed",
	4: "dotted",
	5: "thick",
	6: "double",
}

// ExtractCells extracts the stored cells of a sheet in row-major order.
// Only cells present in the sheet XML are visited: those with a value or a
// formula, plus styled blanks lying between them on the same row. Cells
// covered by a merge region other than its anchor are skipped.
func ExtractCells(f *excelize.File, sheetName string, merges []coord.Range) ([]models.CellData, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CellData
	for rowIdx := 0; rows.Next(); rowIdx++ {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		for colIdx, raw := range cols {
			c := coord.Cell{Row: rowIdx, Col: colIdx}
			if covered(merges, c) {
				continue
			}
			cd, ok, err := extractCell(f, sheetName, c.Label(), raw)
			if err != nil {
				return nil, err
			}
			if ok {
				result = append(result, cd)
			}
		}
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

func extractCell(f *excelize.File, sheetName, ref, raw string) (models.CellData, bool, error) {
	cd := models.CellData{Ref: ref, Kind: models.KindEmpty.String()}

	formula, err := f.GetCellFormula(sheetName, ref)
	if err != nil {
		return cd, false, err
	}
	var value models.Value
	if raw != "" {
		if value, err = parseValue(f, sheetName, ref, raw); err != nil {
			return cd, false, err
		}
	}
	if formula != "" {
		value = models.Formula(formula, value)
	}
	if !value.IsEmpty() {
		cd.Kind = value.Kind().String()
		cd.Value = value.Interface()
		cd.Formula, _ = value.Formula()

		hasLink, target, err := f.GetCellHyperLink(sheetName, ref)
		if err != nil {
			return cd, false, err
		}
		if hasLink && target != "" {
			cd.Hyperlink = &models.Hyperlink{URL: linkURL(target)}
		}
	}

	styleID, err := f.GetCellStyle(sheetName, ref)
	if err != nil {
		return cd, false, err
	}
	if styleID > 0 {
		xs, err := f.GetStyle(styleID)
		if err != nil {
			return cd, false, err
		}
		if s := convertStyle(xs); !s.IsZero() {
			cd.Style = &s
		}
	}

	return cd, !value.IsEmpty() || cd.Style != nil, nil
}

// parseValue converts a raw cell string into a value using the cell's
// declared type. Untyped cells holding a number become numbers.
func parseValue(f *excelize.File, sheetName, ref, raw string) (models.Value, error) {
	typ, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return models.Value{}, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.Text(raw), nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return models.Number(n), nil
	}
	return models.Text(raw), nil
}

// linkURL turns an in-workbook location into a "#Sheet!A1" link and keeps
// external targets as they are.
func linkURL(target string) string {
	if strings.Contains(target, "://") || strings.HasPrefix(strings.ToLower(target), "mailto:") {
		return target
	}
	return "#" + target
}

func convertStyle(xs *excelize.Style) models.Style {
	var s models.Style
	if xs == nil {
		return s
	}
	if xs.Font != nil {
		s.Font.Bold = xs.Font.Bold
		if xs.Font.Size != defaultFontSize {
			s.Font.Size = xs.Font.Size
		}
		if hexColor.MatchString(xs.Font.Color) {
			s.Font.Color = xs.Font.Color
		}
	}
	if xs.Fill.Type == "pattern" && xs.Fill.Pattern == 1 && len(xs.Fill.Color) > 0 &&
		hexColor.MatchString(xs.Fill.Color[0]) {
		s.Fill.Color = xs.Fill.Color[0]
	}
	for _, b := range xs.Border {
		if name, ok := borderNames[b.Style]; ok {
			s.Border.Style = name
			if hexColor.MatchString(b.Color) {
				s.Border.Color = b.Color
			}
			break
		}
	}
	return s
}

func covered(merges []coord.Range, c coord.Cell) bool {
	for _, m := range merges {
		if m.Contains(c) {
			return m.Start != c
		}
	}
	return false
}
