package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/output"
)

// ReadJSON loads a workbook from the structured-data format written by
// output.ToJSON. Objects with a "formula" become formula cells and objects
// with a "url" become hyperlinked cells. Strings are always text.
func ReadJSON(r io.Reader) (*models.Workbook, error) {
	var doc output.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	wb := models.NewWorkbook()
	if doc.Metadata != nil {
		wb.SetProperties(doc.Metadata.Properties)
	}
	for i, sd := range doc.Sheets {
		ws, err := jsonSheet(wb, i, sd.Name)
		if err != nil {
			return nil, err
		}
		if err := loadJSONSheet(ws, sd); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sd.Name, err)
		}
	}
	// The active sheet is restored only when it was exported.
	if doc.Metadata != nil {
		if _, err := wb.Sheet(doc.Metadata.ActiveSheet); err == nil {
			_ = wb.SetActive(doc.Metadata.ActiveSheet)
		}
	}
	return wb, nil
}

func jsonSheet(wb *models.Workbook, index int, name string) (*models.Worksheet, error) {
	if index == 0 {
		if err := wb.RenameSheet(models.DefaultSheetName, name); err != nil {
			return nil, err
		}
		return wb.Active(), nil
	}
	return wb.AddSheet(name)
}

func loadJSONSheet(ws *models.Worksheet, sd output.SheetDocument) error {
	for r, row := range sd.Rows {
		for c, raw := range row {
			if raw == nil {
				continue
			}
			at := coord.Cell{Row: r, Col: c}
			value, link, err := jsonCell(raw)
			if err != nil {
				return fmt.Errorf("cell %s: %w", at.Label(), err)
			}
			if link != nil {
				if err := ws.SetHyperlink(at, link.URL, link.Display); err != nil {
					return err
				}
			}
			if err := ws.Set(at, value); err != nil {
				return err
			}
		}
	}
	for _, label := range sd.Merges {
		m, err := coord.ParseRange(label)
		if err != nil {
			return err
		}
		if err := ws.MergeRange(m); err != nil {
			return err
		}
	}
	return nil
}

func jsonCell(raw any) (models.Value, *models.Hyperlink, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj["url"] == nil {
		v, err := jsonScalar(raw)
		return v, nil, err
	}
	url, _ := obj["url"].(string)
	if url == "" {
		return models.Value{}, nil, fmt.Errorf("link object without url")
	}
	display, _ := obj["display"].(string)
	v, err := jsonScalar(obj["value"])
	if err != nil {
		return models.Value{}, nil, err
	}
	return v, &models.Hyperlink{URL: url, Display: display}, nil
}

func jsonScalar(raw any) (models.Value, error) {
	switch v := raw.(type) {
	case nil:
		return models.Empty(), nil
	case string:
		return models.Text(v), nil
	case float64:
		return models.Number(v), nil
	case bool:
		return models.Bool(v), nil
	case map[string]any:
		expr, _ := v["formula"].(string)
		if strings.TrimPrefix(expr, "=") == "" {
			return models.Value{}, fmt.Errorf("object is neither a link nor a formula")
		}
		cached, err := jsonScalar(v["value"])
		if err != nil {
			return models.Value{}, err
		}
		if cached.Kind() == models.KindFormula {
			return models.Value{}, fmt.Errorf("nested formula in %q", expr)
		}
		return models.Formula(expr, cached), nil
	default:
		return models.Value{}, fmt.Errorf("unsupported cell value %T", raw)
	}
}
