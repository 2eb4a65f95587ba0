// Package output renders workbooks as Markdown, CSV, JSON and xlsx.
//
// Every writer validates its options and the requested sheet before it
// renders anything, and returns the document only once it is complete.
package output

import (
	"fmt"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// GeneratorBanner is the comment that identifies generated Markdown.
const GeneratorBanner = "<!-- Generator: cellbook-go -->"

// selectSheets returns the named sheet, or every sheet when name is empty.
func selectSheets(wb *models.Workbook, name string) ([]*models.Worksheet, error) {
	if name == "" {
		return wb.Sheets(), nil
	}
	ws, err := wb.Sheet(name)
	if err != nil {
		return nil, err
	}
	return []*models.Worksheet{ws}, nil
}

// selectSheet returns the named sheet, or the active one when name is empty.
func selectSheet(wb *models.Workbook, name string) (*models.Worksheet, error) {
	if name == "" {
		return wb.Active(), nil
	}
	return wb.Sheet(name)
}

func checkValueMode(mode models.ValueMode) (models.ValueMode, error) {
	switch mode {
	case "":
		return models.ValueModeValue, nil
	case models.ValueModeValue, models.ValueModeFormula:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid value mode %q", mode)
	}
}
