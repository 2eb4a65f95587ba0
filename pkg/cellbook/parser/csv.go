package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/ukaji3/cellbook-go/internal/textenc"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

var decimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// SheetName names the single sheet. Empty keeps the default name.
	SheetName string
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Encoding names the input character encoding. Empty means UTF-8.
	Encoding string
}

// ReadCSV loads delimited text into a one-sheet workbook.
func ReadCSV(r io.Reader, opts CSVOptions) (*models.Workbook, error) {
	wb := models.NewWorkbook()
	if opts.SheetName != "" {
		if err := wb.RenameSheet(models.DefaultSheetName, opts.SheetName); err != nil {
			return nil, err
		}
	}

	in, err := textenc.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	var rows [][]any
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		row := make([]any, len(record))
		for i, field := range record {
			row[i] = ParseCSVValue(field)
		}
		rows = append(rows, row)
	}

	if _, err := wb.Active().ImportRows(rows, coord.Cell{}); err != nil {
		return nil, err
	}
	return wb, nil
}

// ParseCSVValue converts a field into nil, a number, a bool or a string.
func ParseCSVValue(s string) any {
	switch s {
	case "":
		return nil
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if decimal.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
