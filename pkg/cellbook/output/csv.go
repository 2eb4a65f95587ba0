package output

import (
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"

	"github.com/ukaji3/cellbook-go/internal/textenc"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// CSVOptions configures ToCSV.
type CSVOptions struct {
	// SheetName selects the sheet. Empty selects the active sheet.
	SheetName string
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// ValueMode selects the side of formula cells that is rendered.
	ValueMode models.ValueMode
	// Encoding names the output character encoding. Empty means UTF-8.
	Encoding string
}

// ToCSV renders one sheet of wb as delimited text.
func ToCSV(wb *models.Workbook, opts CSVOptions) ([]byte, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}
	ws, err := selectSheet(wb, opts.SheetName)
	if err != nil {
		return nil, err
	}
	return SheetToCSV(ws, opts)
}

// SheetToCSV renders ws as delimited text. Every row from the first through
// the last populated one is written, each as wide as the widest row.
// Hyperlinks contribute their display text only.
func SheetToCSV(ws *models.Worksheet, opts CSVOptions) ([]byte, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}
	mode, _ := checkValueMode(opts.ValueMode)

	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	w := csv.NewWriter(b)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}
	for _, cells := range ws.Rows() {
		record := make([]string, len(cells))
		for i, cell := range cells {
			record[i] = cell.Text(mode)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	out, err := textenc.Encode(b.B, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), out...), nil
}

func (o CSVOptions) check() error {
	if _, err := checkValueMode(o.ValueMode); err != nil {
		return err
	}
	if o.Delimiter != 0 && !ValidDelimiter(o.Delimiter) {
		return fmt.Errorf("invalid delimiter %q", o.Delimiter)
	}
	if _, err := textenc.Lookup(o.Encoding); err != nil {
		return err
	}
	return nil
}

// ValidDelimiter reports whether r can separate CSV fields.
func ValidDelimiter(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}
