package output

import (
	"encoding/json"
	"fmt"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// JSONOptions configures ToJSON.
type JSONOptions struct {
	// SheetName restricts the output to one sheet. Empty exports all sheets.
	SheetName string
	// ValueMode selects the side of formula cells that is emitted.
	ValueMode models.ValueMode
	// Pretty indents the document.
	Pretty bool
	// IncludeMetadata adds the metadata object.
	IncludeMetadata bool
}

// Document is the structured-data representation of a workbook.
type Document struct {
	// Metadata is present when requested.
	Metadata *Metadata `json:"metadata,omitempty"`
	// Sheets lists the exported sheets in tab order.
	Sheets []SheetDocument `json:"sheets"`
}

// Metadata describes the workbook as a whole.
type Metadata struct {
	models.Properties
	// ActiveSheet is the name of the active sheet.
	ActiveSheet string `json:"active_sheet"`
	// SheetNames lists every sheet, exported or not.
	SheetNames []string `json:"sheet_names"`
}

// SheetDocument holds one sheet.
type SheetDocument struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows is a rectangle from A1 to the last populated row and column.
	// Each value is null, a string, a number, a boolean, a Formula or a
	// Link.
	Rows [][]any `json:"rows"`
	// Merges lists merge regions as "A1:C1" labels.
	Merges []string `json:"merges,omitempty"`
}

// Link is how a hyperlinked cell is emitted.
type Link struct {
	// Text is the text shown for the link.
	Text string `json:"text"`
	// URL is the link target.
	URL string `json:"url"`
	// Display is the link's own display text, when set.
	Display string `json:"display,omitempty"`
	// Value is the cell value under the link. Null for a bare link.
	Value any `json:"value"`
}

// Formula is how a formula cell is emitted in formula mode. Strings are
// always text, so text starting with '=' never reads back as a formula.
type Formula struct {
	// Formula is the formula text with its leading '='.
	Formula string `json:"formula"`
	// Value is the cached result. Null when none was computed.
	Value any `json:"value"`
}

// ToJSON serializes the selected sheets of wb.
func ToJSON(wb *models.Workbook, opts JSONOptions) ([]byte, error) {
	mode, err := checkValueMode(opts.ValueMode)
	if err != nil {
		return nil, err
	}
	sheets, err := selectSheets(wb, opts.SheetName)
	if err != nil {
		return nil, err
	}

	doc := Document{Sheets: make([]SheetDocument, 0, len(sheets))}
	if opts.IncludeMetadata {
		doc.Metadata = &Metadata{
			Properties:  wb.Properties(),
			ActiveSheet: wb.Active().Name(),
			SheetNames:  wb.SheetNames(),
		}
	}
	for _, ws := range sheets {
		doc.Sheets = append(doc.Sheets, sheetDocument(ws, mode))
	}
	return marshal(doc, opts.Pretty)
}

// SheetToJSON serializes a single sheet without the document envelope.
func SheetToJSON(ws *models.Worksheet, opts JSONOptions) ([]byte, error) {
	mode, err := checkValueMode(opts.ValueMode)
	if err != nil {
		return nil, err
	}
	return marshal(sheetDocument(ws, mode), opts.Pretty)
}

func sheetDocument(ws *models.Worksheet, mode models.ValueMode) SheetDocument {
	sd := SheetDocument{Name: ws.Name(), Rows: [][]any{}}
	for _, cells := range ws.Rows() {
		row := make([]any, len(cells))
		for i, cell := range cells {
			row[i] = jsonValue(cell, mode)
		}
		sd.Rows = append(sd.Rows, row)
	}
	for _, m := range ws.Merges() {
		sd.Merges = append(sd.Merges, m.Label())
	}
	return sd
}

func jsonValue(cell models.Cell, mode models.ValueMode) any {
	v := cell.Value.Interface()
	if expr, ok := cell.Value.Formula(); ok && mode == models.ValueModeFormula {
		v = Formula{Formula: "=" + expr, Value: v}
	}
	if cell.Hyperlink == nil {
		return v
	}
	return Link{
		Text:    cell.LinkText(mode),
		URL:     cell.Hyperlink.URL,
		Display: cell.Hyperlink.Display,
		Value:   v,
	}
}

func marshal(v any, pretty bool) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return b, nil
}
