package models

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered field mapping. Field order decides column order
// when records are imported.
type Record []Field

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// RecordFromMap builds a Record from a map. Go maps are unordered, so the
// fields are sorted by name.
func RecordFromMap(m map[string]any) Record {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)

	rec := make(Record, len(names))
	for i, k := range names {
		rec[i] = Field{Name: k, Value: m[k]}
	}
	return rec
}

// RecordsFromStructs converts a slice of structs, or pointers to structs,
// into Records. Exported fields are used in declaration order; the
// `cellbook` tag renames a field and `cellbook:"-"` skips it.
func RecordsFromStructs(items any) ([]Record, error) {
	rv := reflect.ValueOf(items)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice of structs, got %T", items)
	}

	records := make([]Record, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := reflect.Indirect(rv.Index(i))
		if item.Kind() == reflect.Interface {
			item = reflect.Indirect(item.Elem())
		}
		if !item.IsValid() {
			records = append(records, nil)
			continue
		}
		if item.Kind() != reflect.Struct {
			return nil, fmt.Errorf("element %d: expected a struct, got %s", i, item.Kind())
		}
		records = append(records, structRecord(item))
	}
	return records, nil
}

func structRecord(v reflect.Value) Record {
	t := v.Type()
	var rec Record
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("cellbook"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		rec = append(rec, Field{Name: name, Value: v.Field(i).Interface()})
	}
	return rec
}

// ImportRecords writes records as a table anchored at anchor. The header
// row holds the union of field names in first-seen order; each record then
// fills one row in that column order, leaving missing fields empty. It
// returns the number of rows written, header included.
//
// Rows are checked one at a time, so a failure on a later row leaves the
// earlier rows written.
func (ws *Worksheet) ImportRecords(records []Record, anchor coord.Cell) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if !anchor.Valid() {
		return 0, &ImportError{Row: 0, Reason: fmt.Sprintf("anchor (%d, %d) is outside the sheet", anchor.Row, anchor.Col)}
	}

	var columns []string
	index := make(map[string]int)
	for _, rec := range records {
		for _, f := range rec {
			if _, ok := index[f.Name]; !ok {
				index[f.Name] = len(columns)
				columns = append(columns, f.Name)
			}
		}
	}
	if len(columns) == 0 {
		return 0, nil
	}

	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := ws.importRow(anchor, 0, header); err != nil {
		return 0, err
	}

	written := 1
	for i, rec := range records {
		row := make([]any, len(columns))
		for _, f := range rec {
			if row[index[f.Name]] == nil {
				row[index[f.Name]] = f.Value
			}
		}
		if err := ws.importRow(anchor.Offset(written, 0), i, row); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// ImportRows writes each inner slice verbatim as one row, starting at
// anchor. It returns the number of rows written.
func (ws *Worksheet) ImportRows(rows [][]any, anchor coord.Cell) (int, error) {
	if len(rows) > 0 && !anchor.Valid() {
		return 0, &ImportError{Row: 0, Reason: fmt.Sprintf("anchor (%d, %d) is outside the sheet", anchor.Row, anchor.Col)}
	}
	for i, values := range rows {
		if err := ws.importRow(anchor.Offset(i, 0), i, values); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

// importRow writes values at start after checking that the whole row fits.
// Merge placeholders are skipped.
func (ws *Worksheet) importRow(start coord.Cell, input int, values []any) error {
	if start.Row >= coord.MaxRows {
		return &ImportError{Row: input, Reason: fmt.Sprintf("row %d is past the last addressable row", start.Row+1)}
	}
	if len(values) > 0 && start.Col+len(values) > coord.MaxColumns {
		return &ImportError{Row: input, Reason: fmt.Sprintf("%d values starting at column %s run past column %s",
			len(values), coord.ColumnLabel(start.Col), coord.ColumnLabel(coord.MaxColumns-1))}
	}
	if err := ws.writeRow(start, values); err != nil {
		return &ImportError{Row: input, Reason: err.Error()}
	}
	return nil
}
