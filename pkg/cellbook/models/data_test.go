package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

func sampleWorkbook(t *testing.T) *Workbook {
	t.Helper()
	wb := NewWorkbook()
	wb.SetProperties(Properties{Title: "Inventory", Author: "ops", Custom: map[string]string{"region": "eu"}})

	ws := wb.Active()
	require.NoError(t, wb.RenameSheet("Sheet1", "Products"))
	require.NoError(t, ws.SetValue("A1", "Product ID"))
	require.NoError(t, ws.SetValue("B1", "Price"))
	require.NoError(t, ws.SetValue("A2", "P001"))
	require.NoError(t, ws.SetValue("B2", 9.5))
	require.NoError(t, ws.SetValue("C2", true))
	require.NoError(t, ws.SetFormula(coord.MustParse("B3"), "SUM(B2:B2)", Number(9.5)))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("A3"), "https://x.com/a", "Lenovo"))
	require.NoError(t, ws.SetStyle(coord.MustParseRange("A1:B1"), Style{}.WithBold(true).WithFill("DDEEFF")))
	require.NoError(t, ws.MergeRange(coord.MustParseRange("D1:E2")))
	require.NoError(t, ws.SetColumnWidth(0, 14))
	require.NoError(t, ws.SetFreezePanes(coord.MustParse("A2")))

	hidden, err := wb.AddSheet("Notes")
	require.NoError(t, err)
	hidden.SetVisibility(Hidden)
	require.NoError(t, wb.SetActive("Notes"))
	return wb
}

func TestDescribeOrdersCells(t *testing.T) {
	data := Describe(sampleWorkbook(t))

	require.Len(t, data.Sheets, 2)
	assert.Equal(t, 1, data.ActiveSheet)
	assert.Equal(t, "hidden", data.Sheets[1].Visibility)

	var refs []string
	for _, c := range data.Sheets[0].Cells {
		refs = append(refs, c.Ref)
	}
	assert.Equal(t, []string{"A1", "B1", "A2", "B2", "C2", "A3", "B3"}, refs)

	formula := data.Sheets[0].Cells[6]
	assert.Equal(t, "formula", formula.Kind)
	assert.Equal(t, "SUM(B2:B2)", formula.Formula)
	assert.Equal(t, 9.5, formula.Value)
	assert.Equal(t, []string{"D1:E2"}, data.Sheets[0].Merges)
}

func TestFromDataRoundTrip(t *testing.T) {
	orig := sampleWorkbook(t)

	// Pass through JSON to make sure the description is self-contained.
	raw, err := json.Marshal(Describe(orig))
	require.NoError(t, err)
	var data WorkbookData
	require.NoError(t, json.Unmarshal(raw, &data))

	got, err := FromData(&data)
	require.NoError(t, err)

	assert.Equal(t, orig.SheetNames(), got.SheetNames())
	assert.Equal(t, "Notes", got.Active().Name())
	assert.Equal(t, orig.Properties().Custom, got.Properties().Custom)
	assert.Equal(t, "Inventory", got.Properties().Title)

	src, _ := orig.Sheet("Products")
	dst, _ := got.Sheet("Products")
	for c, cell := range src.Cells() {
		other := dst.Get(c)
		assert.True(t, cell.Value.Equal(other.Value), c.Label())
		assert.Equal(t, cell.Hyperlink, other.Hyperlink, c.Label())
		assert.Equal(t, src.StyleAt(c), dst.StyleAt(c), c.Label())
	}
	assert.Equal(t, src.Merges(), dst.Merges())
	assert.Equal(t, src.ColumnWidths(), dst.ColumnWidths())
	fp, ok := dst.FreezePanes()
	assert.True(t, ok)
	assert.Equal(t, "A2", fp.Label())

	notes, _ := got.Sheet("Notes")
	assert.Equal(t, Hidden, notes.Visibility())
}

func TestFromDataRejectsBadSheetNames(t *testing.T) {
	_, err := FromData(&WorkbookData{Sheets: []SheetData{{Name: "a"}, {Name: "A"}}})
	assert.ErrorIs(t, err, ErrDuplicateSheet)

	_, err = FromData(&WorkbookData{Sheets: []SheetData{{Name: "bad/name"}}})
	assert.ErrorIs(t, err, ErrInvalidSheetName)
}

func TestFromDataEmptyKeepsDefaultSheet(t *testing.T) {
	wb, err := FromData(&WorkbookData{})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultSheetName}, wb.SheetNames())
}
