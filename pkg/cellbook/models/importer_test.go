package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

func texts(ws *Worksheet, row, from, to int) []string {
	var out []string
	for col := from; col <= to; col++ {
		out = append(out, ws.Get(coord.Cell{Row: row, Col: col}).Text(ValueModeValue))
	}
	return out
}

func TestImportRecordsUnionHeader(t *testing.T) {
	ws := newSheet(t)
	records := []Record{
		{{Name: "id", Value: 1}, {Name: "name", Value: "Ann"}},
		{{Name: "name", Value: "Bob"}, {Name: "email", Value: "bob@example.com"}},
		{{Name: "id", Value: 3}},
	}

	n, err := ws.ImportRecords(records, coord.MustParse("B2"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []string{"id", "name", "email"}, texts(ws, 1, 1, 3))
	assert.Equal(t, []string{"1", "Ann", ""}, texts(ws, 2, 1, 3))
	assert.Equal(t, []string{"", "Bob", "bob@example.com"}, texts(ws, 3, 1, 3))
	assert.Equal(t, []string{"3", "", ""}, texts(ws, 4, 1, 3))

	assert.Equal(t, KindNumber, ws.Get(coord.MustParse("B3")).Value.Kind())
	assert.True(t, ws.Get(coord.MustParse("A1")).IsBlank())
}

func TestImportRecordsEmpty(t *testing.T) {
	ws := newSheet(t)
	n, err := ws.ImportRecords(nil, coord.Cell{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ws.ImportRecords([]Record{{}, {}}, coord.Cell{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, -1, ws.MaxRow())
}

func TestImportRecordsPastLastRow(t *testing.T) {
	ws := newSheet(t)
	anchor := coord.Cell{Row: coord.MaxRows - 2}
	records := []Record{
		{{Name: "a", Value: 1}},
		{{Name: "a", Value: 2}},
	}

	n, err := ws.ImportRecords(records, anchor)
	assert.ErrorIs(t, err, ErrImport)
	assert.Equal(t, 2, n, "header and first record fit")

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 1, importErr.Row)
}

func TestImportRowsVerbatim(t *testing.T) {
	ws := newSheet(t)
	rows := [][]any{
		{"a", 1, true},
		{},
		{nil, 2.5},
	}

	n, err := ws.ImportRows(rows, coord.MustParse("C3"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, []string{"a", "1", "TRUE"}, texts(ws, 2, 2, 4))
	assert.Equal(t, []string{"", "2.5", ""}, texts(ws, 4, 2, 4))
	assert.Equal(t, KindBool, ws.Get(coord.MustParse("E3")).Value.Kind())
}

func TestImportRowsPastLastColumn(t *testing.T) {
	ws := newSheet(t)
	anchor := coord.Cell{Col: coord.MaxColumns - 1}

	n, err := ws.ImportRows([][]any{{"fits"}, {"one", "two"}}, anchor)
	assert.ErrorIs(t, err, ErrImport)
	assert.Equal(t, 1, n)
	assert.Equal(t, "fits", ws.Get(anchor).Text(ValueModeValue))
	assert.True(t, ws.Get(anchor.Offset(1, 0)).IsBlank(), "the failing row writes nothing")
}

func TestImportSkipsMergePlaceholders(t *testing.T) {
	ws := newSheet(t)
	require.NoError(t, ws.MergeRange(coord.MustParseRange("A2:B2")))

	_, err := ws.ImportRows([][]any{{"h1", "h2"}, {"v1", "v2"}}, coord.Cell{})
	require.NoError(t, err)
	assert.Equal(t, "v1", ws.Get(coord.MustParse("A2")).Text(ValueModeValue))
	assert.True(t, ws.Get(coord.MustParse("B2")).IsBlank())
}

func TestImportRowsRejectsNonFiniteNumbers(t *testing.T) {
	ws := newSheet(t)

	n, err := ws.ImportRows([][]any{{1.5}, {"a", math.NaN()}}, coord.Cell{})
	assert.ErrorIs(t, err, ErrImport)
	assert.Equal(t, 1, n)

	var ie *ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Row)
	assert.True(t, ws.Get(coord.MustParse("A2")).IsBlank(), "the failing row writes nothing")
}

type employee struct {
	ID      int    `cellbook:"Employee ID"`
	Name    string
	Secret  string `cellbook:"-"`
	private string
	Manager *string
}

func TestRecordsFromStructs(t *testing.T) {
	boss := "Kim"
	items := []*employee{
		{ID: 7, Name: "Ann", Secret: "x", private: "y", Manager: &boss},
		{ID: 8, Name: "Bob"},
	}

	records, err := RecordsFromStructs(items)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var names []string
	for _, f := range records[0] {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Employee ID", "Name", "Manager"}, names)

	ws := newSheet(t)
	_, err = ws.ImportRecords(records, coord.Cell{})
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "Ann", "Kim"}, texts(ws, 1, 0, 2))
	assert.Equal(t, []string{"8", "Bob", ""}, texts(ws, 2, 0, 2))

	_, err = RecordsFromStructs(42)
	assert.Error(t, err)
	_, err = RecordsFromStructs([]int{1})
	assert.Error(t, err)
}

func TestRecordFromMapSortsKeys(t *testing.T) {
	rec := RecordFromMap(map[string]any{"b": 2, "a": 1, "c": 3})
	assert.Equal(t, Record{{"a", 1}, {"b", 2}, {"c", 3}}, rec)

	v, ok := rec.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
