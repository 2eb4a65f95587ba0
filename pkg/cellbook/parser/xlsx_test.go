package parser

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/output"
)

func inventoryBook(t *testing.T) *models.Workbook {
	t.Helper()
	wb := models.NewWorkbook()
	wb.SetProperties(models.Properties{
		Title:   "Inventory",
		Author:  "ops",
		Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Custom:  map[string]string{"region": "eu"},
	})

	ws := wb.Active()
	require.NoError(t, wb.RenameSheet("Sheet1", "Products"))
	require.NoError(t, ws.SetValue("A1", "Product ID"))
	require.NoError(t, ws.SetValue("B1", "Price"))
	require.NoError(t, ws.SetValue("C1", "Stocked"))
	require.NoError(t, ws.SetValue("A2", "P001"))
	require.NoError(t, ws.SetValue("B2", 9.5))
	require.NoError(t, ws.SetValue("C2", true))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("A3"), "https://x.com/a", "Lenovo"))
	require.NoError(t, ws.SetFormula(coord.MustParse("B3"), "B2*2", models.Number(19)))
	require.NoError(t, ws.SetValue("A5", "Notes"))
	require.NoError(t, ws.MergeRange(coord.MustParseRange("A5:C5")))
	require.NoError(t, ws.SetStyle(coord.MustParseRange("A1:C1"), models.Style{}.WithBold(true).WithFill("DDEEFF")))
	require.NoError(t, ws.SetColumnWidth(0, 14))
	require.NoError(t, ws.SetRowHeight(0, 24))
	require.NoError(t, ws.SetFreezePanes(coord.MustParse("A2")))
	require.NoError(t, ws.SetPrintArea(coord.MustParseRange("A1:C5")))

	archive, err := wb.AddSheet("Archive")
	require.NoError(t, err)
	require.NoError(t, archive.SetValue("A1", "old"))
	archive.SetVisibility(models.Hidden)

	_, err = wb.AddSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, wb.SetActive("Summary"))
	return wb
}

func TestXLSXRoundTrip(t *testing.T) {
	orig := inventoryBook(t)

	var buf bytes.Buffer
	require.NoError(t, output.EncodeXLSX(&buf, models.Describe(orig)))
	data, err := DecodeXLSX(&buf)
	require.NoError(t, err)

	got, err := models.FromData(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Products", "Archive", "Summary"}, got.SheetNames())
	assert.Equal(t, "Summary", got.Active().Name())

	props := got.Properties()
	assert.Equal(t, "Inventory", props.Title)
	assert.Equal(t, "ops", props.Author)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), props.Created)
	assert.Equal(t, map[string]string{"region": "eu"}, props.Custom)

	src, err := orig.Sheet("Products")
	require.NoError(t, err)
	ws, err := got.Sheet("Products")
	require.NoError(t, err)
	for _, label := range []string{"A1", "B1", "C1", "A2", "B2", "C2", "A5"} {
		at := coord.MustParse(label)
		assert.True(t, src.Get(at).Value.Equal(ws.Get(at).Value), label)
	}

	link := ws.Get(coord.MustParse("A3"))
	require.NotNil(t, link.Hyperlink)
	assert.Equal(t, "https://x.com/a", link.Hyperlink.URL)
	assert.Equal(t, "Lenovo", link.Text(models.ValueModeValue))

	formula := ws.Get(coord.MustParse("B3")).Value
	expr, ok := formula.Formula()
	require.True(t, ok)
	assert.Equal(t, "B2*2", expr)

	assert.True(t, ws.StyleAt(coord.MustParse("B1")).Font.Bold)
	assert.Equal(t, "#DDEEFF", ws.StyleAt(coord.MustParse("B1")).Fill.Color)
	assert.Equal(t, []coord.Range{coord.MustParseRange("A5:C5")}, ws.Merges())

	w, ok := ws.ColumnWidth(0)
	assert.True(t, ok)
	assert.Equal(t, 14.0, w)
	h, ok := ws.RowHeight(0)
	assert.True(t, ok)
	assert.Equal(t, 24.0, h)

	fp, ok := ws.FreezePanes()
	assert.True(t, ok)
	assert.Equal(t, "A2", fp.Label())
	pa, ok := ws.PrintArea()
	assert.True(t, ok)
	assert.Equal(t, "A1:C5", pa.Label())

	archive, err := got.Sheet("Archive")
	require.NoError(t, err)
	assert.Equal(t, models.Hidden, archive.Visibility())
}

func TestDecodeXLSXRejectsGarbage(t *testing.T) {
	_, err := DecodeXLSX(strings.NewReader("not a zip"))
	assert.Error(t, err)
}
