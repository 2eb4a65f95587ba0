package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/output"
)

func TestReadMarkdownRoundTrip(t *testing.T) {
	src := models.NewWorkbook()
	require.NoError(t, src.RenameSheet("Sheet1", "Products"))
	ws := src.Active()
	_, err := ws.AppendRow("name", "price", "in stock")
	require.NoError(t, err)
	_, err = ws.AppendRow("a|b", 9.5, true)
	require.NoError(t, err)
	require.NoError(t, ws.SetHyperlink(coord.MustParse("A3"), "https://x.com/a b", "Lenovo"))
	require.NoError(t, ws.SetValue("B3", 3))
	require.NoError(t, ws.SetValue("C3", false))
	notes, err := src.AddSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, notes.SetValue("A1", "note"))
	require.NoError(t, notes.SetValue("A2", "hello"))

	md, err := output.ToMarkdown(src, output.MarkdownOptions{IncludeHyperlinks: true, IncludeMetadata: true, IncludeGeneratorInfo: true})
	require.NoError(t, err)

	wb, err := ReadMarkdown(strings.NewReader(md))
	require.NoError(t, err)
	assert.Equal(t, []string{"Products", "Notes"}, wb.SheetNames())

	got, err := wb.Sheet("Products")
	require.NoError(t, err)
	assert.Equal(t, "name", got.Get(coord.MustParse("A1")).Text(models.ValueModeValue))
	assert.True(t, got.Get(coord.MustParse("A2")).Value.Equal(models.Text("a|b")))
	assert.True(t, got.Get(coord.MustParse("B2")).Value.Equal(models.Number(9.5)))
	assert.True(t, got.Get(coord.MustParse("C2")).Value.Equal(models.Bool(true)))
	assert.True(t, got.Get(coord.MustParse("C3")).Value.Equal(models.Bool(false)))

	link := got.Get(coord.MustParse("A3"))
	require.NotNil(t, link.Hyperlink)
	assert.Equal(t, "https://x.com/a b", link.Hyperlink.URL)
	assert.True(t, link.Value.Equal(models.Text("Lenovo")))

	back, err := wb.Sheet("Notes")
	require.NoError(t, err)
	assert.Equal(t, "hello", back.Get(coord.MustParse("A2")).Text(models.ValueModeValue))
}

func TestReadMarkdownDefaultSection(t *testing.T) {
	doc := `Some intro text.

| id | flag | note |
|:---|:----:|-----:|
| 1 | true |  |
| 2 | False | a \| b |

| ignored |
|---|
| second table |
`
	wb, err := ReadMarkdown(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames())

	ws := wb.Active()
	assert.Equal(t, 2, ws.MaxRow())
	assert.True(t, ws.Get(coord.MustParse("A2")).Value.Equal(models.Number(1)))
	assert.True(t, ws.Get(coord.MustParse("B2")).Value.Equal(models.Bool(true)))
	assert.True(t, ws.Get(coord.MustParse("C2")).IsBlank())
	assert.True(t, ws.Get(coord.MustParse("B3")).Value.Equal(models.Bool(false)))
	assert.True(t, ws.Get(coord.MustParse("C3")).Value.Equal(models.Text("a | b")))
}

func TestReadMarkdownSections(t *testing.T) {
	doc := `# Report

No table here.

## Data

| a |
|---|
| 1 |

## Data

| b |
|---|
| 2 |
`
	wb, err := ReadMarkdown(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Data (2)"}, wb.SheetNames())

	second, err := wb.Sheet("Data (2)")
	require.NoError(t, err)
	assert.Equal(t, "b", second.Get(coord.MustParse("A1")).Text(models.ValueModeValue))
}

func TestReadMarkdownWithoutTables(t *testing.T) {
	wb, err := ReadMarkdown(strings.NewReader("# Title\n\njust prose\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames())
	assert.Equal(t, -1, wb.Active().MaxRow())
}

func TestSplitMarkdownRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b | c", ""}, splitMarkdownRow(` a | b \| c | `))
	assert.Equal(t, []string{`x\y`}, splitMarkdownRow(`x\y`))
}
