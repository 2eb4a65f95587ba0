package output

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

func productBook(t *testing.T) *models.Workbook {
	t.Helper()
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "Product ID"))
	require.NoError(t, ws.SetValue("B1", "Product Name"))
	require.NoError(t, ws.SetValue("A2", "P001"))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("B2"), "https://x.com/a", "Lenovo"))
	return wb
}

func TestToMarkdownHyperlinks(t *testing.T) {
	wb := productBook(t)

	md, err := ToMarkdown(wb, MarkdownOptions{IncludeHyperlinks: true})
	require.NoError(t, err)
	assert.Equal(t, "| Product ID | Product Name |\n| --- | --- |\n| P001 | [Lenovo](https://x.com/a) |\n", md)

	md, err = ToMarkdown(wb, MarkdownOptions{IncludeHyperlinks: false})
	require.NoError(t, err)
	assert.Contains(t, md, "| P001 | Lenovo |")
	assert.NotContains(t, md, "https://")
}

func TestToMarkdownMissingSheet(t *testing.T) {
	md, err := ToMarkdown(productBook(t), MarkdownOptions{SheetName: "Missing", IncludeGeneratorInfo: true})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, md)
}

func TestToMarkdownInvalidValueMode(t *testing.T) {
	_, err := ToMarkdown(productBook(t), MarkdownOptions{ValueMode: "cached"})
	assert.Error(t, err)
}

func TestToMarkdownTrimmedScenario(t *testing.T) {
	wb := models.NewWorkbook()
	require.NoError(t, wb.Active().SetValue("A3", "A"))
	require.NoError(t, wb.Active().SetValue("B3", "B"))

	md, err := ToMarkdown(wb, MarkdownOptions{})
	require.NoError(t, err)
	assert.Equal(t, "| A | B |\n| --- | --- |\n", md)
}

func TestToMarkdownSectionHeadings(t *testing.T) {
	wb := productBook(t)
	second, err := wb.AddSheet("Stock")
	require.NoError(t, err)
	require.NoError(t, second.SetValue("A1", "Qty"))
	require.NoError(t, second.SetValue("A2", 3))

	md, err := ToMarkdown(wb, MarkdownOptions{})
	require.NoError(t, err)
	assert.Contains(t, md, "## Sheet1\n\n| Product ID |")
	assert.Contains(t, md, "\n\n## Stock\n\n| Qty |\n| --- |\n| 3 |\n")

	md, err = ToMarkdown(wb, MarkdownOptions{SheetName: "Stock"})
	require.NoError(t, err)
	assert.NotContains(t, md, "##")
	assert.Equal(t, "| Qty |\n| --- |\n| 3 |\n", md)
}

func TestToMarkdownMetadataAndBanner(t *testing.T) {
	wb := productBook(t)
	wb.SetProperties(models.Properties{Title: "Catalog"})
	_, err := wb.AddSheet("Stock")
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	md, err := ToMarkdown(wb, MarkdownOptions{
		SheetName:            "Sheet1",
		IncludeMetadata:      true,
		IncludeGeneratorInfo: true,
		Now:                  func() time.Time { return now },
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		GeneratorBanner,
		"",
		"# Document Metadata",
		"",
		"- **Source Type**: Spreadsheet Workbook",
		"- **Title**: Catalog",
		"- **Conversion Date**: 2024-03-01 12:30:00",
		"- **Total Sheets**: 2",
		"- **Sheet Names**: Sheet1, Stock",
		"- **Active Sheet**: Sheet1",
		"",
		"| Product ID | Product Name |",
	}, "\n")
	assert.True(t, strings.HasPrefix(md, want), md)
}

func TestToMarkdownSeparatesSheetsWithRuleUnderMetadata(t *testing.T) {
	wb := productBook(t)
	second, err := wb.AddSheet("Stock")
	require.NoError(t, err)
	require.NoError(t, second.SetValue("A1", "Qty"))

	md, err := ToMarkdown(wb, MarkdownOptions{IncludeMetadata: true})
	require.NoError(t, err)
	assert.Contains(t, md, "|\n\n---\n\n## Stock\n")
}

func TestToMarkdownEscapesCells(t *testing.T) {
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "note"))
	require.NoError(t, ws.SetValue("A2", "a|b\n  c\r\nd"))

	md, err := ToMarkdown(wb, MarkdownOptions{})
	require.NoError(t, err)
	assert.Contains(t, md, `| a\|b c d |`)
}

func TestToMarkdownAutolinks(t *testing.T) {
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "contact"))
	require.NoError(t, ws.SetValue("A2", "see https://x.com/a."))
	require.NoError(t, ws.SetValue("A3", "mail ops@example.com"))
	require.NoError(t, ws.SetValue("A4", "www.example.org"))

	md, err := ToMarkdown(wb, MarkdownOptions{IncludeHyperlinks: true})
	require.NoError(t, err)
	assert.Contains(t, md, "| see [https://x.com/a](https://x.com/a). |")
	assert.Contains(t, md, "| mail [ops@example.com](mailto:ops@example.com) |")
	assert.Contains(t, md, "| [www.example.org](http://www.example.org) |")

	md, err = ToMarkdown(wb, MarkdownOptions{})
	require.NoError(t, err)
	assert.Contains(t, md, "| see https://x.com/a. |")
}

func TestToMarkdownLinkWithoutDisplay(t *testing.T) {
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "site"))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("A2"), "https://x.com/a b", ""))

	md, err := ToMarkdown(wb, MarkdownOptions{IncludeHyperlinks: true})
	require.NoError(t, err)
	assert.Contains(t, md, "| [https://x.com/a b](https://x.com/a%20b) |")
}

func TestRenderTablesMarksEmptySheets(t *testing.T) {
	wb := productBook(t)
	_, err := wb.AddSheet("Blank")
	require.NoError(t, err)

	tables, err := RenderTables(wb, MarkdownOptions{})
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.False(t, tables[0].Empty)
	assert.True(t, tables[1].Empty)
	assert.Equal(t, "Blank", tables[1].Name)

	md, err := ToMarkdown(wb, MarkdownOptions{})
	require.NoError(t, err)
	assert.NotContains(t, md, "Blank")
}
