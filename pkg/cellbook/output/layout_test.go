package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

func newSheet(t *testing.T, values map[string]any) *models.Worksheet {
	t.Helper()
	ws := models.NewWorkbook().Active()
	for label, v := range values {
		require.NoError(t, ws.SetValue(label, v))
	}
	return ws
}

func TestInferTableTrimsLeadingEmptyRows(t *testing.T) {
	ws := newSheet(t, map[string]any{"A3": "A", "B3": "B"})

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.Equal(t, "A3:B3", table.Bounds.Label())
	assert.True(t, table.Promoted)
	assert.Equal(t, []string{"A", "B"}, table.Header)
	assert.Empty(t, table.Body)
}

func TestInferTableTrimsLeadingEmptyColumns(t *testing.T) {
	ws := newSheet(t, map[string]any{"C2": "id", "D2": "qty", "C3": "x", "D3": 4})

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.Equal(t, []string{"id", "qty"}, table.Header)
	assert.Equal(t, [][]string{{"x", "4"}}, table.Body)
}

func TestInferTableKeepsInteriorGaps(t *testing.T) {
	ws := newSheet(t, map[string]any{"A1": "h", "C1": "j", "A2": "x", "A4": "y"})

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.Equal(t, []string{"h", "", "j"}, table.Header)
	assert.Equal(t, [][]string{
		{"x", "", ""},
		{"", "", ""},
		{"y", "", ""},
	}, table.Body)
}

func TestInferTableSynthesizesLabels(t *testing.T) {
	ws := newSheet(t, map[string]any{
		"B2": "Total", "C2": 5, "D2": true,
		"B3": 1, "C3": 2, "D3": 3,
	})

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.False(t, table.Promoted)
	assert.Equal(t, []string{"Total", "C", "D"}, table.Header)
	assert.Equal(t, [][]string{
		{"Total", "5", "TRUE"},
		{"1", "2", "3"},
	}, table.Body)
}

func TestInferTableMergedTitleAppearsOnce(t *testing.T) {
	ws := newSheet(t, map[string]any{"B1": "Header", "B2": "x", "C2": "y", "D2": "z"})
	require.NoError(t, ws.MergeRange(coord.MustParseRange("B1:D1")))

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.Equal(t, []string{"Header", "", ""}, table.Header)
	assert.Equal(t, [][]string{{"x", "y", "z"}}, table.Body)
}

func TestInferTableMergeExtendsBounds(t *testing.T) {
	ws := newSheet(t, map[string]any{"A1": "k", "A2": "span"})
	require.NoError(t, ws.MergeRange(coord.MustParseRange("A2:C3")))

	table, ok := InferTable(ws, TableOptions{})
	require.True(t, ok)
	assert.Equal(t, "A1:C3", table.Bounds.Label())
	assert.Equal(t, [][]string{
		{"span", "", ""},
		{"", "", ""},
	}, table.Body)
}

func TestInferTableValueMode(t *testing.T) {
	ws := newSheet(t, map[string]any{"A1": "sum"})
	require.NoError(t, ws.SetFormula(coord.MustParse("A2"), "SUM(1,2)", models.Number(3)))

	table, _ := InferTable(ws, TableOptions{ValueMode: models.ValueModeValue})
	assert.Equal(t, [][]string{{"3"}}, table.Body)

	table, _ = InferTable(ws, TableOptions{ValueMode: models.ValueModeFormula})
	assert.Equal(t, [][]string{{"=SUM(1,2)"}}, table.Body)
}

func TestInferTableEmptySheet(t *testing.T) {
	ws := newSheet(t, nil)
	require.NoError(t, ws.SetStyle(coord.MustParseRange("A1:C3"), models.Style{}.WithBold(true)))

	_, ok := InferTable(ws, TableOptions{})
	assert.False(t, ok)
}
