package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

func TestToCSV(t *testing.T) {
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "name"))
	require.NoError(t, ws.SetValue("B1", "note"))
	require.NoError(t, ws.SetValue("A2", "a,b"))
	require.NoError(t, ws.SetValue("B2", "line1\nline2"))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("A4"), "https://x.com/a", "Lenovo"))
	require.NoError(t, ws.SetFormula(coord.MustParse("B4"), "1/4", models.Number(0.25)))

	out, err := ToCSV(wb, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "name,note\n\"a,b\",\"line1\nline2\"\n,\nLenovo,0.25\n", string(out))

	out, err = ToCSV(wb, CSVOptions{Delimiter: ';', ValueMode: models.ValueModeFormula})
	require.NoError(t, err)
	assert.Equal(t, "name;note\na,b;\"line1\nline2\"\n;\nLenovo;=1/4\n", string(out))
}

func TestToCSVDropsBareLinkURL(t *testing.T) {
	wb := models.NewWorkbook()
	ws := wb.Active()
	require.NoError(t, ws.SetValue("A1", "name"))
	require.NoError(t, ws.SetHyperlink(coord.MustParse("B1"), "https://x.com/a", ""))

	out, err := ToCSV(wb, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "name,\n", string(out))
}

func TestToCSVSelectsSheet(t *testing.T) {
	wb := models.NewWorkbook()
	other, err := wb.AddSheet("Other")
	require.NoError(t, err)
	require.NoError(t, other.SetValue("A1", true))
	require.NoError(t, wb.Active().SetValue("A1", 1.5))

	out, err := ToCSV(wb, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.5\n", string(out), "defaults to the active sheet")

	out, err = ToCSV(wb, CSVOptions{SheetName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "TRUE\n", string(out))

	_, err = ToCSV(wb, CSVOptions{SheetName: "Missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToCSVEncoding(t *testing.T) {
	wb := models.NewWorkbook()
	require.NoError(t, wb.Active().SetValue("A1", "café"))

	out, err := ToCSV(wb, CSVOptions{Encoding: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9, '\n'}, out)

	_, err = ToCSV(wb, CSVOptions{Encoding: "no-such-charset"})
	assert.Error(t, err)
}

func TestToCSVRejectsBadOptions(t *testing.T) {
	wb := models.NewWorkbook()
	_, err := ToCSV(wb, CSVOptions{Delimiter: '"'})
	assert.Error(t, err)
	_, err = ToCSV(wb, CSVOptions{Delimiter: '\n'})
	assert.Error(t, err)
	_, err = ToCSV(wb, CSVOptions{ValueMode: "raw"})
	assert.Error(t, err)
}

func TestToCSVEmptySheet(t *testing.T) {
	out, err := ToCSV(models.NewWorkbook(), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
