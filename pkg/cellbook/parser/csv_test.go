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

func TestReadCSV(t *testing.T) {
	wb, err := ReadCSV(strings.NewReader("name,qty,ok\nwidget,3,TRUE\n\"a,b\",,x\n"), CSVOptions{SheetName: "Data"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Data"}, wb.SheetNames())
	ws := wb.Active()
	assert.Equal(t, 2, ws.MaxRow())
	assert.True(t, ws.Get(coord.MustParse("A1")).Value.Equal(models.Text("name")))
	assert.True(t, ws.Get(coord.MustParse("B2")).Value.Equal(models.Number(3)))
	assert.True(t, ws.Get(coord.MustParse("C2")).Value.Equal(models.Bool(true)))
	assert.True(t, ws.Get(coord.MustParse("A3")).Value.Equal(models.Text("a,b")))
	assert.True(t, ws.Get(coord.MustParse("B3")).IsBlank())
}

func TestReadCSVOptions(t *testing.T) {
	wb, err := ReadCSV(strings.NewReader("caf\xe9;1\n"), CSVOptions{Delimiter: ';', Encoding: "windows-1252"})
	require.NoError(t, err)

	ws := wb.Active()
	assert.Equal(t, models.DefaultSheetName, ws.Name())
	assert.True(t, ws.Get(coord.MustParse("A1")).Value.Equal(models.Text("café")))
	assert.True(t, ws.Get(coord.MustParse("B1")).Value.Equal(models.Number(1)))
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a\"b,c\n"), CSVOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a\n"), CSVOptions{SheetName: "bad/name"})
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a\n"), CSVOptions{Encoding: "no-such-charset"})
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	const input = "sku,price,active\nP001,2.5,TRUE\nP002,-10,FALSE\n"
	wb, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	out, err := output.ToCSV(wb, output.CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestParseCSVValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"TRUE", true},
		{"FALSE", false},
		{"true", "true"},
		{"42", 42.0},
		{"-1.5", -1.5},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"1,000", "1,000"},
		{"0x1F", "0x1F"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSVValue(tt.in))
		})
	}
}
