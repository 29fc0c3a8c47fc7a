package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"violationrate/rate"
)

func sampleTable() *rate.Table {
	return &rate.Table{Rows: []rate.PhysicianRate{
		{Doctor: "D2", Numerator: 1, Denominator: 1, ViolationRate: 1, Flagged: true},
		{Doctor: "D7", Numerator: 1, Denominator: 3, ViolationRate: 1.0 / 3, Flagged: true},
		{Doctor: "D1", Numerator: 0, Denominator: 4, ViolationRate: 0},
	}}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	want := "Doctor,Numerator,Denominator,ViolationRate\n" +
		"D2,1,1,1.0\n" +
		"D7,1,3,0.3333333333333333\n" +
		"D1,0,4,0.0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &rate.Table{}))
	assert.Equal(t, "Doctor,Numerator,Denominator,ViolationRate\n", buf.String())
}

func TestWriteCSVQuotesDoctorIDs(t *testing.T) {
	var buf bytes.Buffer
	table := &rate.Table{Rows: []rate.PhysicianRate{{Doctor: "Smith, J", Denominator: 1}}}
	require.NoError(t, WriteCSV(&buf, table))
	assert.Contains(t, buf.String(), `"Smith, J",0,1,0.0`)
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{0.25, "0.25"},
		{2, "2.0"},
		{1.0 / 3, "0.3333333333333333"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRate(tt.in))
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, CSVFormat, FormatFor("out.csv"))
	assert.Equal(t, CSVFormat, FormatFor("out.txt"))
	assert.Equal(t, CSVFormat, FormatFor("out"))
	assert.Equal(t, ParquetFormat, FormatFor("out.PARQUET"))
	assert.Equal(t, XLSXFormat, FormatFor("/tmp/rates.xlsx"))
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, sampleTable()))

	rows, err := parquet.Read[ParquetRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ParquetRow{Doctor: "D2", Numerator: 1, Denominator: 1, ViolationRate: 1}, rows[0])
	assert.Equal(t, "D1", rows[2].Doctor)
	assert.Equal(t, int64(4), rows[2].Denominator)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"D2", "1", "1", "1"}, rows[1])
	assert.Equal(t, []string{"D1", "0", "4", "0"}, rows[3])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rates.csv")
	format, err := WriteFile(path, sampleTable())
	require.NoError(t, err)
	assert.Equal(t, CSVFormat, format)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "D2,1,1,1.0\n")

	format, err = WriteFile(filepath.Join(dir, "rates.parquet"), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, ParquetFormat, format)

	_, err = WriteFile(filepath.Join(dir, "missing", "rates.csv"), sampleTable())
	assert.Error(t, err)
}
