package claims

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestCSVRecordReader(t *testing.T) {
	path := writeCSV(t, "\xEF\xBB\xBFDoctor_ID, encounter_key ,procedure,line_number,diagnosis_code_2,extra\n"+
		"D1,E1,45378,3,211.3,x\n"+
		"\n"+
		"D2,E2,,,,\n")

	r, err := NewCSVRecordReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]ClaimRecord, 10)
	n, err := r.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	first := buf[0]
	assert.Equal(t, "E1", first.EncounterKey)
	assert.Equal(t, int32(3), first.LineNumber)
	require.NotNil(t, first.DoctorID)
	assert.Equal(t, "D1", *first.DoctorID)
	require.NotNil(t, first.DiagnosisCode2)
	assert.Equal(t, "211.3", *first.DiagnosisCode2)
	assert.Nil(t, first.PatientID)
	assert.Nil(t, first.DiagnosisCode1)

	second := buf[1]
	assert.Equal(t, "E2", second.EncounterKey)
	assert.Equal(t, int32(1), second.LineNumber)
	assert.Nil(t, second.Procedure)

	assert.Equal(t, int64(3), r.RowNum())
}

func TestCSVRecordReaderBatches(t *testing.T) {
	path := writeCSV(t, "encounter_key\nE1\nE2\nE3\n")

	r, err := NewCSVRecordReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]ClaimRecord, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, n)
	assert.Equal(t, "E3", buf[0].EncounterKey)
}

func TestCSVRecordReaderErrors(t *testing.T) {
	_, err := NewCSVRecordReader(writeCSV(t, "procedure,doctor_id\n45378,D1\n"))
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = NewCSVRecordReader(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	r, err := NewCSVRecordReader(writeCSV(t, "encounter_key,line_number\nE1,first\n"))
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Read(make([]ClaimRecord, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
