package claims

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a CSV extract lacks a required column.
var ErrMissingColumn = errors.New("csv extract missing column")

// CSVRecordReader streams ClaimRecords from a CSV extract whose first row
// names the columns (same names as the ClaimRecord parquet tags; order and
// extra columns don't matter).
type CSVRecordReader struct {
	file   *os.File
	reader *csv.Reader
	colIdx map[string]int
	rowNum int64
}

// NewCSVRecordReader opens path and reads its header row.
func NewCSVRecordReader(path string) (*CSVRecordReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	sr := &CSVRecordReader{
		file:   file,
		reader: reader,
		colIdx: make(map[string]int),
	}

	headers, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	sr.rowNum++
	for i, h := range headers {
		sr.colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := sr.colIdx["encounter_key"]; !ok {
		file.Close()
		return nil, fmt.Errorf("%w: encounter_key", ErrMissingColumn)
	}

	return sr, nil
}

// Read fills buf with up to len(buf) records. It returns io.EOF once the
// file is exhausted, possibly together with a final partial batch.
func (sr *CSVRecordReader) Read(buf []ClaimRecord) (int, error) {
	n := 0
	for n < len(buf) {
		row, err := sr.reader.Read()
		if err != nil {
			return n, err
		}
		sr.rowNum++

		// Skip empty rows
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}

		rec, err := sr.parseRow(row)
		if err != nil {
			return n, fmt.Errorf("row %d: %w", sr.rowNum, err)
		}
		buf[n] = rec
		n++
	}
	return n, nil
}

func (sr *CSVRecordReader) parseRow(row []string) (ClaimRecord, error) {
	rec := ClaimRecord{
		EncounterKey:      strings.TrimSpace(sr.value(row, "encounter_key")),
		LineNumber:        1,
		Procedure:         sr.optional(row, "procedure"),
		DoctorID:          sr.optional(row, "doctor_id"),
		PatientID:         sr.optional(row, "patient_id"),
		LineDiagnosisCode: sr.optional(row, "line_diagnosis_code"),
		DiagnosisCode1:    sr.optional(row, "diagnosis_code_1"),
		DiagnosisCode2:    sr.optional(row, "diagnosis_code_2"),
		DiagnosisCode3:    sr.optional(row, "diagnosis_code_3"),
		DiagnosisCode4:    sr.optional(row, "diagnosis_code_4"),
	}

	if s := strings.TrimSpace(sr.value(row, "line_number")); s != "" {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return rec, fmt.Errorf("invalid line_number %q: %w", s, err)
		}
		rec.LineNumber = int32(n)
	}
	return rec, nil
}

func (sr *CSVRecordReader) value(row []string, col string) string {
	if idx, ok := sr.colIdx[col]; ok && idx < len(row) {
		return row[idx]
	}
	return ""
}

// optional returns nil for absent or blank cells.
func (sr *CSVRecordReader) optional(row []string, col string) *string {
	v := strings.TrimSpace(sr.value(row, col))
	if v == "" {
		return nil
	}
	return &v
}

// RowNum returns the number of CSV rows consumed, header included.
func (sr *CSVRecordReader) RowNum() int64 {
	return sr.rowNum
}

// Close closes the underlying file
func (sr *CSVRecordReader) Close() error {
	if sr.file != nil {
		return sr.file.Close()
	}
	return nil
}

var _ recordSource = (*CSVRecordReader)(nil)
