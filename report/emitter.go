// Package report serializes a rate table. CSV is the canonical format;
// Parquet and Excel outputs are selected by file extension.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"violationrate/rate"
)

type Format string

const (
	CSVFormat     Format = "csv"
	ParquetFormat Format = "parquet"
	XLSXFormat    Format = "xlsx"
)

// FormatFor picks the output format from a path's extension, defaulting to CSV.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ParquetFormat
	case ".xlsx":
		return XLSXFormat
	default:
		return CSVFormat
	}
}

// Write serializes t to w in the given format.
func Write(w io.Writer, format Format, t *rate.Table) error {
	switch format {
	case ParquetFormat:
		return WriteParquet(w, t)
	case XLSXFormat:
		return WriteXLSX(w, t)
	case CSVFormat:
		return WriteCSV(w, t)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile creates (or truncates) path and writes t in the format implied
// by its extension.
func WriteFile(path string, t *rate.Table) (Format, error) {
	format := FormatFor(path)

	f, err := os.Create(path)
	if err != nil {
		return format, fmt.Errorf("create report file: %w", err)
	}
	if err := Write(f, format, t); err != nil {
		f.Close()
		return format, err
	}
	if err := f.Close(); err != nil {
		return format, fmt.Errorf("close report file: %w", err)
	}
	return format, nil
}
