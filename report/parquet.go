package report

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"violationrate/rate"
)

// ParquetRow is the Parquet layout of one rate table row. Column names match
// the CSV header.
type ParquetRow struct {
	Doctor        string  `parquet:"Doctor"`
	Numerator     int64   `parquet:"Numerator"`
	Denominator   int64   `parquet:"Denominator"`
	ViolationRate float64 `parquet:"ViolationRate"`
}

// WriteParquet writes the table as a single Zstd-compressed row group.
func WriteParquet(w io.Writer, t *rate.Table) error {
	rows := make([]ParquetRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = ParquetRow{
			Doctor:        r.Doctor,
			Numerator:     int64(r.Numerator),
			Denominator:   int64(r.Denominator),
			ViolationRate: r.ViolationRate,
		}
	}

	writer := parquet.NewGenericWriter[ParquetRow](w,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("violationrate", "1.0", ""),
	)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
