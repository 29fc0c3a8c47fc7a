package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"violationrate/rate"
)

// SheetName is the worksheet the xlsx report is written to.
const SheetName = "ViolationRate"

// WriteXLSX writes the table to a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, t *rate.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Doctor, r.Numerator, r.Denominator, r.ViolationRate}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row for %s: %w", r.Doctor, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
