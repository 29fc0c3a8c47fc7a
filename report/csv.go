package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"violationrate/rate"
)

// Header is the column order shared by every output format.
var Header = []string{"Doctor", "Numerator", "Denominator", "ViolationRate"}

// WriteCSV writes the table as comma-separated text with a header row.
func WriteCSV(w io.Writer, t *rate.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range t.Rows {
		record := []string{
			r.Doctor,
			strconv.Itoa(r.Numerator),
			strconv.Itoa(r.Denominator),
			FormatRate(r.ViolationRate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.Doctor, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRate renders a rate in its shortest exact decimal form, keeping a
// trailing ".0" on whole numbers so the column always reads as a float
// (0.0, 1.0, 0.25).
func FormatRate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
