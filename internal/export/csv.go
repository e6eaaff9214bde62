package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"pointr/internal/points"
)

func ToCSV(rep points.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Task", "Reference", "Coefficient", "Quantity", "Points"}); err != nil {
		return err
	}

	for _, r := range rep.Rows {
		row := []string{
			r.Date,
			r.Label,
			r.Reference,
			formatNumber(r.Coefficient),
			formatNumber(r.Quantity),
			formatNumber(r.Points),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// Trailing total row
	if err := w.Write([]string{"", "Total", "", "", "", formatNumber(rep.Total)}); err != nil {
		return err
	}

	return w.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
