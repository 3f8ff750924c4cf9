// Package export renders forecast output as CSV, matching the reference
// column layout byte for byte: prices always carry exactly two fraction
// digits.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"agricast/internal/engine"
)

// ResultsHeader is the column layout of a forecast batch export.
var ResultsHeader = []string{"County", "Predicted_Wholesale_Price_KES", "Current_Price", "Change_%"}

// WriteResults writes a forecast batch as CSV with a header row, one row
// per county, preserving the batch order.
func WriteResults(w io.Writer, results []engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.County,
			fmt.Sprintf("%.2f", r.PredictedPrice),
			fmt.Sprintf("%.2f", r.CurrentPrice),
			fmt.Sprintf("%.2f", r.ChangePercent),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", r.County, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSubmission writes filled template slots as the submission CSV, in
// template order.
func WriteSubmission(w io.Writer, rows []engine.SubmissionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Predicted_Wholesale_Price_KES"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ID, fmt.Sprintf("%.2f", r.PredictedPrice)}); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for a weekly forecast export.
func Filename(week int) string {
	return fmt.Sprintf("maize_price_forecast_week_%d.csv", week)
}
