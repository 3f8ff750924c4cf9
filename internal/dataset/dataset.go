package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrDataLoad marks a source file that is missing or malformed. The
// datasets are static files, so there is no retry: the wrapped message
// tells the operator which file was expected where.
var ErrDataLoad = errors.New("data load failure")

// PriceRecord is one observed wholesale price for a county.
type PriceRecord struct {
	County    string
	Date      time.Time
	WholeSale float64

	// Derived calendar fields, filled at load time.
	Year  int
	Month int
	Week  int // ISO week number
}

// Required columns of the price datasets. Column order is irrelevant;
// the header row decides.
const (
	colDate      = "Date"
	colCounty    = "County"
	colWholeSale = "WholeSale"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
}

// LoadPrices reads a price CSV and returns records for the target
// counties, in file order. Rows for other counties are dropped, matching
// the reference pipeline's county filter.
func LoadPrices(path string, targets []string) ([]PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s (expected a CSV with columns Date, County, WholeSale): %v",
			ErrDataLoad, path, err)
	}
	defer f.Close()

	target := make(map[string]bool, len(targets))
	for _, c := range targets {
		target[c] = true
	}

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no header row: %v", ErrDataLoad, path, err)
	}
	idx, err := columnIndex(header, path)
	if err != nil {
		return nil, err
	}

	var records []PriceRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrDataLoad, path, line, err)
		}

		county := strings.TrimSpace(row[idx[colCounty]])
		if !target[county] {
			continue
		}

		date, err := parseDate(row[idx[colDate]])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad Date %q", ErrDataLoad, path, line, row[idx[colDate]])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[idx[colWholeSale]]), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("%w: %s line %d: bad WholeSale %q", ErrDataLoad, path, line, row[idx[colWholeSale]])
		}

		year, week := date.ISOWeek()
		records = append(records, PriceRecord{
			County:    county,
			Date:      date,
			WholeSale: price,
			Year:      year,
			Month:     int(date.Month()),
			Week:      week,
		})
	}
	return records, nil
}

func columnIndex(header []string, path string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colCounty, colWholeSale} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s is missing column %q (header: %v)",
				ErrDataLoad, path, required, header)
		}
	}
	return idx, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
