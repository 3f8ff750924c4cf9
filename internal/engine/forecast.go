package engine

import (
	"fmt"
	"math"

	"agricast/internal/dataset"
)

// Result is one county's forecast for a requested week.
type Result struct {
	County         string  `json:"county"`
	PredictedPrice float64 `json:"predicted_price"`
	CurrentPrice   float64 `json:"current_price"`
	ChangePercent  float64 `json:"change_percent"`
}

// SubmissionRow is one filled slot of the submission template.
type SubmissionRow struct {
	ID             string  `json:"id"`
	PredictedPrice float64 `json:"predicted_price"`
}

// Forecaster is the deterministic forecast engine. All inputs are fixed
// at construction and never mutated, so concurrent Forecast calls need no
// locking. Identical inputs always produce bit-identical output: there is
// no randomness and no fitted state anywhere in the computation.
type Forecaster struct {
	counties []string
	recent   map[string]float64
	bounds   map[string]Bounds
	tables   *Tables
}

// NewForecaster builds a Forecaster from the loaded datasets and
// adjustment tables. The county-factor table is checked here so that a
// misconfigured county fails at startup rather than on the first request.
func NewForecaster(counties []string, history, recent []dataset.PriceRecord, tables *Tables) (*Forecaster, error) {
	for _, county := range counties {
		if _, err := tables.CountyFactor(county); err != nil {
			return nil, err
		}
	}
	ordered := make([]string, len(counties))
	copy(ordered, counties)
	return &Forecaster{
		counties: ordered,
		recent:   RecentPrices(recent),
		bounds:   ComputeBounds(history),
		tables:   tables,
	}, nil
}

// ForecastOne predicts one county's wholesale price for the given week:
//
//	predicted = clamp(base × seasonal × countyFactor, lower, upper)
//
// rounded to 2 decimals, half away from zero.
func (f *Forecaster) ForecastOne(county string, week int) (Result, error) {
	base, ok := f.recent[county]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingRecentPrice, county)
	}
	bounds, ok := f.bounds[county]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrInsufficientHistory, county)
	}
	countyFactor, err := f.tables.CountyFactor(county)
	if err != nil {
		return Result{}, err
	}
	seasonal := f.tables.SeasonalFactor(week)

	raw := base * seasonal * countyFactor
	predicted := round2(clamp(raw, bounds.Lower, bounds.Upper))

	return Result{
		County:         county,
		PredictedPrice: predicted,
		CurrentPrice:   base,
		ChangePercent:  round2((predicted - base) / base * 100),
	}, nil
}

// Forecast runs the engine for every target county, in the canonical
// county order, for one requested week. The batch is all-or-nothing: the
// first failure aborts it and the error names the offending county.
func (f *Forecaster) Forecast(week int) ([]Result, error) {
	results := make([]Result, 0, len(f.counties))
	for _, county := range f.counties {
		r, err := f.ForecastOne(county, week)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// ForecastTemplate fills every (county, week) slot of the submission
// template, in template order.
func (f *Forecaster) ForecastTemplate(pairs []dataset.TemplatePair) ([]SubmissionRow, error) {
	rows := make([]SubmissionRow, 0, len(pairs))
	for _, p := range pairs {
		r, err := f.ForecastOne(p.County, p.Week)
		if err != nil {
			return nil, fmt.Errorf("template slot %s: %w", p.ID, err)
		}
		rows = append(rows, SubmissionRow{ID: p.ID, PredictedPrice: r.PredictedPrice})
	}
	return rows, nil
}

// Counties returns the canonical target county order.
func (f *Forecaster) Counties() []string {
	out := make([]string, len(f.counties))
	copy(out, f.counties)
	return out
}

// CurrentPrices returns a copy of the recent price table.
func (f *Forecaster) CurrentPrices() map[string]float64 {
	out := make(map[string]float64, len(f.recent))
	for county, price := range f.recent {
		out[county] = price
	}
	return out
}

// BoundsFor returns the admissible interval for a county.
func (f *Forecaster) BoundsFor(county string) (Bounds, bool) {
	b, ok := f.bounds[county]
	return b, ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds to 2 decimals, half away from zero. The mode is fixed:
// it decides exact boundary values like 0.005 and must not drift between
// builds.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
