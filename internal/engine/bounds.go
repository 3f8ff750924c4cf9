package engine

import "agricast/internal/dataset"

// Tolerance expansion applied to the historical extremes. The bounds
// guard against runaway extrapolation when a seasonal and county
// multiplier stack on a base price, especially for weeks with no
// historical precedent.
const (
	lowerTolerance = 0.9
	upperTolerance = 1.1
)

// Bounds is the admissible price interval for one county.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ComputeBounds derives per-county bounds from the full historical
// series: historical min × 0.9 to historical max × 1.1. Counties with no
// history simply have no entry; the forecast step reports that as
// ErrInsufficientHistory.
func ComputeBounds(records []dataset.PriceRecord) map[string]Bounds {
	type extremes struct {
		min, max float64
	}
	byCounty := make(map[string]extremes)
	for _, r := range records {
		e, ok := byCounty[r.County]
		if !ok {
			byCounty[r.County] = extremes{min: r.WholeSale, max: r.WholeSale}
			continue
		}
		if r.WholeSale < e.min {
			e.min = r.WholeSale
		}
		if r.WholeSale > e.max {
			e.max = r.WholeSale
		}
		byCounty[r.County] = e
	}

	bounds := make(map[string]Bounds, len(byCounty))
	for county, e := range byCounty {
		bounds[county] = Bounds{
			Lower: e.min * lowerTolerance,
			Upper: e.max * upperTolerance,
		}
	}
	return bounds
}
