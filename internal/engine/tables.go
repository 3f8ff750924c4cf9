package engine

import "fmt"

// Tables holds the two static adjustment tables. Both are copied at
// construction and read-only afterwards.
//
// The two lookups deliberately have different contracts: an unlisted
// week is a documented neutral default, an unlisted county is an error.
type Tables struct {
	seasonal map[int]float64
	county   map[string]float64
}

// NewTables copies the given maps into a read-only table set.
func NewTables(seasonal map[int]float64, county map[string]float64) *Tables {
	t := &Tables{
		seasonal: make(map[int]float64, len(seasonal)),
		county:   make(map[string]float64, len(county)),
	}
	for week, factor := range seasonal {
		t.seasonal[week] = factor
	}
	for name, factor := range county {
		t.county[name] = factor
	}
	return t
}

// SeasonalFactor returns the multiplier for the given ISO week. Weeks
// outside the documented harvest/lean swing return the neutral 1.0.
func (t *Tables) SeasonalFactor(week int) float64 {
	if factor, ok := t.seasonal[week]; ok {
		return factor
	}
	return 1.0
}

// CountyFactor returns the structural multiplier for a county. Every
// target county must be configured; absence is ErrUnconfiguredCounty.
func (t *Tables) CountyFactor(county string) (float64, error) {
	factor, ok := t.county[county]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnconfiguredCounty, county)
	}
	return factor, nil
}
