package engine

import (
	"sort"

	"agricast/internal/dataset"
)

// RecentPrices derives the latest observed wholesale price per county
// from a recent-window dataset. Records are stable-sorted by date
// ascending and the last record per county wins, so when several records
// share the same latest date the tie-break is deterministic: the one
// appearing last in file order.
func RecentPrices(records []dataset.PriceRecord) map[string]float64 {
	sorted := make([]dataset.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	latest := make(map[string]float64)
	for _, r := range sorted {
		latest[r.County] = r.WholeSale
	}
	return latest
}
