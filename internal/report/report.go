// Package report builds the exploratory dataset summary: coverage,
// per-county price statistics, and target counties missing from the
// sources. It is display plumbing around the loaded datasets and does
// not participate in forecasting.
package report

import (
	"fmt"
	"time"

	"agricast/internal/dataset"
	"agricast/internal/engine"
	"agricast/internal/logger"
)

// CountyStats summarizes one county's historical prices.
type CountyStats struct {
	County string  `json:"county"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Latest float64 `json:"latest"` // most recent price from the recent window, 0 if absent
}

// Summary is the exploratory overview of a loaded dataset bundle.
type Summary struct {
	HistoryRows     int           `json:"history_rows"`
	RecentRows      int           `json:"recent_rows"`
	TemplateSlots   int           `json:"template_slots"`
	FirstDate       string        `json:"first_date"`
	LastDate        string        `json:"last_date"`
	Counties        []CountyStats `json:"counties"`
	MissingCounties []string      `json:"missing_counties"`
	LoadedAt        time.Time     `json:"loaded_at"`
}

// Build computes the summary for the given bundle, with per-county rows
// in canonical target order.
func Build(b *dataset.Bundle, counties []string) *Summary {
	s := &Summary{
		HistoryRows:   len(b.History),
		RecentRows:    len(b.Recent),
		TemplateSlots: len(b.Template),
		LoadedAt:      b.LoadedAt,
	}

	type agg struct {
		count    int
		sum      float64
		min, max float64
	}
	byCounty := make(map[string]*agg)
	var first, last time.Time
	for _, r := range b.History {
		if first.IsZero() || r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
		a, ok := byCounty[r.County]
		if !ok {
			byCounty[r.County] = &agg{count: 1, sum: r.WholeSale, min: r.WholeSale, max: r.WholeSale}
			continue
		}
		a.count++
		a.sum += r.WholeSale
		if r.WholeSale < a.min {
			a.min = r.WholeSale
		}
		if r.WholeSale > a.max {
			a.max = r.WholeSale
		}
	}
	if !first.IsZero() {
		s.FirstDate = first.Format("2006-01-02")
		s.LastDate = last.Format("2006-01-02")
	}

	latest := engine.RecentPrices(b.Recent)
	for _, county := range counties {
		a, ok := byCounty[county]
		if !ok {
			s.MissingCounties = append(s.MissingCounties, county)
			continue
		}
		s.Counties = append(s.Counties, CountyStats{
			County: county,
			Count:  a.count,
			Mean:   a.sum / float64(a.count),
			Min:    a.min,
			Max:    a.max,
			Latest: latest[county],
		})
	}
	return s
}

// Print writes the summary to the console in report form.
func (s *Summary) Print() {
	logger.Section("Dataset overview")
	logger.Stats("history rows", s.HistoryRows)
	logger.Stats("recent-window rows", s.RecentRows)
	logger.Stats("template slots", s.TemplateSlots)
	if s.FirstDate != "" {
		logger.Stats("date span", s.FirstDate+" … "+s.LastDate)
	}

	logger.Section("Price statistics by county")
	for _, c := range s.Counties {
		logger.Stats(c.County, fmt.Sprintf("n=%d mean=%.2f min=%.2f max=%.2f latest=%.2f",
			c.Count, c.Mean, c.Min, c.Max, c.Latest))
	}
	for _, county := range s.MissingCounties {
		logger.Warn("EDA", county+" has no historical records")
	}
}
