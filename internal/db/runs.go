package db

import (
	"time"

	"agricast/internal/engine"
)

// Run triggers: who asked for the forecast batch.
const (
	TriggerDashboard = "DASHBOARD"
	TriggerScheduled = "SCHEDULED"
)

// RunRecord is one recorded forecast batch.
type RunRecord struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	Week        int    `json:"week"`
	TriggerType string `json:"trigger_type"`
	CountyCount int    `json:"county_count"`
}

// InsertRun records a forecast batch and its per-county results, returning
// the run ID (0 on failure — run history is best effort and never blocks
// a forecast response).
func (d *DB) InsertRun(week int, trigger string, results []engine.Result) int64 {
	tx, err := d.sql.Begin()
	if err != nil {
		return 0
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO forecast_runs (timestamp, week, trigger_type, county_count) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), week, trigger, len(results),
	)
	if err != nil {
		return 0
	}
	runID, _ := res.LastInsertId()

	stmt, err := tx.Prepare(
		"INSERT INTO forecast_results (run_id, county, predicted, current_price, change_percent) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0
	}
	defer stmt.Close()
	for _, r := range results {
		stmt.Exec(runID, r.County, r.PredictedPrice, r.CurrentPrice, r.ChangePercent)
	}

	if err := tx.Commit(); err != nil {
		return 0
	}
	return runID
}

// GetRuns returns the last N recorded runs (newest first).
func (d *DB) GetRuns(limit int) []RunRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		"SELECT id, timestamp, week, trigger_type, county_count FROM forecast_runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return []RunRecord{}
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		rows.Scan(&r.ID, &r.Timestamp, &r.Week, &r.TriggerType, &r.CountyCount)
		records = append(records, r)
	}
	if records == nil {
		return []RunRecord{}
	}
	return records
}

// GetRunResults returns the per-county results of one recorded run, in
// insertion (canonical) order.
func (d *DB) GetRunResults(runID int64) []engine.Result {
	rows, err := d.sql.Query(
		"SELECT county, predicted, current_price, change_percent FROM forecast_results WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return []engine.Result{}
	}
	defer rows.Close()

	var results []engine.Result
	for rows.Next() {
		var r engine.Result
		rows.Scan(&r.County, &r.PredictedPrice, &r.CurrentPrice, &r.ChangePercent)
		results = append(results, r)
	}
	if results == nil {
		return []engine.Result{}
	}
	return results
}
