// Package scheduler records periodic forecast snapshots to the run
// history, so price expectations for the upcoming week accumulate over
// time without anyone clicking the dashboard.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"agricast/internal/db"
	"agricast/internal/engine"
	"agricast/internal/logger"
)

// ForecastSource produces a forecast batch for a week. *api.Server
// implements it.
type ForecastSource interface {
	Forecast(week int) ([]engine.Result, error)
}

// RunRecorder persists a forecast batch. *db.DB implements it.
type RunRecorder interface {
	InsertRun(week int, trigger string, results []engine.Result) int64
}

// Scheduler manages the cron-driven snapshot job.
type Scheduler struct {
	cron     *cron.Cron
	source   ForecastSource
	recorder RunRecorder
	now      func() time.Time
}

// New creates a Scheduler around a forecast source and a run recorder.
func New(source ForecastSource, recorder RunRecorder) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		source:   source,
		recorder: recorder,
		now:      time.Now,
	}
}

// Register adds the snapshot job under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("CRON", "snapshot scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info("CRON", "snapshot scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (manual trigger).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

// NextWeek returns the upcoming ISO week for a given time, wrapping the
// year end back to week 1.
func NextWeek(t time.Time) int {
	_, week := t.ISOWeek()
	week++
	if week > 52 {
		week = 1
	}
	return week
}

func (s *Scheduler) snapshotTask() {
	week := NextWeek(s.now())
	results, err := s.source.Forecast(week)
	if err != nil {
		logger.Error("CRON", fmt.Sprintf("snapshot forecast week %d: %v", week, err))
		return
	}
	if id := s.recorder.InsertRun(week, db.TriggerScheduled, results); id == 0 {
		logger.Warn("CRON", fmt.Sprintf("snapshot week %d not recorded", week))
		return
	}
	logger.Success("CRON", fmt.Sprintf("recorded snapshot for week %d (%d counties)", week, len(results)))
}
