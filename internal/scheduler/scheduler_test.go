package scheduler

import (
	"errors"
	"testing"
	"time"

	"agricast/internal/engine"
)

type fakeSource struct {
	week    int
	results []engine.Result
	err     error
}

func (f *fakeSource) Forecast(week int) ([]engine.Result, error) {
	f.week = week
	return f.results, f.err
}

type fakeRecorder struct {
	week    int
	trigger string
	count   int
	calls   int
}

func (f *fakeRecorder) InsertRun(week int, trigger string, results []engine.Result) int64 {
	f.calls++
	f.week = week
	f.trigger = trigger
	f.count = len(results)
	return int64(f.calls)
}

func TestNextWeek(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-12-09", 51}, // ISO week 50
		{"2024-12-23", 1},  // ISO week 52 wraps
		{"2025-01-06", 3},  // ISO week 2
	}
	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := NextWeek(d); got != tt.want {
			t.Errorf("NextWeek(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestRunSnapshotNow_RecordsBatch(t *testing.T) {
	src := &fakeSource{results: []engine.Result{{County: "Kiambu", PredictedPrice: 4400}}}
	rec := &fakeRecorder{}
	s := New(src, rec)
	s.now = func() time.Time { return time.Date(2024, 12, 9, 8, 0, 0, 0, time.UTC) }

	s.RunSnapshotNow()

	if src.week != 51 {
		t.Errorf("forecast week = %d, want 51", src.week)
	}
	if rec.calls != 1 || rec.week != 51 || rec.trigger != "SCHEDULED" || rec.count != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestRunSnapshotNow_SkipsRecordOnForecastError(t *testing.T) {
	src := &fakeSource{err: errors.New("datasets still loading")}
	rec := &fakeRecorder{}
	s := New(src, rec)

	s.RunSnapshotNow()

	if rec.calls != 0 {
		t.Errorf("recorder called %d times, want 0 on forecast failure", rec.calls)
	}
}

func TestRegister_BadSpec(t *testing.T) {
	s := New(&fakeSource{}, &fakeRecorder{})
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if err := s.Register("0 8 * * 1"); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
