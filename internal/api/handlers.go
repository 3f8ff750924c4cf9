package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"agricast/internal/dataset"
	"agricast/internal/db"
	"agricast/internal/engine"
	"agricast/internal/export"
	"agricast/internal/report"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	bundle, _, ready := s.snapshot()
	status := map[string]interface{}{
		"ready":   ready,
		"version": s.version,
	}
	if ready {
		status["history_rows"] = len(bundle.History)
		status["recent_rows"] = len(bundle.Recent)
		status["template_slots"] = len(bundle.Template)
		status["loaded_at"] = bundle.LoadedAt
	}
	writeJSON(w, status)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"counties":       s.cfg.Counties,
		"seasonal_weeks": s.cfg.SeasonalWeeks(),
		"seasonal":       s.cfg.Seasonal,
		"county_factors": s.cfg.CountyFactors,
	})
}

func (s *Server) handleCurrentPrices(w http.ResponseWriter, r *http.Request) {
	_, forecaster, ready := s.snapshot()
	if !ready {
		writeError(w, http.StatusServiceUnavailable, "datasets still loading")
		return
	}
	writeJSON(w, forecaster.CurrentPrices())
}

// parseWeek validates a requested forecast week. Any week 1-52 is
// accepted: weeks outside the seasonal table use the neutral factor.
func parseWeek(raw string) (int, error) {
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 || week > 52 {
		return 0, errors.New("week must be an integer between 1 and 52")
	}
	return week, nil
}

// runForecast executes a batch for one week against the current engine
// and maps engine failures to HTTP responses. Returns nil results when it
// has already written an error.
func (s *Server) runForecast(w http.ResponseWriter, week int, trigger string) ([]engine.Result, *engine.Forecaster) {
	_, forecaster, ready := s.snapshot()
	if !ready {
		writeError(w, http.StatusServiceUnavailable, "datasets still loading")
		return nil, nil
	}
	results, err := forecaster.Forecast(week)
	if err != nil {
		log.Printf("[API] forecast week %d failed: %v", week, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, nil
	}
	if s.db != nil {
		s.db.InsertRun(week, trigger, results)
	}
	return results, forecaster
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Week json.Number `json:"week"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	week, err := parseWeek(req.Week.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, forecaster := s.runForecast(w, week, db.TriggerDashboard)
	if results == nil {
		return
	}

	bounds := make(map[string]engine.Bounds, len(results))
	for _, res := range results {
		if b, ok := forecaster.BoundsFor(res.County); ok {
			bounds[res.County] = b
		}
	}
	writeJSON(w, map[string]interface{}{
		"week":    week,
		"results": results,
		"bounds":  bounds,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeek(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, _ := s.runForecast(w, week, db.TriggerDashboard)
	if results == nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(week)+`"`)
	if err := export.WriteResults(w, results); err != nil {
		log.Printf("[API] export week %d: %v", week, err)
	}
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	bundle, forecaster, ready := s.snapshot()
	if !ready {
		writeError(w, http.StatusServiceUnavailable, "datasets still loading")
		return
	}
	if bundle.Template == nil {
		writeError(w, http.StatusNotFound, "no submission template loaded (expected "+s.cfg.Data.TemplateFile+")")
		return
	}
	rows, err := forecaster.ForecastTemplate(bundle.Template)
	if err != nil {
		log.Printf("[API] submission export failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="submission.csv"`)
	if err := export.WriteSubmission(w, rows); err != nil {
		log.Printf("[API] submission export: %v", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	bundle, _, ready := s.snapshot()
	if !ready {
		writeError(w, http.StatusServiceUnavailable, "datasets still loading")
		return
	}
	writeJSON(w, report.Build(bundle, s.cfg.Counties))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "run history not available")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, s.db.GetRuns(limit))
}

func (s *Server) handleHistoryResults(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "run history not available")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	writeJSON(w, s.db.GetRunResults(id))
}

// handleReload re-reads the source files and swaps the session cache.
// This is the only way loaded datasets are invalidated.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.store.Reload(r.Context())
	if err != nil {
		log.Printf("[API] reload failed: %v", err)
		code := http.StatusInternalServerError
		if errors.Is(err, dataset.ErrDataLoad) {
			code = http.StatusUnprocessableEntity
		}
		writeError(w, code, err.Error())
		return
	}
	if err := s.SetData(bundle); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("[API] datasets reloaded: %d history rows, %d recent rows", len(bundle.History), len(bundle.Recent))
	writeJSON(w, map[string]interface{}{
		"history_rows": len(bundle.History),
		"recent_rows":  len(bundle.Recent),
		"loaded_at":    bundle.LoadedAt,
	})
}
