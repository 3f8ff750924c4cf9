package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"agricast/internal/config"
	"agricast/internal/dataset"
	"agricast/internal/db"
	"agricast/internal/engine"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Server is the HTTP server that connects the dataset store, the
// forecast engine, and the run-history database.
type Server struct {
	cfg     *config.Config
	store   *dataset.Store
	db      *db.DB
	version string

	mu         sync.RWMutex
	bundle     *dataset.Bundle
	forecaster *engine.Forecaster
	ready      bool
}

// NewServer creates a Server. The server is not ready until SetData is
// called with a loaded bundle.
func NewServer(cfg *config.Config, store *dataset.Store, database *db.DB, version string) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		db:      database,
		version: version,
	}
}

// SetData is called when a dataset bundle finishes loading (at startup
// and after each reload). It rebuilds the forecast engine against the
// new bundle.
func (s *Server) SetData(b *dataset.Bundle) error {
	tables := engine.NewTables(s.cfg.Seasonal, s.cfg.CountyFactors)
	f, err := engine.NewForecaster(s.cfg.Counties, b.History, b.Recent, tables)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = b
	s.forecaster = f
	s.ready = true
	return nil
}

// snapshot returns the current bundle and forecaster, or ok=false before
// the first SetData.
func (s *Server) snapshot() (*dataset.Bundle, *engine.Forecaster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle, s.forecaster, s.ready
}

// Forecast runs a batch against the current engine: the programmatic
// equivalent of POST /api/forecast, used by the snapshot scheduler.
func (s *Server) Forecast(week int) ([]engine.Result, error) {
	_, forecaster, ready := s.snapshot()
	if !ready {
		return nil, errors.New("datasets still loading")
	}
	return forecaster.Forecast(week)
}

// Handler returns the HTTP handler with all API routes, the dashboard
// page, and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("GET /api/prices/current", s.handleCurrentPrices)
	mux.HandleFunc("POST /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/forecast/export", s.handleExport)
	mux.HandleFunc("GET /api/forecast/submission", s.handleSubmission)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/{id}/results", s.handleHistoryResults)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dashboardHTML)
}
