package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"agricast/internal/api"
	"agricast/internal/config"
	"agricast/internal/dataset"
	"agricast/internal/db"
	"agricast/internal/logger"
	"agricast/internal/report"
	"agricast/internal/scheduler"
)

var version = "dev"

func main() {
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	reportOnly := flag.Bool("report", false, "print a dataset summary and exit")
	flag.Parse()

	// .env is optional; real env vars win either way.
	godotenv.Load()

	logger.Banner(version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("CONFIG", fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("CONFIG", fmt.Sprintf("Invalid config: %v", err))
		os.Exit(1)
	}

	store := dataset.NewStore(cfg.Data.HistoryFile, cfg.Data.RecentFile, cfg.Data.TemplateFile, cfg.Counties)

	if *reportOnly {
		bundle, err := store.Load(context.Background())
		if err != nil {
			logger.Error("DATA", fmt.Sprintf("Load failed: %v", err))
			os.Exit(1)
		}
		report.Build(bundle, cfg.Counties).Print()
		return
	}

	os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755)

	database, err := db.Open(cfg.Database.SQLitePath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	srv := api.NewServer(cfg, store, database, version)

	// Load datasets in background so the server can answer /api/status
	// immediately.
	go func() {
		bundle, err := store.Load(context.Background())
		if err != nil {
			logger.Error("DATA", fmt.Sprintf("Load failed: %v", err))
			return
		}
		if err := srv.SetData(bundle); err != nil {
			logger.Error("DATA", fmt.Sprintf("Engine init failed: %v", err))
			return
		}
		logger.Success("DATA", fmt.Sprintf("Forecaster ready (%d history rows)", len(bundle.History)))
	}()

	var sched *scheduler.Scheduler
	if cfg.Schedule.SnapshotCron != "" {
		sched = scheduler.New(srv, database)
		if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
			logger.Error("CRON", fmt.Sprintf("Failed to register snapshot task: %v", err))
			os.Exit(1)
		}
		sched.Start()
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		logger.Server(addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server", fmt.Sprintf("Failed: %v", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Server", "Shutting down")
	if sched != nil {
		sched.Stop()
	}
	httpServer.Shutdown(context.Background())
}
