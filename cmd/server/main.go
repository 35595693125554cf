package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iammorganparry/taskplanner/internal/analyzer"
	"github.com/iammorganparry/taskplanner/internal/api"
	"github.com/iammorganparry/taskplanner/internal/auth"
	"github.com/iammorganparry/taskplanner/internal/config"
	"github.com/iammorganparry/taskplanner/internal/store"
	"github.com/iammorganparry/taskplanner/internal/tasks"
)

func main() {
	// Logger
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// SQLite
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Stores
	snapshotStore := store.NewSnapshotStore(db)
	userStore := store.NewUserStore(db)
	tokenStore := store.NewTokenStore(db)

	// Services
	authSvc := auth.NewService(userStore, tokenStore, time.Duration(cfg.TokenTTLHours)*time.Hour, logger)
	taskSvc := tasks.NewService(snapshotStore, cfg.SnapshotSlot, logger)
	if report := taskSvc.CycleReport(); report.HasCycle {
		logger.Warn("loaded task snapshot contains circular dependencies", "tasks", report.CycleTitles)
	}

	// Analyzer: the scoring engine served under /api/tasks, and the
	// client the dashboard uses to reach it over HTTP.
	engine := analyzer.NewEngine(analyzer.Weights{
		Urgency:    cfg.WeightUrgency,
		Importance: cfg.WeightImportance,
		Effort:     cfg.WeightEffort,
		Dependency: cfg.WeightDependency,
	})
	client := analyzer.NewClient(cfg.AnalyzerBaseURL)

	// Router
	router := api.NewRouter(db, taskSvc, authSvc, client, engine, cfg.CanvasWidth, cfg.CanvasHeight, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("task planner server starting", "addr", addr, "tasks", taskSvc.Count())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
