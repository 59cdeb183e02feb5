// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Jelly is a multi-role online magazine server. It exposes a JSON API for the
// decoupled React front-end: public browsing of published articles, authoring
// and publishing for the editorial roles, and user and site-copy management
// for the owner.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/jellymag/jelly/internal/config"
	"github.com/jellymag/jelly/internal/content"
	"github.com/jellymag/jelly/internal/handler/api"
	"github.com/jellymag/jelly/internal/logging"
	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/scheduler"
	"github.com/jellymag/jelly/internal/session"
	"github.com/jellymag/jelly/internal/store"
	"github.com/jellymag/jelly/internal/store/memory"
	"github.com/jellymag/jelly/internal/store/sqlite"
	"github.com/jellymag/jelly/internal/version"
)

// Build-time version information, injected via ldflags:
//
//	go build -ldflags "-X main.appVersion=v1.0.0 -X main.appGitCommit=$(git rev-parse --short HEAD) -X main.appBuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	appVersion   = "dev"
	appGitCommit = ""
	appBuildTime = ""
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Jelly - online magazine server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_STORAGE               Storage backend: sqlite|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_DB_PATH               SQLite database path (default: ./data/jelly.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_MASTER_CODE           Master code granting the owner role at signup (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_CORS_ORIGINS          Allowed CORS origins, comma-separated (default: http://localhost:5173)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_DO_SEED               Seed demo users and articles on startup (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JELLY_EVENT_RETENTION_DAYS  Event log retention in days, 0 disables pruning (default: 90)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("jelly %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting jelly", "version", versionInfo.String(), "env", cfg.Env)

	// Initialize storage
	var (
		st store.Store
		db *sql.DB // nil in memory mode
	)
	if cfg.UseMemoryStorage() {
		slog.Info("using in-memory storage; data is lost on shutdown")
		st = memory.New()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		slog.Info("initializing database", "path", cfg.DBPath)
		db, err = sqlite.NewDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("error closing database connection", "error", err)
			}
		}()

		slog.Info("running database migrations")
		if err := sqlite.Migrate(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready")

		st = sqlite.New(db)
	}

	// Upgrade logger to also mirror WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed default site copy, and demo data when enabled
	ctx := context.Background()
	if err := st.SeedContentDefaults(ctx, content.Defaults()); err != nil {
		return fmt.Errorf("seeding site content: %w", err)
	}
	if cfg.DoSeed {
		if err := store.SeedDemo(ctx, st); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// Sessions persist in SQLite when that backend is active
	sessionManager := session.NewMemory(cfg.IsDevelopment())
	if db != nil {
		sessionManager = session.New(db, cfg.IsDevelopment())
	}

	// Login protection: per-IP rate limiting plus per-account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	apiRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	apiHandler := api.NewHandler(st, sessionManager, loginProtection, cfg.MasterCode, versionInfo.String())

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.CORSOrigins, cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionManager, st))
	r.Use(apiRateLimiter.Middleware())

	r.Mount("/api", apiHandler.Routes())
	slog.Info("API mounted at /api")

	// Health at the root for uptime monitors and orchestrators
	r.Get("/health", apiHandler.Health)
	r.Get("/health/live", apiHandler.Liveness)
	r.Get("/health/ready", apiHandler.Readiness)

	// Event log pruning
	sched := scheduler.New(st, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
