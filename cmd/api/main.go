// Package main is the entry point for the roadscan API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/roadscan/internal/config"
	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/fixtures"
	"github.com/pkordes/roadscan/internal/handler"
	"github.com/pkordes/roadscan/internal/middleware"
	"github.com/pkordes/roadscan/internal/notify"
	"github.com/pkordes/roadscan/internal/observability"
	"github.com/pkordes/roadscan/internal/repo"
	"github.com/pkordes/roadscan/internal/service"
	"github.com/pkordes/roadscan/internal/storage"
	"github.com/pkordes/roadscan/migrations"
)

// multipartOverhead is the allowance for form fields and part headers on
// top of the largest file an upload may carry.
const multipartOverhead = 1 << 20

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logLevel, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Store ------------------------------------------------------------
	distressRepo, noteRepo, ready, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Services ---------------------------------------------------------
	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	feed := notify.NewFeed(notify.DefaultCapacity, clock, logger)

	files, err := storage.NewFileManager(cfg.DataDir, map[domain.UploadKind]int64{
		domain.UploadData:  cfg.MaxDataUploadBytes,
		domain.UploadVideo: cfg.MaxVideoUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("open data dir: %w", err)
	}

	distresses := service.NewDistressService(distressRepo)
	summary := service.NewSummaryService(distressRepo, cfg.SummaryCacheTTL, clock, metrics)
	distresses.OnChange(summary.Invalidate)
	notes := service.NewNoteService(noteRepo, feed, clock, metrics)
	uploads := service.NewUploadService(files, distresses, feed, clock, metrics, logger)

	srv := handler.NewServer(handler.Deps{
		Distresses:    distresses,
		Notes:         notes,
		Summary:       summary,
		Uploads:       uploads,
		Notifications: feed,
		Ready:         ready,
		Log:           logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS. The recorder sits outside Recoverer so a panic is
	// still counted as the 500 it becomes.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsRecorder(metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())
	srv.Routes(r, max(cfg.MaxDataUploadBytes, cfg.MaxVideoUploadBytes)+multipartOverhead)

	// --- HTTP Server ------------------------------------------------------
	// Uploads stream for as long as the transfer takes, so there is no
	// whole-request read or write deadline; ReadHeaderTimeout still bounds
	// slow clients before a handler runs.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-stop:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	// Cancel running uploads first so their handlers return and the HTTP
	// server can drain.
	if err := uploads.Shutdown(shutdownCtx); err != nil {
		logger.Warn("uploads did not stop in time", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openStore returns Postgres repos when DATABASE_URL is set, applying
// migrations first, and the seeded in-memory repos otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.DistressRepo, repo.NoteRepo, handler.ReadinessFunc, func(), error) {
	if cfg.DatabaseURL == "" {
		distresses, notes := repo.NewMemoryDistressRepo(), repo.NewMemoryNoteRepo()
		if err := repo.Seed(ctx, distresses, notes, fixtures.Distresses(), fixtures.Notes()); err != nil {
			return nil, nil, nil, nil, err
		}
		logger.Info("using in-memory store with sample survey")
		return distresses, notes, nil, func() {}, nil
	}

	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create database pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	db := stdlib.OpenDBFromPool(pool)
	err = migrations.Up(ctx, db, logger)
	_ = db.Close()
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, err
	}

	return repo.NewDistressRepo(pool), repo.NewNoteRepo(pool), pool.Ping, pool.Close, nil
}
