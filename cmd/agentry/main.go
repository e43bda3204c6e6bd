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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	aghttp "github.com/agentry-dev/agentry/internal/adapter/http"
	agnats "github.com/agentry-dev/agentry/internal/adapter/nats"
	"github.com/agentry-dev/agentry/internal/adapter/otel"
	"github.com/agentry-dev/agentry/internal/adapter/postgres"
	"github.com/agentry-dev/agentry/internal/adapter/ristretto"
	"github.com/agentry-dev/agentry/internal/adapter/ws"
	"github.com/agentry-dev/agentry/internal/agents"
	"github.com/agentry-dev/agentry/internal/config"
	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/logger"
	"github.com/agentry-dev/agentry/internal/middleware"
	"github.com/agentry-dev/agentry/internal/service"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "admin":
			if err := runAdmin(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "demo":
			if err := runDemo(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	log.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"auth_enabled", cfg.Auth.Enabled,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	queue, err := agnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()
	log.Info("nats connected")

	cache, err := ristretto.New(cfg.Cache.MaxCostBytes)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	promHandler, metricsShutdown, err := otel.Setup()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer func() { _ = metricsShutdown() }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)

	registry := core.NewRegistry()
	agents.RegisterAll(registry)

	authSvc := service.NewAuthService(store, &cfg.Auth)
	eco := service.NewEcosystemService(registry, log,
		service.WithStore(store),
		service.WithQueue(queue),
		service.WithBroadcaster(hub),
		service.WithCache(cache, cfg.Cache.HealthTTL),
		service.WithMetrics(metrics),
		service.WithMetricCapacity(cfg.Agents.MetricCapacity),
	)

	// --- HTTP ---

	handlers := aghttp.NewHandlers(eco, authSvc)

	r := chi.NewRouter()

	r.Use(aghttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chimw.RequestID)
	r.Use(aghttp.Logger)
	r.Use(aghttp.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Auth(authSvc, cfg.Auth.Enabled))

	aghttp.MountRoutes(r, handlers, promHandler, hub.HandleWS)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
