package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trip_recommender/cache"
	"trip_recommender/config"
	"trip_recommender/db"
	"trip_recommender/handlers"
	"trip_recommender/logger"
	"trip_recommender/metrics"
	"trip_recommender/models"
	"trip_recommender/repository"
	"trip_recommender/scheduler"
	"trip_recommender/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Error("open mysql failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mysql connected",
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns,
		"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

	queryTimeout := time.Duration(cfg.DB.QueryTimeoutSec) * time.Second
	users := repository.NewUserRepository(conn, queryTimeout)
	trips := repository.NewTripRepository(conn, queryTimeout)
	changes := repository.NewChangeRepository(conn, queryTimeout)

	results := cache.New[[]models.ScoredTrip](
		cache.WithTTL(time.Duration(cfg.Cache.TTLSec)*time.Second),
		cache.WithObserver(metrics.CacheObserver{}),
	)
	engine := services.NewRecommendationEngine(users, trips, results)
	watcher := services.NewChangeWatcher(changes, engine)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handlers.RegisterRoutes(r, handlers.NewRecommendationHandler(engine, results), changes, handlers.NewMiddleware(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// baseline for change detection
	if _, err := watcher.Check(ctx); err != nil {
		logger.Warn("initial data version check failed", "error", err)
	}
	sched := scheduler.Start(ctx, cfg, results, watcher)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Timeouts.RequestSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Timeouts.ResponseSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Timeouts.IdleSec) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", srv.Addr)
		logger.Info("swagger docs available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := conn.Close(); err != nil {
		logger.Error("close mysql failed", "error", err)
	}
	logger.Info("server stopped")
}
