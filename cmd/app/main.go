package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"tt-service/internal/config"
	cacheExport "tt-service/internal/http-server/handlers/cache/export"
	cacheRestore "tt-service/internal/http-server/handlers/cache/restore"
	facultiesGet "tt-service/internal/http-server/handlers/faculties/get"
	groupsGet "tt-service/internal/http-server/handlers/groups/get"
	scheduleCurrent "tt-service/internal/http-server/handlers/schedule/current"
	scheduleDate "tt-service/internal/http-server/handlers/schedule/date"
	scheduleDay "tt-service/internal/http-server/handlers/schedule/day"
	scheduleWeek "tt-service/internal/http-server/handlers/schedule/week"
	"tt-service/internal/cache"
	"tt-service/internal/lock"
	"tt-service/internal/models"
	svc "tt-service/internal/service"
	"tt-service/internal/source/filesource"
	"tt-service/internal/storage/postgres"
	slogpretty "tt-service/pkg/handlers/slogPretty"
	"tt-service/pkg/middleware/mwLogger"
	"tt-service/pkg/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	var snapshots svc.SnapshotStore
	var storage *postgres.Storage
	if cfg.StoragePath != "" {
		var err error
		storage, err = postgres.New(cfg.StoragePath)
		if err != nil {
			log.Error("Failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		snapshots = storage
	} else {
		log.Warn("No storage configured, cache snapshots are disabled")
	}

	var locker lock.Locker
	var redisLock *lock.RedisLock
	if cfg.RedisAddr != "" {
		var err error
		redisLock, err = lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
		locker = redisLock
	} else {
		log.Warn("No redis configured, using in-process fetch lock")
		locker = lock.NewMemory()
	}

	resultCache := cache.New(cfg.Cache.TTLs())
	provider := filesource.New(cfg.SourceDir)

	service := svc.NewService(provider, resultCache, locker, snapshots, svc.Options{
		EducationType: models.EducationType(cfg.EducationType),
	})

	if snapshots != nil {
		if restored, err := service.RestoreCache(context.Background()); err != nil {
			log.Warn("Cache snapshot restore skipped", sl.Err(err))
		} else {
			log.Info("Cache restored from snapshot", slog.Int("entries", restored))
		}
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Schedule
	router.Get("/schedule/{group_id}/date", scheduleDate.New(log, service))
	router.Get("/schedule/{group_id}/day", scheduleDay.New(log, service))
	router.Get("/schedule/{group_id}/week", scheduleWeek.New(log, service))
	router.Get("/schedule/{group_id}/current", scheduleCurrent.New(log, service))

	// Directories
	router.Get("/faculties", facultiesGet.New(log, service))
	router.Get("/faculties/{faculty_id}/groups", groupsGet.New(log, service))

	// Cache administration
	router.Post("/cache/export", cacheExport.New(log, service))
	router.Post("/cache/restore", cacheRestore.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if snapshots != nil {
		if snapshot, err := service.ExportCache(ctx); err != nil {
			log.Error("Failed to persist cache snapshot", sl.Err(err))
		} else {
			log.Info("Cache snapshot persisted", slog.Int("entries", len(snapshot)))
		}
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if redisLock != nil {
		if err := redisLock.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
