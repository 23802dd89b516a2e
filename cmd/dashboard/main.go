package main

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/config"
	"fieldservice-dashboard/internal/service/dashboard"
	generate_excel "fieldservice-dashboard/internal/service/generate-excel"
	"fieldservice-dashboard/internal/service/snapshot"
	"fieldservice-dashboard/internal/storage/mysql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.MustConfig()

	log, closeLog := setupLogger(cfg.Env, cfg.ErrorLogPath)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := mysql.New(cfg.DB)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	if err := storage.Migrate(ctx); err != nil {
		log.Error("failed to migrate db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := snapshot.New(storage, cfg.Snapshot.TTL)
	svc := dashboard.New(cache, storage, cfg.Location())
	genService := generate_excel.NewGenerateService(svc)

	if cfg.Snapshot.RefreshCron != "" {
		refresher, err := snapshot.NewRefresher(log, cache, cfg.Snapshot.RefreshCron)
		if err != nil {
			log.Error("invalid snapshot refresh schedule", slog.String("error", err.Error()))
			os.Exit(1)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, svc, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
