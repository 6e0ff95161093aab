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

	"github.com/RSAK56/NewsStream/app/api"
	"github.com/RSAK56/NewsStream/app/auth"
	"github.com/RSAK56/NewsStream/app/cfg"
	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
	"github.com/RSAK56/NewsStream/app/prefs"
	"github.com/RSAK56/NewsStream/app/sources"
	"github.com/RSAK56/NewsStream/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting NewsStream server", "version", appCfg.Version)

	// Database connection and migrations
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	// Repositories
	userRepo := database.NewUserRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	prefRepo := database.NewPreferenceRepository(db)

	// Provider configuration overrides
	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load provider configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Provider configurations loaded", "overrides", configCache.GetConfigCount())

	// Core components
	httpClient := &http.Client{Timeout: 60 * time.Second}
	registry := sources.NewRegistry(configCache, httpClient)
	aggregator := news.NewAggregator(registry.Clients())
	filterer := news.NewFilterer(registry.Labels())
	resultCache := news.NewResultCache(time.Duration(appCfg.CacheTTL) * time.Second)

	authService := auth.NewService(userRepo, sessionRepo, time.Duration(appCfg.SessionTTL)*time.Hour)
	prefsStore := prefs.New(prefRepo)

	// Background scheduler
	scheduler := tasks.NewScheduler(aggregator, resultCache, sessionRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	// HTTP server
	handler := api.NewHandler(aggregator, filterer, resultCache, authService, prefsStore,
		scheduler, httpClient, userRepo, sessionRepo, prefRepo)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("NewsStream server shutdown complete")
}
