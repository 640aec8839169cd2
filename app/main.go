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

	"github.com/cambee/cambee-server/app/api"
	"github.com/cambee/cambee-server/app/cfg"
	"github.com/cambee/cambee-server/app/crawler"
	"github.com/cambee/cambee-server/app/database"
	"github.com/cambee/cambee-server/app/sources"
	"github.com/cambee/cambee-server/app/tasks"
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
	time.Local = appCfg.Location

	slog.Info("Starting Cambee crawler", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	srcCache := sources.NewCache(appCfg.SourcesFile, appCfg.Seeds)
	if err := srcCache.Run(); err != nil {
		slog.Error("Failed to load sources", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "count", srcCache.Count())

	fetcher := crawler.NewFetcher(appCfg.UserAgent)
	listings := crawler.NewListingExtractor()
	details := crawler.NewDetailExtractor()
	content := crawler.NewContentExtractor()

	scheduler := tasks.NewScheduler(srcCache, db, fetcher, listings, details, content,
		time.Duration(appCfg.IntervalMin)*time.Minute, appCfg.CrawlLimit,
		appCfg.Location, appCfg.Timezone)
	scheduler.Start()
	defer scheduler.Stop()

	noticeRepo := database.NewNoticeRepo(db.DB)
	handler := api.NewHandler(noticeRepo, srcCache, scheduler, db,
		fetcher, listings, details, content)
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

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
