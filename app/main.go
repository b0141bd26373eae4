package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tsubasa-dev/feed-deliver/app/api"
	"github.com/tsubasa-dev/feed-deliver/app/cfg"
	"github.com/tsubasa-dev/feed-deliver/app/continuity"
	"github.com/tsubasa-dev/feed-deliver/app/feed"
	"github.com/tsubasa-dev/feed-deliver/app/history"
	"github.com/tsubasa-dev/feed-deliver/app/output"
	"github.com/tsubasa-dev/feed-deliver/app/sources"
	"github.com/tsubasa-dev/feed-deliver/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
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
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feed-deliver run", "version", appCfg.Version, "sources_dir", appCfg.SourcesDir, "output_dir", appCfg.OutputDir)

	configCache := feed.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", configCache.GetConfigCount())

	writer, err := output.NewWriter(appCfg.OutputDir)
	if err != nil {
		slog.Error("Failed to prepare output directory", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{}
	sourceClient := sources.NewClient(httpClient, appCfg.UserAgent)
	sourceList := sources.All(sourceClient)

	snapshots := continuity.NewSnapshotFetcher(appCfg.PublicBase, httpClient, appCfg.UserAgent,
		time.Duration(appCfg.CacheTTL)*time.Second)
	historyStore := history.NewStore(appCfg.PublicBase, appCfg.OutputDir, appCfg.RetentionDays,
		httpClient, appCfg.UserAgent)

	runner := tasks.NewRunner(sourceList, configCache, snapshots, historyStore, writer)
	failed := runner.Run(context.Background())

	if failed == len(sourceList) && len(sourceList) > 0 {
		slog.Error("All sources failed")
		os.Exit(1)
	}

	if appCfg.Serve {
		servePreview(appCfg.OutputDir, appCfg.Port)
	}
}

func servePreview(outputDir, port string) {
	handler := api.NewHandler(outputDir)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Preview server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Preview server shutdown error", "error", err)
	}

	slog.Info("Preview server stopped")
}
