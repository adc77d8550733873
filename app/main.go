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

	"github.com/joho/godotenv"

	"github.com/drophunt/drophunt/app/api"
	"github.com/drophunt/drophunt/app/cfg"
	"github.com/drophunt/drophunt/app/checker"
	"github.com/drophunt/drophunt/app/reconciler"
	"github.com/drophunt/drophunt/app/sources"
	"github.com/drophunt/drophunt/app/store"
	"github.com/drophunt/drophunt/app/tasks"
	"github.com/drophunt/drophunt/app/telegram"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

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

	slog.Info("Starting Drophunt", "version", appCfg.Version)

	snapshotStore, err := newSnapshotStore(appCfg)
	if err != nil {
		slog.Error("Failed to initialize snapshot storage", "backend", appCfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer snapshotStore.Close()
	slog.Info("Snapshot storage ready", "backend", appCfg.StorageBackend)

	settings, err := sources.LoadSettings(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load source settings", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var epicFetcher, steamFetcher sources.Fetcher
	if settings.Epic.Enabled {
		epicFetcher = sources.NewEpicFetcher(httpClient, appCfg.UserAgent, settings.Epic)
	} else {
		slog.Warn("Epic Games source disabled")
	}
	if settings.Steam.Enabled {
		steamFetcher = sources.NewSteamFetcher(httpClient, appCfg.UserAgent, settings.Steam)
	} else {
		slog.Warn("Steam source disabled")
	}

	telegramClient := telegram.NewClient(httpClient, appCfg.TelegramBotToken, appCfg.TelegramChatID)
	if !appCfg.TelegramConfigured() {
		slog.Warn("Telegram credentials missing, checks will fail until TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are set")
	}

	giveawayChecker := checker.New(
		epicFetcher, steamFetcher,
		reconciler.New(snapshotStore),
		telegramClient,
		appCfg.TelegramConfigured(),
		time.Duration(appCfg.SendDelay)*time.Second,
	)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.CheckInterval)
	taskScheduler := tasks.NewScheduler(giveawayChecker)
	taskScheduler.Start()
	defer taskScheduler.Stop()

	apiHandler := api.NewHandler(giveawayChecker, appCfg.Version, appCfg.TelegramConfigured())
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Drophunt shutdown complete")
}

// newSnapshotStore builds the storage backend the configuration names.
// Only the file backend is guaranteed to work without external services.
func newSnapshotStore(appCfg *cfg.Cfg) (store.SnapshotStore, error) {
	switch appCfg.StorageBackend {
	case "sqlite":
		return store.NewSQLiteStore(appCfg.DBPath)
	case "redis":
		return store.NewRedisStore(appCfg.RedisAddr)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewFileStore(appCfg.DataDir), nil
	}
}
