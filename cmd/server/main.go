// Package main implements the entry point for the Pulse API server,
// which aggregates trend signals from public feeds and orchestrates
// background content generation work.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulsefeed/pulse-api/internal/config"
	"github.com/pulsefeed/pulse-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""),
		slog.Bool("scheduler_enabled", cfg.Scheduler.Enabled))

	if *migrateCmd != "" {
		if err := runMigrationCommand(cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("migration command failed",
				slog.String("command", *migrateCmd),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		appLogger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
