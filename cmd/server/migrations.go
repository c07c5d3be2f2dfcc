package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/pulsefeed/pulse-api/internal/config"
	"github.com/pulsefeed/pulse-api/internal/platform/postgres"
)

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), slog.String("component", "migrations"))
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...), slog.String("component", "migrations"))
}

// runMigrationCommand executes a goose command against the configured
// database using the embedded migration scripts.
func runMigrationCommand(cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: migrations require a PostgreSQL URL")
	}

	db, err := openDatabase(context.Background(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetBaseFS(postgres.MigrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, postgres.MigrationsDir)
	case "down":
		return goose.Down(db, postgres.MigrationsDir)
	case "status":
		return goose.Status(db, postgres.MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}
}

// migrateUp applies all pending migrations. Called during startup when
// a database is configured so the schema is always current.
func migrateUp(db *sql.DB, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetBaseFS(postgres.MigrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return goose.Up(db, postgres.MigrationsDir)
}
