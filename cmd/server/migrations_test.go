package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsefeed/pulse-api/internal/config"
)

func TestRunMigrationCommandRequiresDatabaseURL(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := runMigrationCommand(cfg, "up", logger)
	assert.ErrorContains(t, err, "database URL is empty")
}

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()

	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.NotPanics(t, func() {
		l.Printf("applied %d migrations", 3)
		l.Fatalf("migration %s failed", "20250301000001")
	})
}
