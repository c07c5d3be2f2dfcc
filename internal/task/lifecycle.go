package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// Every background flow follows the same lifecycle shape: transition to
// running, do the work, finish with completed plus a structured result
// or failed plus an error message. The helpers here implement the
// shared edges of that shape.

// beginRun loads the task row and writes the running transition with
// the standard starting progress.
func beginRun(ctx context.Context, tasks store.TaskStore, taskID uuid.UUID) (*domain.Task, error) {
	row, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}
	if err := row.MarkRunning(10); err != nil {
		return nil, fmt.Errorf("transitioning task to running: %w", err)
	}
	if err := tasks.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("writing running status: %w", err)
	}
	return row, nil
}

// finishFail writes the failed status with the cause's text and returns
// the cause so the runner logs it.
func finishFail(ctx context.Context, tasks store.TaskStore, row *domain.Task, cause error, logger *slog.Logger) error {
	if err := row.Fail(cause.Error()); err != nil {
		return cause
	}
	if err := tasks.Update(ctx, row); err != nil {
		logger.Error("writing failed status failed", slog.String("error", err.Error()))
	}
	return cause
}

// finishComplete writes the completed status with the given result.
func finishComplete(ctx context.Context, tasks store.TaskStore, row *domain.Task, result map[string]any) error {
	if err := row.Complete(result); err != nil {
		return err
	}
	if err := tasks.Update(ctx, row); err != nil {
		return fmt.Errorf("writing completed status: %w", err)
	}
	return nil
}
