package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/generation"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// ContentGenerationTask produces a script for a Content draft via the
// injected generator and marks the draft ready.
type ContentGenerationTask struct {
	taskID    uuid.UUID
	tasks     store.TaskStore
	content   store.ContentStore
	generator generation.Generator
	logger    *slog.Logger
}

// NewContentGenerationTask builds the executor for an existing
// content_generation task row.
func NewContentGenerationTask(
	taskID uuid.UUID,
	tasks store.TaskStore,
	contentStore store.ContentStore,
	generator generation.Generator,
	logger *slog.Logger,
) *ContentGenerationTask {
	return &ContentGenerationTask{
		taskID:    taskID,
		tasks:     tasks,
		content:   contentStore,
		generator: generator,
		logger:    logger.With(slog.String("component", "content_generation_task"), slog.String("task_id", taskID.String())),
	}
}

// ID implements Executor.
func (t *ContentGenerationTask) ID() uuid.UUID { return t.taskID }

// Type implements Executor.
func (t *ContentGenerationTask) Type() domain.TaskType { return domain.TaskTypeContentGeneration }

// Execute implements Executor.
func (t *ContentGenerationTask) Execute(ctx context.Context) error {
	row, err := beginRun(ctx, t.tasks, t.taskID)
	if err != nil {
		return err
	}

	var params ContentGenerationParams
	if err := decodeParams(row.Parameters, &params); err != nil {
		return t.failRun(ctx, row, err)
	}

	contentID, err := uuid.Parse(params.ContentID)
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("invalid content id %q: %w", params.ContentID, err))
	}

	content, err := t.content.GetByID(ctx, contentID)
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("loading content: %w", err))
	}

	if err := row.SetProgress(40); err == nil {
		_ = t.tasks.Update(ctx, row)
	}

	script, err := t.generator.GenerateScript(ctx, content)
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("generating script: %w", err))
	}

	content.Script = script
	if err := content.MarkReady(); err != nil {
		return t.failRun(ctx, row, err)
	}
	if err := t.content.Update(ctx, content); err != nil {
		return t.failRun(ctx, row, fmt.Errorf("saving generated script: %w", err))
	}

	result := map[string]any{
		"content_id":    content.ID.String(),
		"script_length": len([]rune(script)),
	}
	if err := finishComplete(ctx, t.tasks, row, result); err != nil {
		return err
	}

	t.logger.Info("content script generated",
		slog.String("content_id", content.ID.String()),
		slog.Int("script_length", len([]rune(script))))
	return nil
}

func (t *ContentGenerationTask) failRun(ctx context.Context, row *domain.Task, cause error) error {
	return finishFail(ctx, t.tasks, row, cause, t.logger)
}

var _ Executor = (*ContentGenerationTask)(nil)
