package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/platform/mediaengine"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// VideoGenerationTask renders a video for a text payload through the
// video engine sidecar.
type VideoGenerationTask struct {
	taskID   uuid.UUID
	tasks    store.TaskStore
	renderer mediaengine.VideoRenderer
	logger   *slog.Logger
}

// NewVideoGenerationTask builds the executor for an existing
// video_generation task row.
func NewVideoGenerationTask(
	taskID uuid.UUID,
	tasks store.TaskStore,
	renderer mediaengine.VideoRenderer,
	logger *slog.Logger,
) *VideoGenerationTask {
	return &VideoGenerationTask{
		taskID:   taskID,
		tasks:    tasks,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "video_generation_task"), slog.String("task_id", taskID.String())),
	}
}

// ID implements Executor.
func (t *VideoGenerationTask) ID() uuid.UUID { return t.taskID }

// Type implements Executor.
func (t *VideoGenerationTask) Type() domain.TaskType { return domain.TaskTypeVideoGeneration }

// Execute implements Executor.
func (t *VideoGenerationTask) Execute(ctx context.Context) error {
	row, err := beginRun(ctx, t.tasks, t.taskID)
	if err != nil {
		return err
	}

	var params VideoGenerationParams
	if err := decodeParams(row.Parameters, &params); err != nil {
		return t.failRun(ctx, row, err)
	}
	if strings.TrimSpace(params.Text) == "" {
		return t.failRun(ctx, row, ErrEmptyText)
	}

	res, err := t.renderer.Render(ctx, mediaengine.VideoRequest{
		Text:       params.Text,
		Type:       params.VideoType,
		Style:      params.Style,
		Duration:   params.Duration,
		Resolution: params.Resolution,
		AudioPath:  params.AudioPath,
	})
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("rendering video: %w", err))
	}
	if !res.Success {
		return t.failRun(ctx, row, fmt.Errorf("video engine rejected request: %s", res.Error))
	}

	result := map[string]any{
		"video_path":      res.VideoPath,
		"file_size":       res.FileSize,
		"duration":        res.Duration,
		"generation_time": res.GenerationTime,
	}
	if err := finishComplete(ctx, t.tasks, row, result); err != nil {
		return err
	}

	t.logger.Info("video rendered", slog.String("video_path", res.VideoPath))
	return nil
}

func (t *VideoGenerationTask) failRun(ctx context.Context, row *domain.Task, cause error) error {
	return finishFail(ctx, t.tasks, row, cause, t.logger)
}

var _ Executor = (*VideoGenerationTask)(nil)
