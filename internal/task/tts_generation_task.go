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

// TTSGenerationTask synthesizes speech for a text payload through the
// audio engine sidecar.
type TTSGenerationTask struct {
	taskID      uuid.UUID
	tasks       store.TaskStore
	synthesizer mediaengine.AudioSynthesizer
	logger      *slog.Logger
}

// NewTTSGenerationTask builds the executor for an existing
// tts_generation task row.
func NewTTSGenerationTask(
	taskID uuid.UUID,
	tasks store.TaskStore,
	synthesizer mediaengine.AudioSynthesizer,
	logger *slog.Logger,
) *TTSGenerationTask {
	return &TTSGenerationTask{
		taskID:      taskID,
		tasks:       tasks,
		synthesizer: synthesizer,
		logger:      logger.With(slog.String("component", "tts_generation_task"), slog.String("task_id", taskID.String())),
	}
}

// ID implements Executor.
func (t *TTSGenerationTask) ID() uuid.UUID { return t.taskID }

// Type implements Executor.
func (t *TTSGenerationTask) Type() domain.TaskType { return domain.TaskTypeTTSGeneration }

// Execute implements Executor.
func (t *TTSGenerationTask) Execute(ctx context.Context) error {
	row, err := beginRun(ctx, t.tasks, t.taskID)
	if err != nil {
		return err
	}

	var params TTSGenerationParams
	if err := decodeParams(row.Parameters, &params); err != nil {
		return t.failRun(ctx, row, err)
	}
	if strings.TrimSpace(params.Text) == "" {
		return t.failRun(ctx, row, ErrEmptyText)
	}

	res, err := t.synthesizer.Synthesize(ctx, mediaengine.TTSRequest{
		Text:     params.Text,
		Engine:   params.Engine,
		Voice:    params.Voice,
		Language: params.Language,
		Speed:    params.Speed,
	})
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("synthesizing audio: %w", err))
	}
	if !res.Success {
		return t.failRun(ctx, row, fmt.Errorf("audio engine rejected request: %s", res.Error))
	}

	result := map[string]any{
		"audio_path":      res.AudioPath,
		"file_size":       res.FileSize,
		"duration":        res.Duration,
		"generation_time": res.GenerationTime,
		"engine_used":     res.EngineUsed,
	}
	if err := finishComplete(ctx, t.tasks, row, result); err != nil {
		return err
	}

	t.logger.Info("speech synthesized",
		slog.String("audio_path", res.AudioPath),
		slog.String("engine_used", res.EngineUsed))
	return nil
}

func (t *TTSGenerationTask) failRun(ctx context.Context, row *domain.Task, cause error) error {
	return finishFail(ctx, t.tasks, row, cause, t.logger)
}

var _ Executor = (*TTSGenerationTask)(nil)
