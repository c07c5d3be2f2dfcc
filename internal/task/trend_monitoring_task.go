package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/store"
	"github.com/pulsefeed/pulse-api/internal/trends"
)

// Auto-escalation policy: of the ranked candidate set, the top
// escalationTopN are inspected and those scoring strictly above
// escalationThreshold spawn a draft Content plus a content_generation
// task without human intervention.
const (
	escalationTopN      = 5
	escalationThreshold = 0.6
)

// Collector is the slice of the trends.Aggregator the executor needs.
type Collector interface {
	Collect(ctx context.Context, sources []string) ([]domain.TrendCandidate, error)
}

// TrendMonitoringTask executes one trend_monitoring run: aggregate
// candidates, persist the survivors as trends, escalate the hottest
// ones into content work, and finalize the owning task row.
type TrendMonitoringTask struct {
	taskID    uuid.UUID
	tasks     store.TaskStore
	trends    store.TrendStore
	content   store.ContentStore
	collector Collector
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTrendMonitoringTask builds the executor for an existing
// trend_monitoring task row.
func NewTrendMonitoringTask(
	taskID uuid.UUID,
	tasks store.TaskStore,
	trendStore store.TrendStore,
	contentStore store.ContentStore,
	collector Collector,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *TrendMonitoringTask {
	return &TrendMonitoringTask{
		taskID:    taskID,
		tasks:     tasks,
		trends:    trendStore,
		content:   contentStore,
		collector: collector,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "trend_monitoring_task"), slog.String("task_id", taskID.String())),
	}
}

// ID implements Executor.
func (t *TrendMonitoringTask) ID() uuid.UUID { return t.taskID }

// Type implements Executor.
func (t *TrendMonitoringTask) Type() domain.TaskType { return domain.TaskTypeTrendMonitoring }

// Execute implements Executor. Any error past the running transition
// fails the task row with the error text; partial writes before the
// failure stay in place (no rollback).
func (t *TrendMonitoringTask) Execute(ctx context.Context) error {
	row, err := beginRun(ctx, t.tasks, t.taskID)
	if err != nil {
		return err
	}

	var params TrendMonitoringParams
	if err := decodeParams(row.Parameters, &params); err != nil {
		return t.failRun(ctx, row, err)
	}

	candidates, err := t.collector.Collect(ctx, params.Sources)
	if err != nil {
		return t.failRun(ctx, row, fmt.Errorf("aggregating trends: %w", err))
	}

	trendRows, err := t.persistTrends(ctx, candidates)
	if err != nil {
		return t.failRun(ctx, row, err)
	}

	created, err := t.escalate(ctx, trendRows)
	if err != nil {
		return t.failRun(ctx, row, err)
	}

	ideas := trends.AnalyzeTrends(trendRows)

	result := map[string]any{
		"trends_found":          len(trendRows),
		"content_tasks_created": created,
		"content_ideas":         len(ideas),
	}
	if err := finishComplete(ctx, t.tasks, row, result); err != nil {
		return err
	}

	t.logger.Info("monitoring run finished",
		slog.Int("trends_found", len(trendRows)),
		slog.Int("content_tasks_created", created),
		slog.Int("content_ideas", len(ideas)))
	return nil
}

// persistTrends promotes the ranked candidates to durable Trend rows.
// The returned slice preserves the candidates' rank order.
func (t *TrendMonitoringTask) persistTrends(ctx context.Context, candidates []domain.TrendCandidate) ([]*domain.Trend, error) {
	rows := make([]*domain.Trend, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.PopularityScore > 1.0 {
			candidate.PopularityScore = 1.0
		}
		row, err := domain.NewTrendFromCandidate(candidate)
		if err != nil {
			return nil, fmt.Errorf("building trend from candidate %q: %w", candidate.Title, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return rows, nil
	}
	if err := t.trends.InsertMany(ctx, rows); err != nil {
		return nil, fmt.Errorf("persisting trends: %w", err)
	}
	return rows, nil
}

// escalate spawns a draft Content and a content_generation task for
// every trend in the top group scoring above the threshold. The new
// tasks are dispatched through the emitter; a dispatch failure leaves
// the row pending for recovery and does not fail the run.
func (t *TrendMonitoringTask) escalate(ctx context.Context, trendRows []*domain.Trend) (int, error) {
	top := trendRows
	if len(top) > escalationTopN {
		top = top[:escalationTopN]
	}

	created := 0
	for _, trend := range top {
		if trend.PopularityScore <= escalationThreshold {
			continue
		}

		content, err := domain.NewContent(
			domain.ContentTypeVideo,
			fmt.Sprintf("Как использовать %s для получения подарков в Telegram", trend.Keyword),
			trend.Keyword,
			fmt.Sprintf("Автоматически создано на основе тренда: %s", trend.Title),
			append([]string{trend.Keyword}, trend.Hashtags...),
			[]domain.Platform{domain.PlatformTikTok, domain.PlatformYouTube, domain.PlatformTelegram},
		)
		if err != nil {
			return created, fmt.Errorf("building content for trend %q: %w", trend.Keyword, err)
		}
		trendID := trend.ID
		content.SourceTrendID = &trendID

		genTask, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
			"content_id":      content.ID.String(),
			"source_trend_id": trend.ID.String(),
			"auto_generated":  true,
		})
		if err != nil {
			return created, fmt.Errorf("building content generation task: %w", err)
		}
		genTaskID := genTask.ID
		content.GenerationTaskID = &genTaskID

		if err := t.content.Create(ctx, content); err != nil {
			return created, fmt.Errorf("persisting escalated content: %w", err)
		}
		if err := t.tasks.Create(ctx, genTask); err != nil {
			return created, fmt.Errorf("persisting content generation task: %w", err)
		}
		created++

		t.dispatch(ctx, genTask)
	}
	return created, nil
}

func (t *TrendMonitoringTask) dispatch(ctx context.Context, genTask *domain.Task) {
	event, err := events.NewTaskRequestEvent(string(genTask.Type), events.TaskDispatchPayload{TaskID: genTask.ID})
	if err != nil {
		t.logger.Warn("building dispatch event failed, task stays pending",
			slog.String("generated_task_id", genTask.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if err := t.emitter.EmitEvent(ctx, event); err != nil {
		t.logger.Warn("dispatching escalated task failed, task stays pending",
			slog.String("generated_task_id", genTask.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (t *TrendMonitoringTask) failRun(ctx context.Context, row *domain.Task, cause error) error {
	return finishFail(ctx, t.tasks, row, cause, t.logger)
}

var _ Executor = (*TrendMonitoringTask)(nil)
