package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// TaskService manages the lifecycle of background tasks. Creating a
// task persists the row first and then dispatches it through the event
// emitter; a task whose dispatch fails stays pending and is picked up
// by runner recovery on the next restart.
type TaskService struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, emitter events.EventEmitter, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask creates a task of the given type and dispatches it.
func (s *TaskService) CreateTask(ctx context.Context, taskType string, parameters map[string]any) (*domain.Task, error) {
	parsed, err := domain.ParseTaskType(taskType)
	if err != nil {
		return nil, validationError("unknown task type %q", taskType)
	}

	row, err := domain.NewTask(parsed, parameters)
	if err != nil {
		return nil, NewServiceError("create_task", "building task", err)
	}
	if err := s.tasks.Create(ctx, row); err != nil {
		return nil, NewServiceError("create_task", "persisting task", err)
	}

	s.dispatch(ctx, row)
	return row, nil
}

// CreateTrendMonitoringTask creates and dispatches a trend_monitoring
// task limited to the given sources. Empty sources means all.
func (s *TaskService) CreateTrendMonitoringTask(ctx context.Context, sources []string) (*domain.Task, error) {
	if sources == nil {
		sources = []string{}
	}
	return s.CreateTask(ctx, string(domain.TaskTypeTrendMonitoring), map[string]any{
		"sources": sources,
	})
}

// GetTask returns a task by id.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// ListTasks returns tasks filtered by the optional status and type
// strings, newest first.
func (s *TaskService) ListTasks(ctx context.Context, status, taskType string, limit int) ([]*domain.Task, error) {
	var filter store.TaskFilter
	if status != "" {
		parsed, err := domain.ParseTaskStatus(status)
		if err != nil {
			return nil, validationError("unknown task status %q", status)
		}
		filter.Status = parsed
	}
	if taskType != "" {
		parsed, err := domain.ParseTaskType(taskType)
		if err != nil {
			return nil, validationError("unknown task type %q", taskType)
		}
		filter.Type = parsed
	}
	filter.Limit = limit

	return s.tasks.List(ctx, filter)
}

// PauseTask marks a task as paused. Work already in flight is not
// interrupted; a terminal task cannot be paused.
func (s *TaskService) PauseTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := row.Pause(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTaskNotRestartable, err)
	}
	if err := s.tasks.Update(ctx, row); err != nil {
		return nil, NewServiceError("pause_task", "persisting pause", err)
	}
	return row, nil
}

// DeleteTask removes a task record regardless of its state.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) dispatch(ctx context.Context, row *domain.Task) {
	event, err := events.NewTaskRequestEvent(string(row.Type), events.TaskDispatchPayload{TaskID: row.ID})
	if err != nil {
		s.logger.Warn("building dispatch event failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("dispatching task failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	s.logger.Info("task created and dispatched",
		slog.String("task_id", row.ID.String()),
		slog.String("task_type", string(row.Type)))
}
