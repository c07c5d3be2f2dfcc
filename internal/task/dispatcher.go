package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
)

// Submitter is the slice of the Runner the dispatcher needs.
type Submitter interface {
	Submit(ctx context.Context, executor Executor) error
}

// Dispatcher turns TaskRequestEvents into executors and hands them to
// the runner. It is the single place that dispatches work for a task
// id, which upholds the at-most-one-executor-per-task contract: every
// event carries a freshly created task row, and each event is handled
// once by the in-process emitter.
type Dispatcher struct {
	registry *FactoryRegistry
	runner   Submitter
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry and runner.
func NewDispatcher(registry *FactoryRegistry, runner Submitter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		runner:   runner,
		logger:   logger.With(slog.String("component", "task_dispatcher")),
	}
}

// HandleEvent implements events.EventHandler. Events whose type has no
// registered factory are ignored so unrelated handlers can share the
// emitter.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	taskType, err := domain.ParseTaskType(event.Type)
	if err != nil {
		d.logger.Debug("ignoring event with unknown task type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	factory, err := d.registry.ForType(taskType)
	if err != nil {
		d.logger.Debug("no factory for event, ignoring",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload events.TaskDispatchPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("unmarshaling dispatch payload: %w", err)
	}
	if payload.TaskID == uuid.Nil {
		return fmt.Errorf("dispatch payload carries no task id (event %s)", event.ID)
	}

	executor, err := factory.NewExecutor(payload.TaskID)
	if err != nil {
		return fmt.Errorf("building executor: %w", err)
	}

	if err := d.runner.Submit(ctx, executor); err != nil {
		return fmt.Errorf("submitting executor: %w", err)
	}

	d.logger.Info("task dispatched",
		slog.String("task_id", payload.TaskID.String()),
		slog.String("task_type", event.Type))
	return nil
}

var _ events.EventHandler = (*Dispatcher)(nil)
