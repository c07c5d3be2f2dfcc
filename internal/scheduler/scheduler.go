// Package scheduler drives periodic trend monitoring. On each tick it
// creates a fresh trend_monitoring task row and dispatches it through
// the event emitter, so scheduled runs flow through the same path as
// runs requested over the API.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// Scheduler owns the cron loop for recurring trend monitoring runs.
type Scheduler struct {
	tasks    store.TaskStore
	emitter  events.EventEmitter
	interval time.Duration
	sources  []string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that fires every interval. The
// sources slice limits each run to the named sources; empty means all.
func NewScheduler(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	interval time.Duration,
	sources []string,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		emitter:  emitter,
		interval: interval,
		sources:  sources,
		cron:     cron.New(),
		logger:   logger.With(slog.String("component", "scheduler")),
	}
}

// Start registers the monitoring job and starts the cron loop.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("scheduled monitoring dispatch failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("registering monitoring job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop stops the cron loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce creates one trend_monitoring task and dispatches it. A
// dispatch failure leaves the row pending; runner recovery picks it up
// on the next restart.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	row, err := domain.NewTask(domain.TaskTypeTrendMonitoring, map[string]any{
		"sources": s.sources,
	})
	if err != nil {
		return fmt.Errorf("building monitoring task: %w", err)
	}
	if err := s.tasks.Create(ctx, row); err != nil {
		return fmt.Errorf("persisting monitoring task: %w", err)
	}

	event, err := events.NewTaskRequestEvent(string(row.Type), events.TaskDispatchPayload{TaskID: row.ID})
	if err != nil {
		return fmt.Errorf("building dispatch event: %w", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("dispatching scheduled task failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return nil
	}

	s.logger.Info("scheduled monitoring task dispatched", slog.String("task_id", row.ID.String()))
	return nil
}
