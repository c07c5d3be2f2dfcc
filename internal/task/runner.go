package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// Runner submission errors
var (
	ErrQueueFull     = errors.New("task queue is full")
	ErrRunnerStopped = errors.New("task runner is stopped")
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize is the buffer size of the in-memory executor queue.
	QueueSize int

	// StuckTaskAge is how long a task may sit in running state without
	// an update before the monitor fails it.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval is how often the monitor looks for stuck
	// tasks. Zero defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Runner owns the worker pool that drives task executors. Submission is
// enqueue-only: the task row must already exist in pending state before
// an executor is submitted, and at most one executor per task id may be
// in flight (upheld by the dispatcher, not enforced here).
type Runner struct {
	tasks    store.TaskStore
	registry *FactoryRegistry
	queue    chan Executor
	config   RunnerConfig
	logger   *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewRunner creates a runner over the given task store and factory
// registry. The registry is only consulted during restart recovery.
func NewRunner(tasks store.TaskStore, registry *FactoryRegistry, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		tasks:    tasks,
		registry: registry,
		queue:    make(chan Executor, config.QueueSize),
		config:   config,
		logger:   logger.With(slog.String("component", "task_runner")),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit enqueues an executor for background processing. It never
// blocks: a full queue is reported to the caller so the request path
// stays responsive.
func (r *Runner) Submit(_ context.Context, executor Executor) error {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return ErrRunnerStopped
	}

	select {
	case r.queue <- executor:
		r.logger.Debug("executor enqueued",
			slog.String("task_id", executor.ID().String()),
			slog.String("task_type", string(executor.Type())),
			slog.Int("queue_len", len(r.queue)))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(r.queue))
	}
}

// Start recovers unfinished tasks from previous runs, then launches the
// worker pool and the stuck-task monitor.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("recovering unfinished tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	r.logger.Info("task runner started",
		slog.Int("workers", r.config.WorkerCount),
		slog.Int("queue_size", r.config.QueueSize))
	return nil
}

// Stop shuts the runner down. In-flight executors finish their current
// task; queued executors stay in the queue and their rows stay pending,
// to be recovered on the next start.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// recover handles tasks left over from a previous process. Pending rows
// are requeued through their factories. Rows stuck in running state
// belonged to a crashed executor and cannot resume, so they are failed;
// a caller that still wants the work re-dispatches a fresh task. Paused
// and terminal rows are never touched.
func (r *Runner) recover() error {
	ctx := context.Background()

	pending, err := r.tasks.List(ctx, store.TaskFilter{Status: domain.TaskStatusPending})
	if err != nil {
		return fmt.Errorf("listing pending tasks: %w", err)
	}

	running, err := r.tasks.List(ctx, store.TaskFilter{Status: domain.TaskStatusRunning})
	if err != nil {
		return fmt.Errorf("listing running tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending", len(pending)),
		slog.Int("running", len(running)))

	for _, t := range pending {
		factory, err := r.registry.ForType(t.Type)
		if err != nil {
			r.logger.Error("cannot recover pending task",
				slog.String("task_id", t.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		executor, err := factory.NewExecutor(t.ID)
		if err != nil {
			r.logger.Error("building executor for pending task failed",
				slog.String("task_id", t.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		select {
		case r.queue <- executor:
		default:
			r.logger.Error("queue full, pending task left for next recovery",
				slog.String("task_id", t.ID.String()))
		}
	}

	for _, t := range running {
		if err := t.Fail("interrupted by restart"); err != nil {
			continue
		}
		if err := r.tasks.Update(ctx, t); err != nil {
			r.logger.Error("failing interrupted task failed",
				slog.String("task_id", t.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()

	logger := r.logger.With(slog.Int("worker_id", id))
	logger.Debug("worker started")

	for {
		select {
		case <-r.ctx.Done():
			logger.Debug("worker stopping")
			return
		case executor := <-r.queue:
			r.processTask(executor, logger)
		}
	}
}

// processTask runs one executor and guarantees the task row does not
// stay in running state afterwards, whatever the executor did.
func (r *Runner) processTask(executor Executor, logger *slog.Logger) {
	ctx := context.Background()
	logger = logger.With(
		slog.String("task_id", executor.ID().String()),
		slog.String("task_type", string(executor.Type())))

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("executor panicked", slog.Any("panic", rec))
			r.ensureFailed(ctx, executor, fmt.Sprintf("executor panic: %v", rec), logger)
		}
	}()

	logger.Info("processing task")

	if err := executor.Execute(ctx); err != nil {
		logger.Error("task execution failed", slog.String("error", err.Error()))
		r.ensureFailed(ctx, executor, err.Error(), logger)
		return
	}

	// Executors finalize their own row; a row still running here is an
	// executor bug and must not be left dangling.
	t, err := r.tasks.GetByID(ctx, executor.ID())
	if err != nil {
		logger.Error("loading task after execution failed", slog.String("error", err.Error()))
		return
	}
	if t.Status == domain.TaskStatusRunning {
		logger.Warn("executor returned without finalizing, failing task")
		r.ensureFailed(ctx, executor, "executor finished without terminal status", logger)
		return
	}

	logger.Info("task processed", slog.String("status", string(t.Status)))
}

// ensureFailed forces the task row to failed unless it already reached
// a terminal state.
func (r *Runner) ensureFailed(ctx context.Context, executor Executor, message string, logger *slog.Logger) {
	t, err := r.tasks.GetByID(ctx, executor.ID())
	if err != nil {
		logger.Error("loading task for failure fallback failed", slog.String("error", err.Error()))
		return
	}
	if t.IsTerminal() {
		return
	}
	if err := t.Fail(message); err != nil {
		return
	}
	if err := r.tasks.Update(ctx, t); err != nil {
		logger.Error("writing failure fallback failed", slog.String("error", err.Error()))
	}
}

// stuckTaskMonitor fails tasks that have sat in running state without
// an update for longer than StuckTaskAge. A stuck row means its
// executor died without the failure fallback firing.
func (r *Runner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.failStuckTasks()
		}
	}
}

func (r *Runner) failStuckTasks() {
	ctx := context.Background()

	running, err := r.tasks.List(ctx, store.TaskFilter{Status: domain.TaskStatusRunning})
	if err != nil {
		r.logger.Error("listing running tasks failed", slog.String("error", err.Error()))
		return
	}

	cutoff := time.Now().UTC().Add(-r.config.StuckTaskAge)
	for _, t := range running {
		if t.UpdatedAt.After(cutoff) {
			continue
		}
		if err := t.Fail("stuck in running state"); err != nil {
			continue
		}
		if err := r.tasks.Update(ctx, t); err != nil {
			r.logger.Error("failing stuck task failed",
				slog.String("task_id", t.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Warn("failed stuck task",
			slog.String("task_id", t.ID.String()),
			slog.String("task_type", string(t.Type)))
	}
}
