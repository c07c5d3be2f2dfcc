package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// Executor runs the background work for one persisted task. Executors
// own every status transition of their task row: running at start,
// completed or failed at the end. The runner only steps in when an
// executor returns with the row still non-terminal.
type Executor interface {
	// ID returns the identifier of the task row this executor drives.
	ID() uuid.UUID

	// Type returns the task type this executor implements.
	Type() domain.TaskType

	// Execute runs the work. The returned error is for logging and the
	// runner's failure fallback; the executor is expected to have
	// already written the failed status itself where possible.
	Execute(ctx context.Context) error
}

// Factory builds an executor for an already persisted task row.
type Factory interface {
	// TaskType returns the task type this factory serves.
	TaskType() domain.TaskType

	// NewExecutor builds an executor bound to the given task id.
	NewExecutor(taskID uuid.UUID) (Executor, error)
}

// FactoryRegistry maps task types to their factories. The dispatcher
// uses it to turn events into executors and the runner uses it to
// rebuild executors for tasks recovered after a restart.
type FactoryRegistry struct {
	mu        sync.RWMutex
	factories map[domain.TaskType]Factory
}

// NewFactoryRegistry creates an empty registry.
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{factories: make(map[domain.TaskType]Factory)}
}

// Register adds a factory, replacing any previous one for the same type.
func (r *FactoryRegistry) Register(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.TaskType()] = factory
}

// ForType returns the factory for the given task type.
func (r *FactoryRegistry) ForType(taskType domain.TaskType) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[taskType]
	if !ok {
		return nil, fmt.Errorf("no factory registered for task type %q", taskType)
	}
	return factory, nil
}
