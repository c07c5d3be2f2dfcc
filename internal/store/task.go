package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// TaskFilter narrows the result set of TaskStore.List.
// Zero-value fields are ignored.
type TaskFilter struct {
	Status domain.TaskStatus
	Type   domain.TaskType
	Limit  int
}

// TaskStore defines the interface for persisting tasks.
// The task record is exclusively mutated by the executor that owns it;
// the store itself performs no locking beyond statement atomicity.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task regardless of its state.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns tasks matching the filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
}
