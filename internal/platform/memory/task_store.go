// Package memory provides in-memory store implementations. They back
// the development configuration (no database URL) and double as fast
// store fixtures in tests. All stores copy on read and write, so
// callers never share memory with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// TaskStore is an in-memory implementation of store.TaskStore.
type TaskStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*domain.Task
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{rows: make(map[uuid.UUID]*domain.Task)}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[task.ID]; ok {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}
	s.rows[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(row), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.rows[task.ID] = copyTask(task)
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.rows, id)
	return nil
}

// List implements store.TaskStore. Results are ordered newest first.
func (s *TaskStore) List(_ context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0, len(s.rows))
	for _, row := range s.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		out = append(out, copyTask(row))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func copyTask(t *domain.Task) *domain.Task {
	copied := *t
	copied.Parameters = copyMap(t.Parameters)
	copied.Result = copyMap(t.Result)
	copied.Logs = append([]string(nil), t.Logs...)
	if t.StartedAt != nil {
		started := *t.StartedAt
		copied.StartedAt = &started
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		copied.CompletedAt = &completed
	}
	return &copied
}

func copyMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var _ store.TaskStore = (*TaskStore)(nil)
