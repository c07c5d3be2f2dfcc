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

// ContentStore is an in-memory implementation of store.ContentStore.
type ContentStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*domain.Content
}

// NewContentStore creates an empty in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{rows: make(map[uuid.UUID]*domain.Content)}
}

// Create implements store.ContentStore.
func (s *ContentStore) Create(_ context.Context, content *domain.Content) error {
	if err := content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[content.ID]; ok {
		return fmt.Errorf("%w: content %s", store.ErrDuplicate, content.ID)
	}
	s.rows[content.ID] = copyContent(content)
	return nil
}

// GetByID implements store.ContentStore.
func (s *ContentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, store.ErrContentNotFound
	}
	return copyContent(row), nil
}

// Update implements store.ContentStore.
func (s *ContentStore) Update(_ context.Context, content *domain.Content) error {
	if err := content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[content.ID]; !ok {
		return store.ErrContentNotFound
	}
	s.rows[content.ID] = copyContent(content)
	return nil
}

// List implements store.ContentStore. Results are ordered newest first.
func (s *ContentStore) List(_ context.Context, limit int) ([]*domain.Content, error) {
	s.mu.RLock()
	out := make([]*domain.Content, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, copyContent(row))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyContent(c *domain.Content) *domain.Content {
	copied := *c
	copied.Keywords = append([]string(nil), c.Keywords...)
	copied.TargetPlatforms = append([]domain.Platform(nil), c.TargetPlatforms...)
	if c.GenerationTaskID != nil {
		id := *c.GenerationTaskID
		copied.GenerationTaskID = &id
	}
	if c.SourceTrendID != nil {
		id := *c.SourceTrendID
		copied.SourceTrendID = &id
	}
	return &copied
}

var _ store.ContentStore = (*ContentStore)(nil)
