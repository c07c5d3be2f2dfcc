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

// TrendStore is an in-memory implementation of store.TrendStore.
type TrendStore struct {
	mu   sync.RWMutex
	rows []*domain.Trend
	byID map[uuid.UUID]*domain.Trend
}

// NewTrendStore creates an empty in-memory trend store.
func NewTrendStore() *TrendStore {
	return &TrendStore{byID: make(map[uuid.UUID]*domain.Trend)}
}

// InsertMany implements store.TrendStore. The whole batch is validated
// before anything is written, so a failed call leaves the store unchanged.
func (s *TrendStore) InsertMany(_ context.Context, trends []*domain.Trend) error {
	for _, trend := range trends {
		if err := trend.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, trend := range trends {
		if _, ok := s.byID[trend.ID]; ok {
			return fmt.Errorf("%w: trend %s", store.ErrDuplicate, trend.ID)
		}
	}
	for _, trend := range trends {
		copied := copyTrend(trend)
		s.rows = append(s.rows, copied)
		s.byID[copied.ID] = copied
	}
	return nil
}

// GetByID implements store.TrendStore.
func (s *TrendStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Trend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.byID[id]
	if !ok {
		return nil, store.ErrTrendNotFound
	}
	return copyTrend(row), nil
}

// List implements store.TrendStore.
func (s *TrendStore) List(_ context.Context, order store.TrendSort, limit int) ([]*domain.Trend, error) {
	s.mu.RLock()
	out := make([]*domain.Trend, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, copyTrend(row))
	}
	s.mu.RUnlock()

	switch order {
	case store.TrendSortByDiscoveredAt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DiscoveredAt.After(out[j].DiscoveredAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PopularityScore > out[j].PopularityScore
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyTrend(t *domain.Trend) *domain.Trend {
	copied := *t
	copied.Hashtags = append([]string(nil), t.Hashtags...)
	copied.Metadata = copyMap(t.Metadata)
	return &copied
}

var _ store.TrendStore = (*TrendStore)(nil)
