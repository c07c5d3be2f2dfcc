package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// TrendSort selects the ordering of TrendStore.List results.
type TrendSort string

// Possible trend sort orders
const (
	TrendSortByPopularity   TrendSort = "popularity"
	TrendSortByDiscoveredAt TrendSort = "discovered_at"
)

// TrendStore defines the interface for persisting trends.
// Trends are written once by the orchestrator (bulk insert) and are
// immutable afterwards; there is deliberately no update operation.
type TrendStore interface {
	// InsertMany persists a batch of trends. Partial failures are not
	// retried individually; the first error aborts the batch.
	InsertMany(ctx context.Context, trends []*domain.Trend) error

	// GetByID retrieves a trend by its unique ID.
	// Returns ErrTrendNotFound if the trend does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trend, error)

	// List returns up to limit trends in the given sort order.
	List(ctx context.Context, sort TrendSort, limit int) ([]*domain.Trend, error)
}
