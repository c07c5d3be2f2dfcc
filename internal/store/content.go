package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// ContentStore defines the interface for persisting content records.
type ContentStore interface {
	// Create saves a new content record to the store.
	Create(ctx context.Context, content *domain.Content) error

	// GetByID retrieves a content record by its unique ID.
	// Returns ErrContentNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Content, error)

	// Update saves changes to an existing content record.
	// Returns ErrContentNotFound if the record does not exist.
	Update(ctx context.Context, content *domain.Content) error

	// List returns up to limit content records, newest first.
	List(ctx context.Context, limit int) ([]*domain.Content, error)
}
