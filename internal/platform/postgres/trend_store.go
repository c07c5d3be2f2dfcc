package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/platform/logger"
	"github.com/pulsefeed/pulse-api/internal/store"
)

const trendColumns = `id, keyword, title, description, source, url,
	popularity_score, hashtags, discovered_at, last_updated, metadata`

// PostgresTrendStore implements store.TrendStore using PostgreSQL.
type PostgresTrendStore struct {
	db store.DBTX
}

// Ensure PostgresTrendStore implements store.TrendStore.
var _ store.TrendStore = (*PostgresTrendStore)(nil)

// NewPostgresTrendStore creates a new PostgresTrendStore.
func NewPostgresTrendStore(db store.DBTX) *PostgresTrendStore {
	return &PostgresTrendStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresTrendStore) WithTx(tx *sql.Tx) *PostgresTrendStore {
	return &PostgresTrendStore{db: tx}
}

// InsertMany persists a batch of trends. The whole batch is validated
// before the first insert. When the store is bound to a *sql.DB the
// batch runs in a transaction so a mid-batch failure leaves nothing
// behind; inside an existing transaction the rows join it.
func (s *PostgresTrendStore) InsertMany(ctx context.Context, trends []*domain.Trend) error {
	for _, trend := range trends {
		if err := trend.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.WithTx(tx).insertAll(ctx, trends)
		})
	}
	return s.insertAll(ctx, trends)
}

func (s *PostgresTrendStore) insertAll(ctx context.Context, trends []*domain.Trend) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO trends (id, keyword, title, description, source, url,
			popularity_score, hashtags, discovered_at, last_updated, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, trend := range trends {
		hashtags, err := marshalJSONB(trend.Hashtags)
		if err != nil {
			return err
		}
		metadata, err := marshalJSONB(trend.Metadata)
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(ctx, query,
			trend.ID,
			trend.Keyword,
			trend.Title,
			trend.Description,
			trend.Source,
			nullString(trend.URL),
			trend.PopularityScore,
			hashtags,
			trend.DiscoveredAt,
			trend.LastUpdated,
			metadata,
		)
		if err != nil {
			log.Error("failed to insert trend",
				"trend_id", trend.ID,
				"source", trend.Source,
				"error", err)
			return MapError(err)
		}
	}

	return nil
}

// GetByID retrieves a trend by its unique ID.
func (s *PostgresTrendStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trend, error) {
	query := fmt.Sprintf(`SELECT %s FROM trends WHERE id = $1`, trendColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	trend, err := scanTrend(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrendNotFound
		}
		return nil, MapError(err)
	}
	return trend, nil
}

// List returns up to limit trends in the given sort order.
func (s *PostgresTrendStore) List(ctx context.Context, sort store.TrendSort, limit int) ([]*domain.Trend, error) {
	log := logger.FromContext(ctx)

	orderBy := "popularity_score DESC"
	if sort == store.TrendSortByDiscoveredAt {
		orderBy = "discovered_at DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM trends ORDER BY %s`, trendColumns, orderBy)
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query trends", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var trends []*domain.Trend
	for rows.Next() {
		trend, err := scanTrend(rows)
		if err != nil {
			return nil, MapError(err)
		}
		trends = append(trends, trend)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return trends, nil
}

func scanTrend(row scanner) (*domain.Trend, error) {
	var (
		trend    domain.Trend
		url      sql.NullString
		hashtags []byte
		metadata []byte
	)

	err := row.Scan(
		&trend.ID,
		&trend.Keyword,
		&trend.Title,
		&trend.Description,
		&trend.Source,
		&url,
		&trend.PopularityScore,
		&hashtags,
		&trend.DiscoveredAt,
		&trend.LastUpdated,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(hashtags, &trend.Hashtags); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(metadata, &trend.Metadata); err != nil {
		return nil, err
	}
	if trend.Hashtags == nil {
		trend.Hashtags = []string{}
	}
	trend.URL = url.String
	trend.DiscoveredAt = trend.DiscoveredAt.UTC()
	trend.LastUpdated = trend.LastUpdated.UTC()

	return &trend, nil
}
