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

const contentColumns = `id, type, title, topic, description, keywords,
	script, audio_path, video_path, status, created_at, updated_at,
	generation_task_id, target_platforms, source_trend_id`

// PostgresContentStore implements store.ContentStore using PostgreSQL.
type PostgresContentStore struct {
	db store.DBTX
}

// Ensure PostgresContentStore implements store.ContentStore.
var _ store.ContentStore = (*PostgresContentStore)(nil)

// NewPostgresContentStore creates a new PostgresContentStore.
func NewPostgresContentStore(db store.DBTX) *PostgresContentStore {
	return &PostgresContentStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresContentStore) WithTx(tx *sql.Tx) *PostgresContentStore {
	return &PostgresContentStore{db: tx}
}

// Create saves a new content row.
func (s *PostgresContentStore) Create(ctx context.Context, content *domain.Content) error {
	log := logger.FromContext(ctx)

	if err := content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	keywords, err := marshalJSONB(content.Keywords)
	if err != nil {
		return err
	}
	platforms, err := marshalJSONB(content.TargetPlatforms)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content (id, type, title, topic, description, keywords,
			script, audio_path, video_path, status, created_at, updated_at,
			generation_task_id, target_platforms, source_trend_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = s.db.ExecContext(ctx, query,
		content.ID,
		content.Type,
		content.Title,
		content.Topic,
		nullString(content.Description),
		keywords,
		nullString(content.Script),
		nullString(content.AudioPath),
		nullString(content.VideoPath),
		content.Status,
		content.CreatedAt,
		content.UpdatedAt,
		content.GenerationTaskID,
		platforms,
		content.SourceTrendID,
	)
	if err != nil {
		log.Error("failed to insert content",
			"content_id", content.ID,
			"content_type", content.Type,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a content record by its unique ID.
func (s *PostgresContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM content WHERE id = $1`, contentColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContentNotFound
		}
		return nil, MapError(err)
	}
	return content, nil
}

// Update saves changes to an existing content row.
func (s *PostgresContentStore) Update(ctx context.Context, content *domain.Content) error {
	log := logger.FromContext(ctx)

	if err := content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	keywords, err := marshalJSONB(content.Keywords)
	if err != nil {
		return err
	}
	platforms, err := marshalJSONB(content.TargetPlatforms)
	if err != nil {
		return err
	}

	query := `
		UPDATE content
		SET type = $2, title = $3, topic = $4, description = $5, keywords = $6,
			script = $7, audio_path = $8, video_path = $9, status = $10,
			updated_at = $11, generation_task_id = $12, target_platforms = $13,
			source_trend_id = $14
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query,
		content.ID,
		content.Type,
		content.Title,
		content.Topic,
		nullString(content.Description),
		keywords,
		nullString(content.Script),
		nullString(content.AudioPath),
		nullString(content.VideoPath),
		content.Status,
		content.UpdatedAt,
		content.GenerationTaskID,
		platforms,
		content.SourceTrendID,
	)
	if err != nil {
		log.Error("failed to update content",
			"content_id", content.ID,
			"status", content.Status,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrContentNotFound)
}

// List returns up to limit content records, newest first.
func (s *PostgresContentStore) List(ctx context.Context, limit int) ([]*domain.Content, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(`SELECT %s FROM content ORDER BY created_at DESC`, contentColumns)
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query content", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, content)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

func scanContent(row scanner) (*domain.Content, error) {
	var (
		content          domain.Content
		description      sql.NullString
		keywords         []byte
		script           sql.NullString
		audioPath        sql.NullString
		videoPath        sql.NullString
		generationTaskID uuid.NullUUID
		platforms        []byte
		sourceTrendID    uuid.NullUUID
	)

	err := row.Scan(
		&content.ID,
		&content.Type,
		&content.Title,
		&content.Topic,
		&description,
		&keywords,
		&script,
		&audioPath,
		&videoPath,
		&content.Status,
		&content.CreatedAt,
		&content.UpdatedAt,
		&generationTaskID,
		&platforms,
		&sourceTrendID,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(keywords, &content.Keywords); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(platforms, &content.TargetPlatforms); err != nil {
		return nil, err
	}
	if content.Keywords == nil {
		content.Keywords = []string{}
	}
	if content.TargetPlatforms == nil {
		content.TargetPlatforms = []domain.Platform{}
	}
	content.Description = description.String
	content.Script = script.String
	content.AudioPath = audioPath.String
	content.VideoPath = videoPath.String
	if generationTaskID.Valid {
		id := generationTaskID.UUID
		content.GenerationTaskID = &id
	}
	if sourceTrendID.Valid {
		id := sourceTrendID.UUID
		content.SourceTrendID = &id
	}
	content.CreatedAt = content.CreatedAt.UTC()
	content.UpdatedAt = content.UpdatedAt.UTC()

	return &content, nil
}
