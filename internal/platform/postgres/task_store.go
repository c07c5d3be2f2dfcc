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

// taskColumns is the column list shared by all task SELECT statements.
const taskColumns = `id, type, status, progress, parameters, result,
	error_message, created_at, updated_at, started_at, completed_at, logs`

// PostgresTaskStore implements store.TaskStore using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// Ensure PostgresTaskStore implements store.TaskStore.
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{db: tx}
}

// Create saves a new task row.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	parameters, err := marshalJSONB(task.Parameters)
	if err != nil {
		return err
	}
	result, err := marshalJSONB(task.Result)
	if err != nil {
		return err
	}
	logs, err := marshalJSONB(task.Logs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, type, status, progress, parameters, result,
			error_message, created_at, updated_at, started_at, completed_at, logs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Type,
		task.Status,
		task.Progress,
		parameters,
		result,
		nullString(task.ErrorMessage),
		task.CreatedAt,
		task.UpdatedAt,
		task.StartedAt,
		task.CompletedAt,
		logs,
	)
	if err != nil {
		log.Error("failed to insert task",
			"task_id", task.ID,
			"task_type", task.Type,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a task by its unique ID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// Update saves changes to an existing task row.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	parameters, err := marshalJSONB(task.Parameters)
	if err != nil {
		return err
	}
	result, err := marshalJSONB(task.Result)
	if err != nil {
		return err
	}
	logs, err := marshalJSONB(task.Logs)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET status = $2, progress = $3, parameters = $4, result = $5,
			error_message = $6, updated_at = $7, started_at = $8,
			completed_at = $9, logs = $10
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Status,
		task.Progress,
		parameters,
		result,
		nullString(task.ErrorMessage),
		task.UpdatedAt,
		task.StartedAt,
		task.CompletedAt,
		logs,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"status", task.Status,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrTaskNotFound)
}

// Delete removes a task row regardless of its state.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(res, store.ErrTaskNotFound)
}

// List returns tasks matching the filter, newest first.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(`SELECT %s FROM tasks`, taskColumns)
	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task         domain.Task
		parameters   []byte
		result       []byte
		logs         []byte
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.Type,
		&task.Status,
		&task.Progress,
		&parameters,
		&result,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
		&startedAt,
		&completedAt,
		&logs,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(parameters, &task.Parameters); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(result, &task.Result); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(logs, &task.Logs); err != nil {
		return nil, err
	}
	if task.Parameters == nil {
		task.Parameters = map[string]any{}
	}
	if task.Logs == nil {
		task.Logs = []string{}
	}
	task.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		task.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		task.CompletedAt = &t
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
