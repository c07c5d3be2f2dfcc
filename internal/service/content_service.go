package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// DefaultContentListLimit caps content listings when the caller does
// not ask for a specific page size.
const DefaultContentListLimit = 50

// ContentService manages content records.
type ContentService struct {
	content store.ContentStore
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(
	content store.ContentStore,
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		content: content,
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "content_service")),
	}
}

// CreateContent creates a new draft content record and dispatches a
// content_generation task that fills in its script.
func (s *ContentService) CreateContent(
	ctx context.Context,
	contentType string,
	title string,
	topic string,
	description string,
	keywords []string,
	platforms []string,
) (*domain.Content, error) {
	parsedType, err := domain.ParseContentType(contentType)
	if err != nil {
		return nil, validationError("unknown content type %q", contentType)
	}

	parsedPlatforms := make([]domain.Platform, 0, len(platforms))
	for _, p := range platforms {
		parsed, err := domain.ParsePlatform(p)
		if err != nil {
			return nil, validationError("unknown platform %q", p)
		}
		parsedPlatforms = append(parsedPlatforms, parsed)
	}

	content, err := domain.NewContent(parsedType, title, topic, description, keywords, parsedPlatforms)
	if err != nil {
		return nil, validationError("%s", err)
	}

	genTask, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
		"content_id":     content.ID.String(),
		"auto_generated": false,
	})
	if err != nil {
		return nil, NewServiceError("create_content", "building generation task", err)
	}
	genTaskID := genTask.ID
	content.GenerationTaskID = &genTaskID

	if err := s.content.Create(ctx, content); err != nil {
		return nil, NewServiceError("create_content", "persisting content", err)
	}
	if err := s.tasks.Create(ctx, genTask); err != nil {
		return nil, NewServiceError("create_content", "persisting generation task", err)
	}

	s.dispatch(ctx, genTask)

	s.logger.Info("content created",
		slog.String("content_id", content.ID.String()),
		slog.String("type", string(content.Type)),
		slog.String("task_id", genTask.ID.String()))
	return content, nil
}

// GetContent returns a content record by id.
func (s *ContentService) GetContent(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	return s.content.GetByID(ctx, id)
}

// ListContent returns stored content records, newest first.
func (s *ContentService) ListContent(ctx context.Context, limit int) ([]*domain.Content, error) {
	if limit <= 0 {
		limit = DefaultContentListLimit
	}
	return s.content.List(ctx, limit)
}

func (s *ContentService) dispatch(ctx context.Context, row *domain.Task) {
	event, err := events.NewTaskRequestEvent(string(row.Type), events.TaskDispatchPayload{TaskID: row.ID})
	if err != nil {
		s.logger.Warn("building dispatch event failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("dispatching task failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
	}
}
