package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// DefaultTrendListLimit caps trend listings when the caller does not
// ask for a specific page size.
const DefaultTrendListLimit = 50

// TrendService serves trend queries and the manual trend-to-content
// workflow.
type TrendService struct {
	trends  store.TrendStore
	content store.ContentStore
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTrendService creates a TrendService.
func NewTrendService(
	trends store.TrendStore,
	content store.ContentStore,
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *TrendService {
	return &TrendService{
		trends:  trends,
		content: content,
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "trend_service")),
	}
}

// ListTrends returns stored trends in the requested order. An empty
// sort string defaults to popularity.
func (s *TrendService) ListTrends(ctx context.Context, sort string, limit int) ([]*domain.Trend, error) {
	order := store.TrendSortByPopularity
	switch sort {
	case "", string(store.TrendSortByPopularity):
	case string(store.TrendSortByDiscoveredAt):
		order = store.TrendSortByDiscoveredAt
	default:
		return nil, validationError("unknown sort order %q", sort)
	}

	if limit <= 0 {
		limit = DefaultTrendListLimit
	}
	return s.trends.List(ctx, order, limit)
}

// GetPopularTrends returns the highest scoring stored trends.
func (s *TrendService) GetPopularTrends(ctx context.Context, limit int) ([]*domain.Trend, error) {
	if limit <= 0 {
		limit = DefaultTrendListLimit
	}
	return s.trends.List(ctx, store.TrendSortByPopularity, limit)
}

// GetTrend returns a trend by id.
func (s *TrendService) GetTrend(ctx context.Context, id uuid.UUID) (*domain.Trend, error) {
	return s.trends.GetByID(ctx, id)
}

// CreateContentFromTrend builds a draft Content record from a stored
// trend and dispatches a content_generation task for it. Returns the
// new content record and the generation task.
func (s *TrendService) CreateContentFromTrend(ctx context.Context, trendID uuid.UUID) (*domain.Content, *domain.Task, error) {
	trend, err := s.trends.GetByID(ctx, trendID)
	if err != nil {
		return nil, nil, err
	}

	content, err := domain.NewContent(
		domain.ContentTypeVideo,
		fmt.Sprintf("Топ-5 способов использовать %s для получения подарков", trend.Keyword),
		trend.Keyword,
		fmt.Sprintf("Создано на основе тренда: %s", trend.Title),
		append([]string{trend.Keyword}, trend.Hashtags...),
		[]domain.Platform{domain.PlatformTikTok, domain.PlatformYouTube, domain.PlatformTelegram},
	)
	if err != nil {
		return nil, nil, NewServiceError("create_content_from_trend", "building content", err)
	}
	content.SourceTrendID = &trend.ID

	genTask, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
		"content_id":      content.ID.String(),
		"source_trend_id": trend.ID.String(),
		"auto_generated":  false,
	})
	if err != nil {
		return nil, nil, NewServiceError("create_content_from_trend", "building generation task", err)
	}
	genTaskID := genTask.ID
	content.GenerationTaskID = &genTaskID

	if err := s.content.Create(ctx, content); err != nil {
		return nil, nil, NewServiceError("create_content_from_trend", "persisting content", err)
	}
	if err := s.tasks.Create(ctx, genTask); err != nil {
		return nil, nil, NewServiceError("create_content_from_trend", "persisting generation task", err)
	}

	s.dispatch(ctx, genTask)

	s.logger.Info("content created from trend",
		slog.String("trend_id", trend.ID.String()),
		slog.String("content_id", content.ID.String()),
		slog.String("task_id", genTask.ID.String()))
	return content, genTask, nil
}

func (s *TrendService) dispatch(ctx context.Context, row *domain.Task) {
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
