package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/platform/memory"
	"github.com/pulsefeed/pulse-api/internal/store"
)

func trendServiceFixture() (*TrendService, *memory.TrendStore, *memory.ContentStore, *memory.TaskStore, *fakeEmitter) {
	trends := memory.NewTrendStore()
	content := memory.NewContentStore()
	tasks := memory.NewTaskStore()
	emitter := &fakeEmitter{}
	svc := NewTrendService(trends, content, tasks, emitter, discardLogger())
	return svc, trends, content, tasks, emitter
}

func seedTrend(t *testing.T, trends *memory.TrendStore, title string, score float64) *domain.Trend {
	t.Helper()
	trend, err := domain.NewTrendFromCandidate(domain.TrendCandidate{
		Keyword:         "telegram",
		Title:           title,
		Source:          "youtube",
		PopularityScore: score,
		Hashtags:        []string{"#telegram", "#подарки"},
		DiscoveredAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, trends.InsertMany(context.Background(), []*domain.Trend{trend}))
	return trend
}

func TestTrendServiceListTrends(t *testing.T) {
	ctx := context.Background()
	svc, trends, _, _, _ := trendServiceFixture()
	seedTrend(t, trends, "low", 0.2)
	seedTrend(t, trends, "high", 0.9)

	t.Run("default sort is popularity", func(t *testing.T) {
		out, err := svc.ListTrends(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "high", out[0].Title)
	})

	t.Run("explicit discovery sort", func(t *testing.T) {
		out, err := svc.ListTrends(ctx, "discovered_at", 1)
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("unknown sort is a validation error", func(t *testing.T) {
		_, err := svc.ListTrends(ctx, "alphabetical", 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("popular helper", func(t *testing.T) {
		out, err := svc.GetPopularTrends(ctx, 1)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "high", out[0].Title)
	})
}

func TestTrendServiceCreateContentFromTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("creates content and dispatches a generation task", func(t *testing.T) {
		svc, trends, contentStore, tasks, emitter := trendServiceFixture()
		trend := seedTrend(t, trends, "Telegram боты набирают обороты", 0.8)

		content, genTask, err := svc.CreateContentFromTrend(ctx, trend.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.ContentTypeVideo, content.Type)
		assert.Equal(t, "Топ-5 способов использовать telegram для получения подарков", content.Title)
		assert.Equal(t, "telegram", content.Topic)
		assert.Equal(t, []string{"telegram", "#telegram", "#подарки"}, content.Keywords)
		require.NotNil(t, content.SourceTrendID)
		assert.Equal(t, trend.ID, *content.SourceTrendID)
		require.NotNil(t, content.GenerationTaskID)
		assert.Equal(t, genTask.ID, *content.GenerationTaskID)

		storedContent, err := contentStore.GetByID(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusDraft, storedContent.Status)

		storedTask, err := tasks.GetByID(ctx, genTask.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskTypeContentGeneration, storedTask.Type)
		assert.Equal(t, content.ID.String(), storedTask.Parameters["content_id"])
		assert.Equal(t, false, storedTask.Parameters["auto_generated"])

		require.Len(t, emitter.events, 1)
		var payload events.TaskDispatchPayload
		require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
		assert.Equal(t, genTask.ID, payload.TaskID)
	})

	t.Run("missing trend returns not found", func(t *testing.T) {
		svc, _, _, _, _ := trendServiceFixture()
		trend, err := domain.NewTrendFromCandidate(domain.TrendCandidate{
			Title: "x", Source: "youtube", PopularityScore: 0.5,
		})
		require.NoError(t, err)

		_, _, err = svc.CreateContentFromTrend(ctx, trend.ID)
		assert.ErrorIs(t, err, store.ErrTrendNotFound)
	})
}
