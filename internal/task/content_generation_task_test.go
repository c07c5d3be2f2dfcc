package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

func seedContentDraft(t *testing.T, contentStore *memContentStore) *domain.Content {
	t.Helper()
	content, err := domain.NewContent(
		domain.ContentTypeVideo,
		"Как использовать telegram для получения подарков в Telegram",
		"telegram",
		"Автоматически создано на основе тренда: Telegram боты",
		[]string{"telegram", "#боты"},
		[]domain.Platform{domain.PlatformTikTok, domain.PlatformTelegram},
	)
	require.NoError(t, err)
	require.NoError(t, contentStore.Create(context.Background(), content))
	return content
}

func TestContentGenerationTaskExecute(t *testing.T) {
	t.Run("generates a script and marks the draft ready", func(t *testing.T) {
		tasks := newMemTaskStore()
		contentStore := newMemContentStore()
		content := seedContentDraft(t, contentStore)

		row, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
			"content_id":     content.ID.String(),
			"auto_generated": true,
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(context.Background(), row))

		generator := &fakeGenerator{script: "СЦЕНА 1: привет"}
		exec := NewContentGenerationTask(row.ID, tasks, contentStore, generator, discardLogger())
		require.NoError(t, exec.Execute(context.Background()))

		final := tasks.mustGet(t, row.ID)
		assert.Equal(t, domain.TaskStatusCompleted, final.Status)
		assert.Equal(t, content.ID.String(), final.Result["content_id"])
		assert.Equal(t, len([]rune("СЦЕНА 1: привет")), final.Result["script_length"])

		saved, err := contentStore.GetByID(context.Background(), content.ID)
		require.NoError(t, err)
		assert.Equal(t, "СЦЕНА 1: привет", saved.Script)
		assert.Equal(t, domain.ContentStatusReady, saved.Status)
	})

	t.Run("generator failure fails the task and keeps the draft", func(t *testing.T) {
		tasks := newMemTaskStore()
		contentStore := newMemContentStore()
		content := seedContentDraft(t, contentStore)

		row, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
			"content_id": content.ID.String(),
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(context.Background(), row))

		generator := &fakeGenerator{err: errors.New("model unavailable")}
		exec := NewContentGenerationTask(row.ID, tasks, contentStore, generator, discardLogger())
		require.Error(t, exec.Execute(context.Background()))

		final := tasks.mustGet(t, row.ID)
		assert.Equal(t, domain.TaskStatusFailed, final.Status)
		assert.Contains(t, final.ErrorMessage, "model unavailable")

		saved, err := contentStore.GetByID(context.Background(), content.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentStatusDraft, saved.Status)
		assert.Empty(t, saved.Script)
	})

	t.Run("invalid content id fails the task", func(t *testing.T) {
		tasks := newMemTaskStore()
		row, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
			"content_id": "not-a-uuid",
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(context.Background(), row))

		exec := NewContentGenerationTask(row.ID, tasks, newMemContentStore(), &fakeGenerator{script: "x"}, discardLogger())
		require.Error(t, exec.Execute(context.Background()))

		final := tasks.mustGet(t, row.ID)
		assert.Equal(t, domain.TaskStatusFailed, final.Status)
		assert.Contains(t, final.ErrorMessage, "invalid content id")
	})

	t.Run("missing content fails the task", func(t *testing.T) {
		tasks := newMemTaskStore()
		row, err := domain.NewTask(domain.TaskTypeContentGeneration, map[string]any{
			"content_id": newUUID(t).String(),
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(context.Background(), row))

		exec := NewContentGenerationTask(row.ID, tasks, newMemContentStore(), &fakeGenerator{script: "x"}, discardLogger())
		require.Error(t, exec.Execute(context.Background()))

		final := tasks.mustGet(t, row.ID)
		assert.Equal(t, domain.TaskStatusFailed, final.Status)
		assert.Contains(t, final.ErrorMessage, "loading content")
	})
}
