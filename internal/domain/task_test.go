package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("creates pending task with defaults", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, map[string]any{"sources": []string{"youtube"}})
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, 0, task.Progress)
		assert.NotEqual(t, [16]byte{}, [16]byte(task.ID))
		assert.Nil(t, task.StartedAt)
		assert.Nil(t, task.CompletedAt)
		assert.NotNil(t, task.Logs)
	})

	t.Run("nil parameters become an empty map", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeAnalytics, nil)
		require.NoError(t, err)
		assert.NotNil(t, task.Parameters)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewTask(domain.TaskType("reindex"), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTaskType)
	})
}

func TestTaskMarkRunning(t *testing.T) {
	t.Parallel()

	t.Run("records StartedAt once", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)

		require.NoError(t, task.MarkRunning(10))
		require.NotNil(t, task.StartedAt)
		first := *task.StartedAt

		require.NoError(t, task.MarkRunning(20))
		assert.Equal(t, first, *task.StartedAt)
		assert.Equal(t, 20, task.Progress)
	})

	t.Run("rejected on terminal task", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)
		require.NoError(t, task.Complete(nil))

		assert.ErrorIs(t, task.MarkRunning(0), domain.ErrTaskFinalized)
	})

	t.Run("rejects out of range progress", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, task.MarkRunning(101), domain.ErrProgressOutOfRange)
		assert.ErrorIs(t, task.MarkRunning(-1), domain.ErrProgressOutOfRange)
	})
}

func TestTaskSetProgress(t *testing.T) {
	t.Parallel()

	t.Run("progress is monotonic while running", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeContentGeneration, nil)
		require.NoError(t, err)
		require.NoError(t, task.MarkRunning(30))

		require.NoError(t, task.SetProgress(60))
		assert.ErrorIs(t, task.SetProgress(50), domain.ErrProgressRegression)
		assert.Equal(t, 60, task.Progress)
	})

	t.Run("rejected when not running", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeContentGeneration, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, task.SetProgress(10), domain.ErrTaskNotRunning)
	})
}

func TestTaskComplete(t *testing.T) {
	t.Parallel()

	t.Run("sets result and clears error", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)
		require.NoError(t, task.MarkRunning(50))

		require.NoError(t, task.Complete(map[string]any{"trends_found": 7}))
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		assert.Equal(t, 100, task.Progress)
		assert.Equal(t, 7, task.Result["trends_found"])
		assert.Empty(t, task.ErrorMessage)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("overwrites a pause request", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)
		require.NoError(t, task.MarkRunning(50))
		require.NoError(t, task.Pause())

		require.NoError(t, task.Complete(nil))
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	})

	t.Run("terminal task is immutable", func(t *testing.T) {
		t.Parallel()
		task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
		require.NoError(t, err)
		require.NoError(t, task.Fail("feed unreachable"))

		assert.ErrorIs(t, task.Complete(nil), domain.ErrTaskFinalized)
		assert.ErrorIs(t, task.Fail("again"), domain.ErrTaskFinalized)
		assert.ErrorIs(t, task.Pause(), domain.ErrTaskFinalized)
	})
}

func TestTaskFail(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(domain.TaskTypeTTSGeneration, nil)
	require.NoError(t, err)
	require.NoError(t, task.MarkRunning(40))
	require.NoError(t, task.Complete(map[string]any{"audio_path": "/tmp/out.mp3"}))

	fresh, err := domain.NewTask(domain.TaskTypeTTSGeneration, nil)
	require.NoError(t, err)
	require.NoError(t, fresh.Fail("engine unavailable"))

	assert.Equal(t, domain.TaskStatusFailed, fresh.Status)
	assert.Equal(t, "engine unavailable", fresh.ErrorMessage)
	assert.Nil(t, fresh.Result)
}

func TestTaskAppendLog(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
	require.NoError(t, err)

	task.AppendLog("collected 12 candidates")
	task.AppendLog("persisted 5 trends")
	assert.Equal(t, []string{"collected 12 candidates", "persisted 5 trends"}, task.Logs)
}

func TestParseTaskType(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{
		"trend_monitoring", "content_generation", "publishing",
		"analytics", "video_generation", "tts_generation",
	} {
		tt, err := domain.ParseTaskType(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, domain.TaskType(valid), tt)
	}

	_, err := domain.ParseTaskType("mining")
	assert.ErrorIs(t, err, domain.ErrInvalidTaskType)
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"pending", "running", "completed", "failed", "paused"} {
		ts, err := domain.ParseTaskStatus(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, domain.TaskStatus(valid), ts)
	}

	_, err := domain.ParseTaskStatus("queued")
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(domain.TaskTypeTrendMonitoring, nil)
	require.NoError(t, err)
	require.NoError(t, task.Validate())

	task.Status = domain.TaskStatus("archived")
	assert.ErrorIs(t, task.Validate(), domain.ErrInvalidTaskStatus)

	task.Status = domain.TaskStatusPending
	task.Progress = 150
	assert.ErrorIs(t, task.Validate(), domain.ErrProgressOutOfRange)
}
