package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/platform/memory"
	"github.com/pulsefeed/pulse-api/internal/store"
)

type fakeEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (e *fakeEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunOnce(t *testing.T) {
	t.Run("creates and dispatches a monitoring task", func(t *testing.T) {
		tasks := memory.NewTaskStore()
		emitter := &fakeEmitter{}
		s := NewScheduler(tasks, emitter, time.Minute, []string{"youtube"}, discardLogger())

		require.NoError(t, s.RunOnce(context.Background()))

		rows, err := tasks.List(context.Background(), store.TaskFilter{Type: domain.TaskTypeTrendMonitoring})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.TaskStatusPending, rows[0].Status)
		assert.Equal(t, []string{"youtube"}, rows[0].Parameters["sources"])

		require.Len(t, emitter.events, 1)
		assert.Equal(t, string(domain.TaskTypeTrendMonitoring), emitter.events[0].Type)

		var payload events.TaskDispatchPayload
		require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
		assert.Equal(t, rows[0].ID, payload.TaskID)
	})

	t.Run("dispatch failure leaves the task pending", func(t *testing.T) {
		tasks := memory.NewTaskStore()
		emitter := &fakeEmitter{err: errors.New("emitter down")}
		s := NewScheduler(tasks, emitter, time.Minute, nil, discardLogger())

		require.NoError(t, s.RunOnce(context.Background()))

		rows, err := tasks.List(context.Background(), store.TaskFilter{Status: domain.TaskStatusPending})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("each tick creates a fresh task", func(t *testing.T) {
		tasks := memory.NewTaskStore()
		s := NewScheduler(tasks, &fakeEmitter{}, time.Minute, nil, discardLogger())

		require.NoError(t, s.RunOnce(context.Background()))
		require.NoError(t, s.RunOnce(context.Background()))

		rows, err := tasks.List(context.Background(), store.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestSchedulerStartStop(t *testing.T) {
	tasks := memory.NewTaskStore()
	s := NewScheduler(tasks, &fakeEmitter{}, time.Hour, nil, discardLogger())

	require.NoError(t, s.Start())
	s.Stop()
}
