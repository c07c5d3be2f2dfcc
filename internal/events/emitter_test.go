package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func newDispatchEvent(t *testing.T) *TaskRequestEvent {
	t.Helper()
	event, err := NewTaskRequestEvent("trend_monitoring", TaskDispatchPayload{TaskID: uuid.New()})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers is not an error", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), newDispatchEvent(t)))
	})

	t.Run("all handlers receive the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		first := &recordingHandler{}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event := newDispatchEvent(t)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Len(t, first.events, 1)
		require.Len(t, second.events, 1)
		assert.Same(t, event, first.events[0])
		assert.Same(t, event, second.events[0])
	})

	t.Run("failing handler does not block the rest", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("queue full")}
		healthy := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		err := emitter.EmitEvent(context.Background(), newDispatchEvent(t))
		assert.EqualError(t, err, "queue full")
		assert.Len(t, healthy.events, 1)
	})
}

func TestTaskRequestEventPayload(t *testing.T) {
	taskID := uuid.New()
	event, err := NewTaskRequestEvent("content_generation", TaskDispatchPayload{TaskID: taskID})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "content_generation", event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var payload TaskDispatchPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, taskID, payload.TaskID)
}

func TestNewTaskRequestEventRejectsUnserializablePayload(t *testing.T) {
	_, err := NewTaskRequestEvent("trend_monitoring", map[string]any{"fn": func() {}})
	assert.Error(t, err)
}
