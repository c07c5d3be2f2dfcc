package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pulsefeed/pulse-api/internal/events"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEmitter records emitted events or fails with a canned error.
type fakeEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *fakeEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

var _ events.EventEmitter = (*fakeEmitter)(nil)
