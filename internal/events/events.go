// Package events decouples the services that request background work
// from the runner that executes it. Services emit a TaskRequestEvent
// and return immediately; a registered handler picks the event up and
// enqueues the matching executor. Neither side imports the other.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskRequestEvent asks the background layer to execute an already
// persisted task. Type mirrors the task's type; Payload carries the
// task-kind specific data as raw JSON so this package stays free of
// task dependencies.
type TaskRequestEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// TaskDispatchPayload is the payload shape every task-kind shares: a
// reference to the persisted task row. Executors load parameters from
// the row itself, not from the event.
type TaskDispatchPayload struct {
	TaskID uuid.UUID `json:"task_id"`
}

// NewTaskRequestEvent builds an event for the given task type, with the
// payload serialized to JSON.
func NewTaskRequestEvent(taskType string, payload any) (*TaskRequestEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      taskType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes emitted events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// EventEmitter publishes events to all registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
