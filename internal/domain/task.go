package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a background task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusPaused    TaskStatus = "paused"
)

// TaskType identifies the kind of work a task performs.
type TaskType string

// Possible task type values
const (
	TaskTypeTrendMonitoring   TaskType = "trend_monitoring"
	TaskTypeContentGeneration TaskType = "content_generation"
	TaskTypePublishing        TaskType = "publishing"
	TaskTypeAnalytics         TaskType = "analytics"
	TaskTypeVideoGeneration   TaskType = "video_generation"
	TaskTypeTTSGeneration     TaskType = "tts_generation"
)

// Common validation and transition errors for Task
var (
	ErrInvalidTaskType    = errors.New("invalid task type")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrTaskFinalized      = errors.New("task already in a terminal state")
	ErrProgressRegression = errors.New("task progress cannot decrease")
	ErrProgressOutOfRange = errors.New("task progress must be between 0 and 100")
	ErrTaskNotRunning     = errors.New("task is not running")
)

// Task is the unit of asynchronous work. Its status, progress and result
// are observable by callers while an executor drives it in the background.
//
// Invariants: Result is set iff status is completed, ErrorMessage is set
// iff status is failed, and Progress never decreases while running. A task
// in a terminal state (completed or failed) is immutable.
type Task struct {
	ID           uuid.UUID      `json:"id"`
	Type         TaskType       `json:"type"`
	Status       TaskStatus     `json:"status"`
	Progress     int            `json:"progress"`
	Parameters   map[string]any `json:"parameters"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	Logs         []string       `json:"logs"`
}

// NewTask creates a new Task of the given type in pending state.
// Returns an error if the task type is not recognized.
func NewTask(taskType TaskType, parameters map[string]any) (*Task, error) {
	if !isValidTaskType(taskType) {
		return nil, ErrInvalidTaskType
	}

	if parameters == nil {
		parameters = map[string]any{}
	}

	now := time.Now().UTC()
	return &Task{
		ID:         uuid.New(),
		Type:       taskType,
		Status:     TaskStatusPending,
		Progress:   0,
		Parameters: parameters,
		CreatedAt:  now,
		UpdatedAt:  now,
		Logs:       []string{},
	}, nil
}

// IsTerminal reports whether the task has reached a terminal state.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// MarkRunning transitions the task to running with the given starting
// progress. StartedAt is recorded on the first transition only.
func (t *Task) MarkRunning(progress int) error {
	if t.IsTerminal() {
		return ErrTaskFinalized
	}
	if progress < 0 || progress > 100 {
		return ErrProgressOutOfRange
	}

	now := time.Now().UTC()
	t.Status = TaskStatusRunning
	t.Progress = progress
	t.UpdatedAt = now
	if t.StartedAt == nil {
		t.StartedAt = &now
	}
	return nil
}

// SetProgress updates the progress of a running task. Progress is
// monotonically non-decreasing.
func (t *Task) SetProgress(progress int) error {
	if t.Status != TaskStatusRunning {
		return ErrTaskNotRunning
	}
	if progress < 0 || progress > 100 {
		return ErrProgressOutOfRange
	}
	if progress < t.Progress {
		return ErrProgressRegression
	}

	t.Progress = progress
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the task to completed, forcing progress to 100 and
// recording the result. Allowed from any non-terminal state: in-flight work
// finishing after a pause request overwrites the paused status, which is
// the documented last-writer-wins behavior for the status field.
func (t *Task) Complete(result map[string]any) error {
	if t.IsTerminal() {
		return ErrTaskFinalized
	}

	now := time.Now().UTC()
	t.Status = TaskStatusCompleted
	t.Progress = 100
	t.Result = result
	t.ErrorMessage = ""
	t.UpdatedAt = now
	t.CompletedAt = &now
	return nil
}

// Fail transitions the task to failed with a human-readable error message.
// Allowed from any non-terminal state.
func (t *Task) Fail(message string) error {
	if t.IsTerminal() {
		return ErrTaskFinalized
	}

	t.Status = TaskStatusFailed
	t.ErrorMessage = message
	t.Result = nil
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Pause marks the task as paused. Pausing only changes the status field;
// work already in flight is not interrupted and may later write a terminal
// status over it.
func (t *Task) Pause() error {
	if t.IsTerminal() {
		return ErrTaskFinalized
	}

	t.Status = TaskStatusPaused
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// AppendLog adds a line to the task's execution log.
func (t *Task) AppendLog(line string) {
	t.Logs = append(t.Logs, line)
	t.UpdatedAt = time.Now().UTC()
}

// Validate checks that the task's type and status are recognized values.
func (t *Task) Validate() error {
	if !isValidTaskType(t.Type) {
		return ErrInvalidTaskType
	}
	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	if t.Progress < 0 || t.Progress > 100 {
		return ErrProgressOutOfRange
	}
	return nil
}

// ParseTaskType converts a string into a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	tt := TaskType(s)
	if !isValidTaskType(tt) {
		return "", ErrInvalidTaskType
	}
	return tt, nil
}

// ParseTaskStatus converts a string into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	ts := TaskStatus(s)
	if !isValidTaskStatus(ts) {
		return "", ErrInvalidTaskStatus
	}
	return ts, nil
}

func isValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeTrendMonitoring, TaskTypeContentGeneration, TaskTypePublishing,
		TaskTypeAnalytics, TaskTypeVideoGeneration, TaskTypeTTSGeneration:
		return true
	default:
		return false
	}
}

func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusPaused:
		return true
	default:
		return false
	}
}
