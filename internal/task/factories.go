package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/generation"
	"github.com/pulsefeed/pulse-api/internal/platform/mediaengine"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// TrendMonitoringTaskFactory builds trend monitoring executors.
type TrendMonitoringTaskFactory struct {
	tasks     store.TaskStore
	trends    store.TrendStore
	content   store.ContentStore
	collector Collector
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTrendMonitoringTaskFactory wires the dependencies shared by all
// trend monitoring executors.
func NewTrendMonitoringTaskFactory(
	tasks store.TaskStore,
	trends store.TrendStore,
	content store.ContentStore,
	collector Collector,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *TrendMonitoringTaskFactory {
	return &TrendMonitoringTaskFactory{
		tasks:     tasks,
		trends:    trends,
		content:   content,
		collector: collector,
		emitter:   emitter,
		logger:    logger,
	}
}

// TaskType implements Factory.
func (f *TrendMonitoringTaskFactory) TaskType() domain.TaskType {
	return domain.TaskTypeTrendMonitoring
}

// NewExecutor implements Factory.
func (f *TrendMonitoringTaskFactory) NewExecutor(taskID uuid.UUID) (Executor, error) {
	return NewTrendMonitoringTask(taskID, f.tasks, f.trends, f.content, f.collector, f.emitter, f.logger), nil
}

// ContentGenerationTaskFactory builds content generation executors.
type ContentGenerationTaskFactory struct {
	tasks     store.TaskStore
	content   store.ContentStore
	generator generation.Generator
	logger    *slog.Logger
}

// NewContentGenerationTaskFactory wires the dependencies shared by all
// content generation executors.
func NewContentGenerationTaskFactory(
	tasks store.TaskStore,
	content store.ContentStore,
	generator generation.Generator,
	logger *slog.Logger,
) *ContentGenerationTaskFactory {
	return &ContentGenerationTaskFactory{
		tasks:     tasks,
		content:   content,
		generator: generator,
		logger:    logger,
	}
}

// TaskType implements Factory.
func (f *ContentGenerationTaskFactory) TaskType() domain.TaskType {
	return domain.TaskTypeContentGeneration
}

// NewExecutor implements Factory.
func (f *ContentGenerationTaskFactory) NewExecutor(taskID uuid.UUID) (Executor, error) {
	return NewContentGenerationTask(taskID, f.tasks, f.content, f.generator, f.logger), nil
}

// TTSGenerationTaskFactory builds speech synthesis executors.
type TTSGenerationTaskFactory struct {
	tasks       store.TaskStore
	synthesizer mediaengine.AudioSynthesizer
	logger      *slog.Logger
}

// NewTTSGenerationTaskFactory wires the dependencies shared by all
// speech synthesis executors.
func NewTTSGenerationTaskFactory(
	tasks store.TaskStore,
	synthesizer mediaengine.AudioSynthesizer,
	logger *slog.Logger,
) *TTSGenerationTaskFactory {
	return &TTSGenerationTaskFactory{tasks: tasks, synthesizer: synthesizer, logger: logger}
}

// TaskType implements Factory.
func (f *TTSGenerationTaskFactory) TaskType() domain.TaskType {
	return domain.TaskTypeTTSGeneration
}

// NewExecutor implements Factory.
func (f *TTSGenerationTaskFactory) NewExecutor(taskID uuid.UUID) (Executor, error) {
	return NewTTSGenerationTask(taskID, f.tasks, f.synthesizer, f.logger), nil
}

// VideoGenerationTaskFactory builds video rendering executors.
type VideoGenerationTaskFactory struct {
	tasks    store.TaskStore
	renderer mediaengine.VideoRenderer
	logger   *slog.Logger
}

// NewVideoGenerationTaskFactory wires the dependencies shared by all
// video rendering executors.
func NewVideoGenerationTaskFactory(
	tasks store.TaskStore,
	renderer mediaengine.VideoRenderer,
	logger *slog.Logger,
) *VideoGenerationTaskFactory {
	return &VideoGenerationTaskFactory{tasks: tasks, renderer: renderer, logger: logger}
}

// TaskType implements Factory.
func (f *VideoGenerationTaskFactory) TaskType() domain.TaskType {
	return domain.TaskTypeVideoGeneration
}

// NewExecutor implements Factory.
func (f *VideoGenerationTaskFactory) NewExecutor(taskID uuid.UUID) (Executor, error) {
	return NewVideoGenerationTask(taskID, f.tasks, f.renderer, f.logger), nil
}
