package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/platform/mediaengine"
	"github.com/pulsefeed/pulse-api/internal/store"
)

// Synthesis request defaults
const (
	defaultTTSEngine   = string(mediaengine.TTSEngineGTTS)
	defaultTTSVoice    = string(mediaengine.VoiceFemale)
	defaultTTSLanguage = "ru"
	defaultTTSSpeed    = 1.0

	defaultVideoType     = string(mediaengine.VideoTypeAnimatedText)
	defaultVideoStyle    = string(mediaengine.VideoStyleModern)
	defaultVideoDuration = 30
)

// TTSTaskRequest carries the caller's synthesis parameters. Zero-value
// fields get the defaults above.
type TTSTaskRequest struct {
	Text     string
	Engine   string
	Voice    string
	Language string
	Speed    float64
}

// VideoTaskRequest carries the caller's render parameters.
type VideoTaskRequest struct {
	Text       string
	VideoType  string
	Style      string
	Duration   int
	Resolution string
	AudioPath  string
}

// MediaService creates speech synthesis and video rendering tasks.
// Parameter validation happens here, synchronously, so a request with
// bad parameters is rejected before a task row ever exists.
type MediaService struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewMediaService creates a MediaService.
func NewMediaService(tasks store.TaskStore, emitter events.EventEmitter, logger *slog.Logger) *MediaService {
	return &MediaService{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "media_service")),
	}
}

// CreateTTSTask validates the synthesis request and dispatches a
// tts_generation task for it.
func (s *MediaService) CreateTTSTask(ctx context.Context, req TTSTaskRequest) (*domain.Task, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, validationError("text must not be empty")
	}
	if req.Engine == "" {
		req.Engine = defaultTTSEngine
	}
	if req.Voice == "" {
		req.Voice = defaultTTSVoice
	}
	if req.Language == "" {
		req.Language = defaultTTSLanguage
	}
	if req.Speed == 0 {
		req.Speed = defaultTTSSpeed
	}

	if !mediaengine.ValidTTSEngine(req.Engine) {
		return nil, validationError("unknown tts engine %q", req.Engine)
	}
	if !mediaengine.ValidVoice(req.Voice) {
		return nil, validationError("unknown voice %q", req.Voice)
	}

	return s.createAndDispatch(ctx, domain.TaskTypeTTSGeneration, map[string]any{
		"text":     req.Text,
		"engine":   req.Engine,
		"voice":    req.Voice,
		"language": req.Language,
		"speed":    req.Speed,
	})
}

// CreateVideoTask validates the render request and dispatches a
// video_generation task for it.
func (s *MediaService) CreateVideoTask(ctx context.Context, req VideoTaskRequest) (*domain.Task, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, validationError("text must not be empty")
	}
	if req.VideoType == "" {
		req.VideoType = defaultVideoType
	}
	if req.Style == "" {
		req.Style = defaultVideoStyle
	}
	if req.Duration <= 0 {
		req.Duration = defaultVideoDuration
	}
	if req.Resolution == "" {
		req.Resolution = mediaengine.DefaultResolution
	}

	if !mediaengine.ValidVideoType(req.VideoType) {
		return nil, validationError("unknown video type %q", req.VideoType)
	}
	if !mediaengine.ValidVideoStyle(req.Style) {
		return nil, validationError("unknown video style %q", req.Style)
	}

	return s.createAndDispatch(ctx, domain.TaskTypeVideoGeneration, map[string]any{
		"text":       req.Text,
		"video_type": req.VideoType,
		"style":      req.Style,
		"duration":   req.Duration,
		"resolution": req.Resolution,
		"audio_path": req.AudioPath,
	})
}

// EngineInfo reports the synthesis capabilities of the bundled engines.
func (s *MediaService) EngineInfo() mediaengine.EngineInfo {
	return mediaengine.DefaultEngineInfo()
}

func (s *MediaService) createAndDispatch(ctx context.Context, taskType domain.TaskType, parameters map[string]any) (*domain.Task, error) {
	row, err := domain.NewTask(taskType, parameters)
	if err != nil {
		return nil, NewServiceError("create_media_task", "building task", err)
	}
	if err := s.tasks.Create(ctx, row); err != nil {
		return nil, NewServiceError("create_media_task", "persisting task", err)
	}

	event, err := events.NewTaskRequestEvent(string(row.Type), events.TaskDispatchPayload{TaskID: row.ID})
	if err != nil {
		s.logger.Warn("building dispatch event failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return row, nil
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("dispatching task failed, task stays pending",
			slog.String("task_id", row.ID.String()),
			slog.String("error", err.Error()))
		return row, nil
	}

	s.logger.Info("media task dispatched",
		slog.String("task_id", row.ID.String()),
		slog.String("task_type", string(row.Type)))
	return row, nil
}
