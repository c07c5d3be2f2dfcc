package api

import (
	"log/slog"
	"net/http"

	"github.com/pulsefeed/pulse-api/internal/api/shared"
	"github.com/pulsefeed/pulse-api/internal/service"
)

// MediaHandler serves the speech synthesis and video rendering endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
	logger       *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		logger:       logger.With(slog.String("component", "media_handler")),
	}
}

// CreateTTS handles POST /api/tts.
func (h *MediaHandler) CreateTTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.mediaService.CreateTTSTask(r.Context(), service.TTSTaskRequest{
		Text:     req.Text,
		Engine:   req.Engine,
		Voice:    req.Voice,
		Language: req.Language,
		Speed:    req.Speed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, task)
}

// Info handles GET /api/tts/info.
func (h *MediaHandler) Info(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.mediaService.EngineInfo())
}

// CreateVideo handles POST /api/video.
func (h *MediaHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.mediaService.CreateVideoTask(r.Context(), service.VideoTaskRequest{
		Text:       req.Text,
		VideoType:  req.VideoType,
		Style:      req.Style,
		Duration:   req.Duration,
		Resolution: req.Resolution,
		AudioPath:  req.AudioPath,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, task)
}
