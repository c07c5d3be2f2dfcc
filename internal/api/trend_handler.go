package api

import (
	"log/slog"
	"net/http"

	"github.com/pulsefeed/pulse-api/internal/api/shared"
	"github.com/pulsefeed/pulse-api/internal/service"
)

// TrendHandler serves the trend endpoints: listing stored trends,
// launching monitoring runs and promoting trends to content.
type TrendHandler struct {
	trendService *service.TrendService
	taskService  *service.TaskService
	logger       *slog.Logger
}

// NewTrendHandler creates a TrendHandler.
func NewTrendHandler(trendService *service.TrendService, taskService *service.TaskService, logger *slog.Logger) *TrendHandler {
	return &TrendHandler{
		trendService: trendService,
		taskService:  taskService,
		logger:       logger.With(slog.String("component", "trend_handler")),
	}
}

// Monitor handles POST /api/trends/monitor. It launches an asynchronous
// monitoring run and returns the observable task immediately.
func (h *TrendHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	var req MonitorTrendsRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	task, err := h.taskService.CreateTrendMonitoringTask(r.Context(), req.Sources)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, task)
}

// List handles GET /api/trends.
func (h *TrendHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	trends, err := h.trendService.ListTrends(r.Context(), r.URL.Query().Get("sort"), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trends)
}

// Popular handles GET /api/trends/popular.
func (h *TrendHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	trends, err := h.trendService.GetPopularTrends(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trends)
}

// CreateContent handles POST /api/trends/{id}/content.
func (h *TrendHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, task, err := h.trendService.CreateContentFromTrend(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ContentFromTrendResponse{
		ContentID: content.ID.String(),
		TaskID:    task.ID.String(),
	})
}
