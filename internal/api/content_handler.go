package api

import (
	"log/slog"
	"net/http"

	"github.com/pulsefeed/pulse-api/internal/api/shared"
	"github.com/pulsefeed/pulse-api/internal/service"
)

// ContentHandler serves the content record endpoints.
type ContentHandler struct {
	contentService *service.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(contentService *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger.With(slog.String("component", "content_handler")),
	}
}

// Create handles POST /api/content.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	content, err := h.contentService.CreateContent(
		r.Context(),
		req.Type,
		req.Title,
		req.Topic,
		req.Description,
		req.Keywords,
		req.Platforms,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, content)
}

// List handles GET /api/content.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	records, err := h.contentService.ListContent(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, records)
}

// Get handles GET /api/content/{id}.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, err := h.contentService.GetContent(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, content)
}
