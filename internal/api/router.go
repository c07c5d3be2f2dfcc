package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pulsefeed/pulse-api/internal/api/middleware"
	"github.com/pulsefeed/pulse-api/internal/api/shared"
)

// Handlers bundles the endpoint handlers wired into the router.
type Handlers struct {
	Tasks   *TaskHandler
	Trends  *TrendHandler
	Content *ContentHandler
	Media   *MediaHandler
}

// NewRouter builds the HTTP route tree.
func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.Tasks.Create)
			r.Get("/", h.Tasks.List)
			r.Get("/{id}", h.Tasks.Get)
			r.Post("/{id}/pause", h.Tasks.Pause)
			r.Delete("/{id}", h.Tasks.Delete)
		})

		r.Route("/trends", func(r chi.Router) {
			r.Post("/monitor", h.Trends.Monitor)
			r.Get("/", h.Trends.List)
			r.Get("/popular", h.Trends.Popular)
			r.Post("/{id}/content", h.Trends.CreateContent)
		})

		r.Route("/content", func(r chi.Router) {
			r.Post("/", h.Content.Create)
			r.Get("/", h.Content.List)
			r.Get("/{id}", h.Content.Get)
		})

		r.Post("/tts", h.Media.CreateTTS)
		r.Get("/tts/info", h.Media.Info)
		r.Post("/video", h.Media.CreateVideo)
	})

	return r
}
