package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates the application router with all routes and middleware
func NewRouter(trainer Trainer, users UserStore, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	handler := NewSessionHandler(trainer, users, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", handler.Themes)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/session", handler.Current)
			r.Post("/session", handler.Start)
			r.Post("/session/reveal", handler.Reveal)
			r.Post("/session/grade", handler.Grade)
			r.Post("/session/story", handler.Story)
			r.Post("/session/home", handler.Home)
			r.Get("/stats", handler.Stats)
			r.Put("/theme", handler.SetTheme)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
