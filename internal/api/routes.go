package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": "NOT_FOUND", "message": "route not found"},
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/ai/ping", s.handleChatPing)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Get("/profile", s.handleGetProfile)
			r.Patch("/profile", s.handleUpdateProfile)

			r.Get("/exercises", s.handleListExercises)
			r.Post("/exercises/generate", s.handleGenerateExercise)
			r.Get("/exercises/{id}", s.handleGetExercise)

			r.Post("/attempts", s.handleSubmitAttempt)

			r.Get("/progress", s.handleGetProgress)
			r.Get("/progress/weekly", s.handleGetWeeklyProgress)

			r.Post("/ai/chat", s.handleChat)
			r.Get("/ai/history", s.handleChatHistory)
			r.Delete("/ai/history", s.handleClearChatHistory)
		})
	})

	return r
}
