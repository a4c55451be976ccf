package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingoflash/internal/models"
)

type generateExerciseRequest struct {
	Type models.ExerciseType `json:"type"`
}

func (s *Server) handleGenerateExercise(w http.ResponseWriter, r *http.Request) {
	var req generateExerciseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ex, err := s.ExerciseService.Generate(r.Context(), userIDFromContext(r.Context()), req.Type)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"exercise": ex})
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.ExerciseService.Get(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": ex})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.ExerciseService.List(r.Context(), userIDFromContext(r.Context()), queryInt(r, "limit"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercises": list})
}
