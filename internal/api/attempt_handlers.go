package api

import (
	"encoding/json"
	"net/http"
)

type submitAttemptRequest struct {
	ExerciseID string `json:"exerciseId"`
	// Answer stays raw so non-string values are rejected, not coerced.
	Answer json.RawMessage `json:"answer"`
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AttemptService.Submit(r.Context(), userIDFromContext(r.Context()), req.ExerciseID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
