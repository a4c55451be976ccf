package api

import "net/http"

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	report, err := s.ProgressService.GetProgress(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	weekly, err := s.ProgressService.GetWeeklyProgress(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}
