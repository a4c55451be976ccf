package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "backend"})
}

// handleReady returns 503 until the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "database": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "database": "ok"})
}
