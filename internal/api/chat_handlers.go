package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/lingoflash/internal/services"
)

type chatRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	// A malformed history is dropped rather than failing the message.
	var history []services.ChatTurn
	if len(req.History) > 0 {
		_ = json.Unmarshal(req.History, &history)
	}

	reply, err := s.ChatService.Chat(r.Context(), userIDFromContext(r.Context()), req.Message, history)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.ChatService.History(r.Context(), userIDFromContext(r.Context()), queryInt(r, "limit"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	n, err := s.ChatService.ClearHistory(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
}

func (s *Server) handleChatPing(w http.ResponseWriter, r *http.Request) {
	reply, err := s.ChatService.Ping(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}
