package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/services"
)

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Language string  `json:"language"`
	Level    string  `json:"level"`
	Goal     *string `json:"goal"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AuthService.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Language: req.Language,
		Level:    req.Level,
		Goal:     req.Goal,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.AuthService.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
