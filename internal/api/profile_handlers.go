package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/models"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.ProfileService.GetProfile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	// Raw fields so an explicit "goal": null can be told apart from no goal.
	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	upd, err := parseProfileUpdate(body)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.UpdateProfile(r.Context(), userIDFromContext(r.Context()), upd)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func parseProfileUpdate(body map[string]json.RawMessage) (models.ProfileUpdate, error) {
	var upd models.ProfileUpdate

	for _, f := range []struct {
		name string
		dst  *string
	}{{"language", &upd.Language}, {"level", &upd.Level}} {
		raw, ok := body[f.name]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return upd, errors.NewValidationError(f.name, "must be a string")
		}
	}

	if raw, ok := body["goal"]; ok {
		upd.GoalSet = true
		if string(raw) != "null" {
			var goal string
			if err := json.Unmarshal(raw, &goal); err != nil {
				return upd, errors.NewValidationError("goal", "must be a string or null")
			}
			upd.Goal = &goal
		}
	}

	if raw, ok := body["dailyGoal"]; ok && string(raw) != "null" {
		n, ok := parseNumber(raw)
		if !ok {
			return upd, errors.NewValidationError("dailyGoal", "must be a number")
		}
		upd.DailyGoal = &n
	}
	return upd, nil
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
