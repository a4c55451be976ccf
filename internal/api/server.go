// Package api exposes the learning services over a JSON HTTP API.
package api

import (
	"context"
	"time"

	"github.com/vytor/lingoflash/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB              Pinger
	AuthService     services.AuthService
	ProfileService  services.ProfileService
	ExerciseService services.ExerciseService
	AttemptService  services.AttemptService
	ProgressService services.ProgressService
	ChatService     services.ChatService
	CORSOrigins     []string
	RequestTimeout  time.Duration
}
