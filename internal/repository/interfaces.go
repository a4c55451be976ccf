package repository

import (
	"context"
	"errors"

	"github.com/vytor/lingoflash/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Get methods return (nil, nil) when the record does not exist.

// UserRepository handles account data access
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProfileRepository handles learner profile data access
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile models.Profile) (*models.Profile, error)
}

// ExerciseRepository handles exercise data access
type ExerciseRepository interface {
	Insert(ctx context.Context, exercise models.Exercise) error
	Get(ctx context.Context, id string) (*models.Exercise, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Exercise, error)
}

// AttemptRepository handles attempt data access
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.Attempt) error
	Totals(ctx context.Context, userID string) (models.AttemptTotals, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.AttemptWithExercise, error)
	Activity(ctx context.Context, filter models.AttemptFilter) ([]models.Activity, error)
}

// ChatRepository handles tutor chat history
type ChatRepository interface {
	Insert(ctx context.Context, messages ...models.ChatMessage) error
	Recent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
