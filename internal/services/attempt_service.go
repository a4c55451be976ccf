package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/grading"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// SubmitResult is the graded attempt as shown to the learner.
type SubmitResult struct {
	Attempt         *models.Attempt    `json:"attempt"`
	Evaluation      grading.Evaluation `json:"evaluation"`
	CorrectAnswer   string             `json:"correctAnswer"`
	AcceptedAnswers []string           `json:"acceptedAnswers,omitempty"`
}

// AttemptService grades and records answers
type AttemptService interface {
	// Submit grades answer against the exercise and stores one attempt.
	// answer is the raw JSON value from the request and must be a string.
	Submit(ctx context.Context, userID, exerciseID string, answer json.RawMessage) (*SubmitResult, error)
}

type attemptService struct {
	exerciseRepo repository.ExerciseRepository
	attemptRepo  repository.AttemptRepository
	now          func() time.Time
}

// NewAttemptService creates a new AttemptService
func NewAttemptService(exerciseRepo repository.ExerciseRepository, attemptRepo repository.AttemptRepository) AttemptService {
	return &attemptService{
		exerciseRepo: exerciseRepo,
		attemptRepo:  attemptRepo,
		now:          time.Now,
	}
}

func (s *attemptService) Submit(ctx context.Context, userID, exerciseID string, answer json.RawMessage) (*SubmitResult, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return nil, errors.NewValidationError("exerciseId", "is required")
	}
	text, ok := rawString(answer)
	if !ok {
		return nil, errors.NewValidationError("answer", "must be a string")
	}

	ex, err := s.exerciseRepo.Get(ctx, exerciseID)
	if err != nil {
		log.Error("failed to get exercise: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if ex == nil {
		return nil, errors.NewNotFoundError("exercise", exerciseID)
	}
	if ex.UserID != userID {
		log.Warn("attempt on foreign exercise: user_id=%s, exercise_id=%s", userID, exerciseID)
		return nil, errors.NewForbiddenError("forbidden")
	}

	res := grading.Evaluate(ex, text)

	attempt := models.Attempt{
		ID:         uuid.NewString(),
		ExerciseID: ex.ID,
		UserID:     userID,
		Answer:     text,
		IsCorrect:  res.Correct,
		Score:      res.Score,
		Feedback:   res.Feedback,
		CreatedAt:  s.now(),
	}
	if err := s.attemptRepo.Insert(ctx, attempt); err != nil {
		log.Error("failed to insert attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("attempt graded: id=%s, exercise_id=%s, correct=%t, mode=%s", attempt.ID, ex.ID, res.Correct, res.Evaluation.Mode)
	return &SubmitResult{
		Attempt:         &attempt,
		Evaluation:      res.Evaluation,
		CorrectAnswer:   res.CorrectAnswer,
		AcceptedAnswers: res.AcceptedAnswers,
	}, nil
}

// rawString decodes a JSON string value. Anything else, including a
// missing value or null, is rejected.
func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
