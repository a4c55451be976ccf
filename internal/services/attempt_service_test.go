package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/grading"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/testutil/mocks"
)

func newAttemptFixture() (*attemptService, *mocks.MockExerciseRepository, *mocks.MockAttemptRepository) {
	exercises := new(mocks.MockExerciseRepository)
	attempts := new(mocks.MockAttemptRepository)
	svc := NewAttemptService(exercises, attempts).(*attemptService)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, exercises, attempts
}

func translateEx() *models.Exercise {
	return &models.Exercise{
		ID:       "ex1",
		UserID:   "u1",
		Type:     models.ExerciseTranslate,
		Solution: "I have a car.",
		Metadata: &models.TranslateMetadata{Solutions: []string{"I've got a car."}},
	}
}

func TestAttemptService_Submit_Lenient(t *testing.T) {
	svc, exercises, attempts := newAttemptFixture()
	ctx := context.Background()

	exercises.On("Get", ctx, "ex1").Return(translateEx(), nil)
	attempts.On("Insert", ctx, mock.MatchedBy(func(a models.Attempt) bool {
		return a.ID != "" && a.UserID == "u1" && a.ExerciseID == "ex1" &&
			a.Answer == "  i have a car " && a.IsCorrect && a.Score == models.ScoreCorrect &&
			a.Feedback == grading.FeedbackCorrect
	})).Return(nil).Once()

	res, err := svc.Submit(ctx, "u1", "ex1", json.RawMessage(`"  i have a car "`))
	require.NoError(t, err)
	assert.True(t, res.Attempt.IsCorrect)
	assert.Equal(t, grading.ModeLenient, res.Evaluation.Mode)
	assert.Equal(t, "I have a car.", res.Evaluation.Matched)
	assert.Equal(t, "I have a car.", res.CorrectAnswer)
	assert.Equal(t, []string{"I have a car.", "I've got a car."}, res.AcceptedAnswers)
	attempts.AssertExpectations(t)
}

func TestAttemptService_Submit_Incorrect(t *testing.T) {
	svc, exercises, attempts := newAttemptFixture()
	ctx := context.Background()

	exercises.On("Get", ctx, "ex1").Return(translateEx(), nil)
	attempts.On("Insert", ctx, mock.MatchedBy(func(a models.Attempt) bool {
		return !a.IsCorrect && a.Score == models.ScoreIncorrect &&
			a.Feedback == `Not quite. Correct answer: "I have a car."`
	})).Return(nil)

	res, err := svc.Submit(ctx, "u1", "ex1", json.RawMessage(`"I has car"`))
	require.NoError(t, err)
	assert.False(t, res.Attempt.IsCorrect)
	assert.Equal(t, "i has car", res.Evaluation.AcceptedAnswer)
	assert.Empty(t, res.Evaluation.Matched)
}

func TestAttemptService_Submit_MultipleChoice(t *testing.T) {
	svc, exercises, attempts := newAttemptFixture()
	ctx := context.Background()

	exercises.On("Get", ctx, "mc").Return(&models.Exercise{
		ID: "mc", UserID: "u1", Type: models.ExerciseMultipleChoice, Solution: " b) have",
		Metadata: &models.MultipleChoiceMetadata{Options: []string{"has", "have", "had", "having"}},
	}, nil)
	attempts.On("Insert", ctx, mock.Anything).Return(nil)

	res, err := svc.Submit(ctx, "u1", "mc", json.RawMessage(`"b"`))
	require.NoError(t, err)
	assert.True(t, res.Attempt.IsCorrect)
	assert.Equal(t, "B", res.CorrectAnswer)
	assert.Nil(t, res.AcceptedAnswers)
}

func TestAttemptService_Submit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		exerciseID string
		answer     string
		status     int
	}{
		{"no user", "", "ex1", `"x"`, http.StatusUnauthorized},
		{"missing exercise id", "u1", " ", `"x"`, http.StatusBadRequest},
		{"answer missing", "u1", "ex1", ``, http.StatusBadRequest},
		{"answer null", "u1", "ex1", `null`, http.StatusBadRequest},
		{"answer number", "u1", "ex1", `42`, http.StatusBadRequest},
		{"answer object", "u1", "ex1", `{"text":"x"}`, http.StatusBadRequest},
		{"unknown exercise", "u1", "missing", `"x"`, http.StatusNotFound},
		{"foreign exercise", "u2", "ex1", `"x"`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, exercises, attempts := newAttemptFixture()
			ctx := context.Background()
			exercises.On("Get", ctx, "ex1").Return(translateEx(), nil).Maybe()
			exercises.On("Get", ctx, "missing").Return(nil, nil).Maybe()

			_, err := svc.Submit(ctx, tt.userID, tt.exerciseID, json.RawMessage(tt.answer))
			requireAppError(t, err, tt.status)
			attempts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestAttemptService_Submit_EmptyStringIsGraded(t *testing.T) {
	svc, exercises, attempts := newAttemptFixture()
	ctx := context.Background()
	exercises.On("Get", ctx, "ex1").Return(translateEx(), nil)
	attempts.On("Insert", ctx, mock.Anything).Return(nil)

	res, err := svc.Submit(ctx, "u1", "ex1", json.RawMessage(`""`))
	require.NoError(t, err)
	assert.False(t, res.Attempt.IsCorrect)
}

func TestAttemptService_Submit_StorageFailure(t *testing.T) {
	svc, exercises, attempts := newAttemptFixture()
	ctx := context.Background()
	exercises.On("Get", ctx, "ex1").Return(translateEx(), nil)
	attempts.On("Insert", ctx, mock.Anything).Return(stderrors.New("disk full"))

	_, err := svc.Submit(ctx, "u1", "ex1", json.RawMessage(`"I have a car."`))
	requireAppError(t, err, http.StatusInternalServerError)
}
