package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Insert(ctx context.Context, attempt models.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) Totals(ctx context.Context, userID string) (models.AttemptTotals, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.AttemptTotals), args.Error(1)
}

func (m *MockAttemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.AttemptWithExercise, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttemptWithExercise), args.Error(1)
}

func (m *MockAttemptRepository) Activity(ctx context.Context, filter models.AttemptFilter) ([]models.Activity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}
