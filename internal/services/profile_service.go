package services

import (
	"context"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// ProfileService handles learner profile business logic
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
}

type profileService struct {
	profileRepo      repository.ProfileRepository
	defaultDailyGoal int
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, defaultDailyGoal int) ProfileService {
	return &profileService{profileRepo: profileRepo, defaultDailyGoal: defaultDailyGoal}
}

// GetProfile returns the stored profile, or the defaults when the user has
// never saved one.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_service")
	log.Debug("getting profile: user_id=%s", userID)

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		def := s.defaults(userID)
		return &def, nil
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_service")
	log.Debug("updating profile: user_id=%s", userID)

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}

	current, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	next := s.defaults(userID)
	if current != nil {
		next = *current
	}

	if upd.Language != "" {
		next.Language = upd.Language
	}
	if upd.Level != "" {
		next.Level = upd.Level
	}
	if upd.GoalSet {
		next.Goal = upd.Goal
	}
	if upd.DailyGoal != nil {
		next.DailyGoal = models.ClampDailyGoal(*upd.DailyGoal)
	}

	saved, err := s.profileRepo.Upsert(ctx, next)
	if err != nil {
		log.Error("failed to save profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile updated: user_id=%s, level=%s, daily_goal=%d", userID, saved.Level, saved.DailyGoal)
	return saved, nil
}

func (s *profileService) defaults(userID string) models.Profile {
	p := models.DefaultProfile(userID)
	if s.defaultDailyGoal > 0 {
		p.DailyGoal = s.defaultDailyGoal
	}
	return p
}
