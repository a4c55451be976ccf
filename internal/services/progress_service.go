package services

import (
	"context"
	"time"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/progress"
	"github.com/vytor/lingoflash/internal/repository"
)

// ProgressConfig controls the progress window and calendar.
type ProgressConfig struct {
	Location         *time.Location
	StreakWindowDays int
	RecentLimit      int
	DefaultDailyGoal int
}

// ProgressService computes learner statistics
type ProgressService interface {
	GetProgress(ctx context.Context, userID string) (*models.ProgressReport, error)
	GetWeeklyProgress(ctx context.Context, userID string) (*models.WeeklyProgress, error)
}

type progressService struct {
	attemptRepo repository.AttemptRepository
	profileRepo repository.ProfileRepository
	cfg         ProgressConfig
	now         func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	attemptRepo repository.AttemptRepository,
	profileRepo repository.ProfileRepository,
	cfg ProgressConfig,
) ProgressService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StreakWindowDays <= 0 {
		cfg.StreakWindowDays = 365
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}
	if cfg.DefaultDailyGoal <= 0 {
		cfg.DefaultDailyGoal = models.DefaultDailyGoal
	}
	return &progressService{
		attemptRepo: attemptRepo,
		profileRepo: profileRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *progressService) GetProgress(ctx context.Context, userID string) (*models.ProgressReport, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_service")
	log.Debug("computing progress: user_id=%s", userID)

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	now := s.now()

	totals, err := s.attemptRepo.Totals(ctx, userID)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	recent, err := s.attemptRepo.List(ctx, models.AttemptFilter{UserID: userID, Limit: s.cfg.RecentLimit})
	if err != nil {
		log.Error("failed to list recent attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if recent == nil {
		recent = []models.AttemptWithExercise{}
	}

	since := progress.WindowStart(now, s.cfg.Location, s.cfg.StreakWindowDays)
	activity, err := s.attemptRepo.Activity(ctx, models.AttemptFilter{UserID: userID, Since: &since})
	if err != nil {
		log.Error("failed to load attempt history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	history := make([]time.Time, len(activity))
	for i, a := range activity {
		history[i] = a.CreatedAt
	}

	goal, err := s.dailyGoal(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report := &models.ProgressReport{
		Stats: progress.Stats(progress.Input{
			Total:     totals.Total,
			Correct:   totals.Correct,
			History:   history,
			DailyGoal: goal,
		}, now, s.cfg.Location),
		RecentAttempts: recent,
	}
	if len(recent) > 0 {
		last := recent[0]
		report.LastAttempt = &last
	}

	log.Debug("progress computed: user_id=%s, total=%d, streak=%d", userID, report.Stats.Total, report.Stats.StreakDays)
	return report, nil
}

func (s *progressService) GetWeeklyProgress(ctx context.Context, userID string) (*models.WeeklyProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	now := s.now()

	since := progress.WindowStart(now, s.cfg.Location, progress.WeekDays)
	activity, err := s.attemptRepo.Activity(ctx, models.AttemptFilter{UserID: userID, Since: &since, OrderDir: "ASC"})
	if err != nil {
		log.Error("failed to load weekly activity: %v", err)
		return nil, errors.NewInternalError(err)
	}

	weekly := progress.Weekly(activity, now, s.cfg.Location)
	return &weekly, nil
}

func (s *progressService) dailyGoal(ctx context.Context, userID string) (int, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if profile == nil || profile.DailyGoal <= 0 {
		return s.cfg.DefaultDailyGoal, nil
	}
	return profile.DailyGoal, nil
}
