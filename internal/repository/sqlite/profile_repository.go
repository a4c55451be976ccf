package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, p models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile: user_id=%s", p.UserID)

	var out models.Profile
	err := r.db.QueryRowContext(ctx, `
INSERT INTO profiles (user_id, language, level, goal, daily_goal, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    language = excluded.language,
    level = excluded.level,
    goal = excluded.goal,
    daily_goal = excluded.daily_goal,
    updated_at = excluded.updated_at
RETURNING user_id, language, level, goal, daily_goal
`, p.UserID, p.Language, p.Level, p.Goal, p.DailyGoal, dbTime(time.Now())).
		Scan(&out.UserID, &out.Language, &out.Level, &out.Goal, &out.DailyGoal)
	if err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}
	log.Debug("profile upserted: user_id=%s", out.UserID)
	return &out, nil
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: user_id=%s", userID)

	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, language, level, goal, daily_goal
FROM profiles
WHERE user_id = ?
`, userID).Scan(&p.UserID, &p.Language, &p.Level, &p.Goal, &p.DailyGoal)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}
