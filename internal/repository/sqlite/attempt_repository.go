package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: id=%s, exercise_id=%s, correct=%t", a.ID, a.ExerciseID, a.IsCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (id, exercise_id, user_id, answer, is_correct, score, feedback, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, a.ID, a.ExerciseID, a.UserID, a.Answer, a.IsCorrect, a.Score, a.Feedback, dbTime(a.CreatedAt))
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return err
	}
	return nil
}

func (r *attemptRepository) Totals(ctx context.Context, userID string) (models.AttemptTotals, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("counting attempts: user_id=%s", userID)

	var t models.AttemptTotals
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0)
FROM attempts
WHERE user_id = ?
`, userID).Scan(&t.Total, &t.Correct)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return models.AttemptTotals{}, err
	}
	log.Debug("attempt totals: total=%d, correct=%d", t.Total, t.Correct)
	return t, nil
}

func applyAttemptFilter(q squirrel.SelectBuilder, filter models.AttemptFilter) squirrel.SelectBuilder {
	if filter.UserID != "" {
		q = q.Where(squirrel.Eq{"a.user_id": filter.UserID})
	}
	if filter.ExerciseID != "" {
		q = q.Where(squirrel.Eq{"a.exercise_id": filter.ExerciseID})
	}
	if filter.Since != nil {
		q = q.Where(squirrel.GtOrEq{"a.created_at": dbTime(*filter.Since)})
	}
	if filter.Correct != nil {
		q = q.Where(squirrel.Eq{"a.is_correct": *filter.Correct})
	}
	q = q.OrderBy("a.created_at " + orderDir(filter.OrderDir))
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.AttemptWithExercise, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%s, limit=%d", filter.UserID, filter.Limit)

	q := sqlBuilder.Select(
		"a.id", "a.exercise_id", "a.user_id", "a.answer", "a.is_correct", "a.score", "a.feedback", "a.created_at",
		"e.type", "e.prompt",
	).From("attempts a").Join("exercises e ON e.id = a.exercise_id")
	query, args, err := applyAttemptFilter(q, filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.AttemptWithExercise{}
	for rows.Next() {
		var (
			a      models.AttemptWithExercise
			exType string
		)
		if err := rows.Scan(&a.ID, &a.ExerciseID, &a.UserID, &a.Answer, &a.IsCorrect, &a.Score, &a.Feedback, &a.CreatedAt,
			&exType, &a.Exercise.Prompt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		a.Exercise.Type = models.ExerciseType(exType)
		out = append(out, a)
	}
	log.Debug("found %d attempts", len(out))
	return out, rows.Err()
}

func (r *attemptRepository) Activity(ctx context.Context, filter models.AttemptFilter) ([]models.Activity, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("loading activity: user_id=%s", filter.UserID)

	q := sqlBuilder.Select("a.created_at", "a.is_correct").From("attempts a")
	query, args, err := applyAttemptFilter(q, filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load activity: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.CreatedAt, &a.IsCorrect); err != nil {
			log.Error("failed to scan activity row: %v", err)
			return nil, err
		}
		out = append(out, a)
	}
	log.Debug("loaded %d activity rows", len(out))
	return out, rows.Err()
}
