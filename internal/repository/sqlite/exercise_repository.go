package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type exerciseRepository struct {
	db *sql.DB
}

// NewExerciseRepository creates a new ExerciseRepository implementation
func NewExerciseRepository(db *sql.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

var exerciseColumns = []string{"id", "user_id", "type", "prompt", "solution", "metadata", "created_at"}

func (r *exerciseRepository) Insert(ctx context.Context, ex models.Exercise) error {
	log := logger.FromContext(ctx).WithPrefix("exercise_repo")
	log.Debug("inserting exercise: id=%s, type=%s", ex.ID, ex.Type)

	meta, err := models.EncodeMetadata(ex.Metadata)
	if err != nil {
		log.Error("failed to encode metadata: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO exercises (id, user_id, type, prompt, solution, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, ex.ID, ex.UserID, string(ex.Type), ex.Prompt, ex.Solution, string(meta), dbTime(ex.CreatedAt))
	if err != nil {
		log.Error("failed to insert exercise: %v", err)
		return err
	}
	return nil
}

func (r *exerciseRepository) Get(ctx context.Context, id string) (*models.Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise_repo")
	log.Debug("getting exercise: id=%s", id)

	query, args, err := sqlBuilder.Select(exerciseColumns...).
		From("exercises").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	ex, err := scanExercise(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("exercise not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get exercise: %v", err)
		return nil, err
	}
	return ex, nil
}

func (r *exerciseRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise_repo")
	log.Debug("listing exercises: user_id=%s, limit=%d", userID, limit)

	if limit <= 0 {
		limit = 50
	}
	query, args, err := sqlBuilder.Select(exerciseColumns...).
		From("exercises").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list exercises: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			log.Error("failed to scan exercise row: %v", err)
			return nil, err
		}
		out = append(out, *ex)
	}
	log.Debug("found %d exercises", len(out))
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var (
		ex      models.Exercise
		exType  string
		rawMeta string
	)
	if err := row.Scan(&ex.ID, &ex.UserID, &exType, &ex.Prompt, &ex.Solution, &rawMeta, &ex.CreatedAt); err != nil {
		return nil, err
	}
	ex.Type = models.ExerciseType(exType)

	meta, err := models.DecodeMetadata(ex.Type, []byte(rawMeta))
	if err != nil {
		return nil, fmt.Errorf("exercise %s: %w", ex.ID, err)
	}
	ex.Metadata = meta
	return &ex, nil
}
