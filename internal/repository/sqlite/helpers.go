package sqlite

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

// Helper functions shared across repository implementations

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// dbTime normalises timestamps before storage; the driver writes time.Time
// as text, so a single zone keeps ORDER BY and range filters correct.
func dbTime(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}

func orderDir(dir string) string {
	if dir == "ASC" {
		return "ASC"
	}
	return "DESC"
}
