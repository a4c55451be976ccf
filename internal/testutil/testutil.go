package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection because every new connection to
// :memory: would see an empty database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedUser inserts a user row and returns its id.
func SeedUser(t *testing.T, conn *sql.DB, id, email string) string {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, email, "hash", time.Now().UTC())
	require.NoError(t, err)
	return id
}

// SeedExercise inserts an exercise owned by userID and returns its id.
func SeedExercise(t *testing.T, conn *sql.DB, id, userID, exType, solution string) string {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO exercises (id, user_id, type, prompt, solution, metadata, created_at) VALUES (?, ?, ?, ?, ?, '{}', ?)`,
		id, userID, exType, "prompt for "+id, solution, time.Now().UTC())
	require.NoError(t, err)
	return id
}
