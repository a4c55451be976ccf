package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type chatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new ChatRepository implementation
func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Insert(ctx context.Context, messages ...models.ChatMessage) error {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("inserting %d chat messages", len(messages))

	return db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO chat_messages (id, user_id, role, content, created_at)
VALUES (?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare chat insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, m := range messages {
			if _, err := stmt.ExecContext(ctx, m.ID, m.UserID, string(m.Role), m.Content, dbTime(m.CreatedAt)); err != nil {
				log.Error("failed to insert chat message %s: %v", m.ID, err)
				return err
			}
		}
		return nil
	})
}

// Recent returns the newest limit messages in chronological order.
func (r *chatRepository) Recent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("loading chat history: user_id=%s, limit=%d", userID, limit)

	// rowid breaks ties between messages written in the same instant.
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, role, content, created_at
FROM chat_messages
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to load chat history: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.ChatMessage{}
	for rows.Next() {
		var (
			m    models.ChatMessage
			role string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &role, &m.Content, &m.CreatedAt); err != nil {
			log.Error("failed to scan chat row: %v", err)
			return nil, err
		}
		m.Role = models.ChatRole(role)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	log.Debug("found %d chat messages", len(out))
	return out, nil
}

func (r *chatRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("deleting chat history: user_id=%s", userID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to delete chat history: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("deleted %d chat messages", n)
	return n, nil
}
