package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) CreateChat(ctx context.Context, chat core.Chat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`,
		chat.ID, chat.UserID, chat.Title, toMillis(chat.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	return nil
}

// EnsureChat inserts the chat unless its id is taken. Concurrent callers
// with the same id all get the single stored row back.
func (r *ChatRepo) EnsureChat(ctx context.Context, chat core.Chat) (core.Chat, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_id, title, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		chat.ID, chat.UserID, chat.Title, toMillis(chat.CreatedAt),
	)
	if err != nil {
		return core.Chat{}, false, fmt.Errorf("failed to insert chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Chat{}, false, fmt.Errorf("failed to insert chat: %w", err)
	}

	stored, err := r.GetChat(ctx, chat.ID)
	if err != nil {
		return core.Chat{}, false, err
	}
	return stored, n == 1, nil
}

func (r *ChatRepo) GetChat(ctx context.Context, chatID string) (core.Chat, error) {
	var c core.Chat
	var createdAt int64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM chats WHERE id = ?`, chatID,
	).Scan(&c.ID, &c.UserID, &c.Title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Chat{}, core.ErrChatNotFound
	}
	if err != nil {
		return core.Chat{}, fmt.Errorf("failed to get chat: %w", err)
	}

	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

// ListChats returns the user's chats, newest first.
func (r *ChatRepo) ListChats(ctx context.Context, userID string) ([]core.Chat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := []core.Chat{}
	for rows.Next() {
		var c core.Chat
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// DeleteChat removes the chat with its turns and metadata.
func (r *ChatRepo) DeleteChat(ctx context.Context, chatID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepo) DeleteEmptyChat(ctx context.Context, chatID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM chats WHERE id = ? AND NOT EXISTS (SELECT 1 FROM question_answers WHERE chat_id = ?)`,
		chatID, chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}
