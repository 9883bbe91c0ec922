package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUser creates the user or updates the non-empty fields of an existing one.
func (r *UserRepo) EnsureUser(ctx context.Context, user core.User) error {
	query := `
		INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE users.name END,
			role = CASE WHEN excluded.role <> '' THEN excluded.role ELSE users.role END`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Role, toMillis(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetUser(ctx context.Context, userID string) (core.User, error) {
	var u core.User
	var createdAt int64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, created_at FROM users WHERE id = ?`, userID,
	).Scan(&u.ID, &u.Name, &u.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

func (r *UserRepo) SetRole(ctx context.Context, userID, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, userID)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

// ResolveRole returns the stored role, or "" for unknown users.
func (r *UserRepo) ResolveRole(ctx context.Context, userID string) (string, error) {
	u, err := r.GetUser(ctx, userID)
	if errors.Is(err, core.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}
