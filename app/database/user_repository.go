package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, email, passwordHash, confirmationToken string) (*User, error) {
	user := &User{
		ID:                uuid.NewString(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		ConfirmationToken: confirmationToken,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, confirmed, confirmation_token, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.ConfirmationToken, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *userRepository) getUser(ctx context.Context, where string, arg interface{}) (*User, error) {
	var user User
	var confirmed int
	var confirmationToken sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, confirmed, confirmation_token, created_at, updated_at
		FROM users
		WHERE `+where, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &confirmed, &confirmationToken,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Confirmed = confirmed != 0
	user.ConfirmationToken = confirmationToken.String

	return &user, nil
}

func (r *userRepository) ConfirmUser(ctx context.Context, confirmationToken string) (*User, error) {
	if confirmationToken == "" {
		return nil, nil
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE confirmation_token = ?
	`, confirmationToken).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up confirmation token: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE users
		SET confirmed = 1, confirmation_token = NULL, updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}

	return r.GetUserByID(ctx, id)
}

func (r *userRepository) GetUserCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}
