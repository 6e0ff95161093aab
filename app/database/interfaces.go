package database

import (
	"context"
	"time"
)

type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash, confirmationToken string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ConfirmUser(ctx context.Context, confirmationToken string) (*User, error)
	GetUserCount(ctx context.Context) (int, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	GetSessionCount(ctx context.Context) (int, error)
}

type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID string) (*PreferenceRecord, error)
	InsertPreferences(ctx context.Context, userID, preferences string) (*PreferenceRecord, error)
	// UpdatePreferences writes the blob only if the stored revision still
	// matches; returns false when another writer got there first.
	UpdatePreferences(ctx context.Context, userID, preferences string, revision int64) (bool, error)
	GetPreferenceCount(ctx context.Context) (int, error)
}
