package database

import (
	"time"
)

type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Confirmed         bool
	ConfirmationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PreferenceRecord holds one user's preferences blob. Revision is an
// optimistic version counter bumped on every successful write.
type PreferenceRecord struct {
	UserID      string
	Preferences string
	Revision    int64
	UpdatedAt   time.Time
}
