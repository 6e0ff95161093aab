package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RSAK56/NewsStream/app/database"
)

// Service owns email+password authentication and session lifecycles.
// Sign-up never yields a session: the account stays pending until its
// confirmation token is exchanged.
type Service struct {
	users      database.UserRepository
	sessions   database.SessionRepository
	sessionTTL time.Duration
}

func NewService(users database.UserRepository, sessions database.SessionRepository, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// SignUp registers a new unconfirmed account and returns its
// confirmation token.
func (s *Service) SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	user, err := s.users.CreateUser(ctx, email, string(hash), token)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered, confirmation pending", "user_id", user.ID)

	return token, nil
}

// Confirm exchanges a confirmation token for an activated account.
func (s *Service) Confirm(ctx context.Context, token string) (*database.User, error) {
	user, err := s.users.ConfirmUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	slog.Info("User confirmed", "user_id", user.ID)

	return user, nil
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*database.Session, *database.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, nil, ErrConfirmationPending
	}

	session, err := s.sessions.CreateSession(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("User signed in", "user_id", user.ID)

	return session, user, nil
}

// SignOut drops the session. Unknown tokens are ignored.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*database.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.ExpiresAt.Before(time.Now().UTC()) {
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	return user, nil
}
