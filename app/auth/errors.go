package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords
	// alike, so responses do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrConfirmationPending is returned on sign-in before the account's
	// confirmation link was followed.
	ErrConfirmationPending = errors.New("please confirm your email address to complete your registration")

	ErrInvalidToken = errors.New("invalid or expired confirmation token")

	// ErrNotAuthenticated marks requests without a valid session. The
	// API treats save/unsave attempts carrying it as silent no-ops.
	ErrNotAuthenticated = errors.New("not authenticated")
)
