package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository defines the persistence contract for sessions.
type SessionRepository interface {
	// Save persists a new session.
	Save(ctx context.Context, s *Session) error

	// FindByID retrieves a session; a missing one is a not_found AppError.
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes sessions that expired before now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Credentials is the result of a successful upstream login.
type Credentials struct {
	Token    string
	UserID   int64
	UserType string
}

// IdentityGateway authenticates against the booking API.
type IdentityGateway interface {
	// Login exchanges email and password for an upstream token.
	Login(ctx context.Context, email, password string) (Credentials, error)

	// Me returns the profile of the token's user.
	Me(ctx context.Context, token string) (Profile, error)
}
