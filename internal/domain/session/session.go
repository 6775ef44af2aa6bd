package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

// Principal is the identity passed on every call to the booking API.
type Principal struct {
	UserID int64
	Token  string
}

// Profile is what the booking API knows about the signed-in user.
type Profile struct {
	Name   string
	Email  string
	Mobile string
}

// Session is a signed-in storefront user.
type Session struct {
	id        uuid.UUID
	userID    int64
	userType  string
	token     string
	profile   Profile
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session valid for ttl.
func NewSession(userID int64, userType, token string, profile Profile, ttl time.Duration) (*Session, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("user ID is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, domain.NewValidationError("upstream token is required")
	}
	if ttl <= 0 {
		return nil, domain.NewValidationError("session TTL must be positive")
	}

	now := time.Now().UTC()
	return &Session{
		id:        uuid.New(),
		userID:    userID,
		userType:  userType,
		token:     token,
		profile:   profile,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}, nil
}

// ReconstructSession rebuilds a Session from persistence data (no validation).
func ReconstructSession(
	id uuid.UUID,
	userID int64,
	userType string,
	token string,
	profile Profile,
	createdAt time.Time,
	expiresAt time.Time,
) *Session {
	return &Session{
		id:        id,
		userID:    userID,
		userType:  userType,
		token:     token,
		profile:   profile,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
}

func (s *Session) ID() uuid.UUID        { return s.id }
func (s *Session) UserID() int64        { return s.userID }
func (s *Session) UserType() string     { return s.userType }
func (s *Session) Token() string        { return s.token }
func (s *Session) Profile() Profile     { return s.profile }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// IsExpired reports whether the session is no longer usable at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Principal returns the identity for booking API calls.
func (s *Session) Principal() Principal {
	return Principal{UserID: s.userID, Token: s.token}
}
