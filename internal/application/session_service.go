package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// TokenIssuer signs storefront access tokens for a session.
type TokenIssuer interface {
	GenerateAccessToken(sessionID uuid.UUID, userID int64) (string, time.Time, error)
}

// SessionService is the single place a storefront session is created or ended.
type SessionService struct {
	identity session.IdentityGateway
	repo     session.SessionRepository
	tokens   TokenIssuer
	screens  *ScreenStore
	logger   *zap.Logger
	ttl      time.Duration
}

// NewSessionService creates a new SessionService issuing sessions valid for ttl.
func NewSessionService(
	identity session.IdentityGateway,
	repo session.SessionRepository,
	tokens TokenIssuer,
	screens *ScreenStore,
	logger *zap.Logger,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		identity: identity,
		repo:     repo,
		tokens:   tokens,
		screens:  screens,
		logger:   logger,
		ttl:      ttl,
	}
}

// UserDTO is the signed-in user as shown to the client.
type UserDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// LoginDTO is returned after a successful login.
type LoginDTO struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

func toUserDTO(s *session.Session) UserDTO {
	p := s.Profile()
	return UserDTO{ID: s.UserID(), Name: p.Name, Email: p.Email, Mobile: p.Mobile}
}

// Login authenticates against the booking API and starts a session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	creds, err := s.identity.Login(ctx, email, password)
	if err != nil {
		if domain.IsKind(err, domain.KindUnauthorized) || domain.IsKind(err, domain.KindValidation) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		s.logger.Error("login failed", zap.Error(err))
		return nil, err
	}

	profile, err := s.identity.Me(ctx, creds.Token)
	if err != nil {
		// Identity values are display-only; a missing profile does not block login.
		s.logger.Warn("failed to load profile", zap.Int64("user_id", creds.UserID), zap.Error(err))
		profile = session.Profile{Email: email}
	}

	sess, err := session.NewSession(creds.UserID, creds.UserType, creds.Token, profile, s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		s.logger.Error("failed to save session", zap.Int64("user_id", creds.UserID), zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(sess.ID(), sess.UserID())
	if err != nil {
		return nil, err
	}
	if expiresAt.After(sess.ExpiresAt()) {
		expiresAt = sess.ExpiresAt()
	}

	s.logger.Info("user logged in", zap.Int64("user_id", sess.UserID()), zap.String("session_id", sess.ID().String()))
	return &LoginDTO{AccessToken: token, ExpiresAt: expiresAt, User: toUserDTO(sess)}, nil
}

// Authenticate returns the live session of sessionID. Missing or expired sessions are unauthorized.
func (s *SessionService) Authenticate(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewUnauthorizedError("session not found")
		}
		return nil, err
	}
	if sess.IsExpired(time.Now()) {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.String("session_id", sessionID.String()), zap.Error(err))
		}
		s.screens.Drop(sessionID)
		return nil, domain.NewUnauthorizedError("session expired")
	}
	return sess, nil
}

// Current returns the signed-in user.
func (s *SessionService) Current(sess *session.Session) UserDTO {
	return toUserDTO(sess)
}

// Logout ends the session and forgets its screen state.
func (s *SessionService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete session", zap.String("session_id", sessionID.String()), zap.Error(err))
		return err
	}
	s.screens.Drop(sessionID)
	s.logger.Info("user logged out", zap.String("session_id", sessionID.String()))
	return nil
}

// PurgeExpired removes sessions that expired before now.
func (s *SessionService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to purge expired sessions", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", zap.Int64("count", n))
	}
	return n, nil
}

// RunPurge calls PurgeExpired every interval until ctx is done.
func (s *SessionService) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			_, _ = s.PurgeExpired(ctx, now)
		}
	}
}
