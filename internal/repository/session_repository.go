package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// SessionModel is the GORM model for the sessions table.
type SessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    int64     `gorm:"not null;index"`
	UserType  string    `gorm:"size:30"`
	UserName  string    `gorm:"size:200"`
	UserEmail string    `gorm:"size:200"`
	UserPhone string    `gorm:"size:50"`
	Token     string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (SessionModel) TableName() string {
	return "sessions"
}

// GormSessionRepository is the GORM-based implementation of SessionRepository.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Save persists a new session.
func (r *GormSessionRepository) Save(ctx context.Context, s *session.Session) error {
	if err := r.db.WithContext(ctx).Create(toSessionModel(s)).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its unique identifier.
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Session", id.String())
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return toDomainSession(&model), nil
}

// Delete removes a session.
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that expired before now.
func (r *GormSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toSessionModel(s *session.Session) *SessionModel {
	p := s.Profile()
	return &SessionModel{
		ID:        s.ID(),
		UserID:    s.UserID(),
		UserType:  s.UserType(),
		UserName:  p.Name,
		UserEmail: p.Email,
		UserPhone: p.Mobile,
		Token:     s.Token(),
		CreatedAt: s.CreatedAt(),
		ExpiresAt: s.ExpiresAt(),
	}
}

func toDomainSession(m *SessionModel) *session.Session {
	return session.ReconstructSession(
		m.ID,
		m.UserID,
		m.UserType,
		m.Token,
		session.Profile{Name: m.UserName, Email: m.UserEmail, Mobile: m.UserPhone},
		m.CreatedAt,
		m.ExpiresAt,
	)
}
