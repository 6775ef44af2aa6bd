package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession(7, "user", "tok", Profile{Name: "Ana"}, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, Principal{UserID: 7, Token: "tok"}, s.Principal())
	assert.False(t, s.IsExpired(time.Now()))
	assert.True(t, s.IsExpired(s.ExpiresAt()))
}

func TestNewSession_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		token  string
		ttl    time.Duration
	}{
		{"missing user", 0, "tok", time.Hour},
		{"missing token", 7, " ", time.Hour},
		{"zero ttl", 7, "tok", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.userID, "user", tt.token, Profile{}, tt.ttl)
			assert.True(t, domain.IsKind(err, domain.KindValidation))
		})
	}
}
