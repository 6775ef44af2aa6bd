package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

type sessionFixture struct {
	identity *MockIdentityGateway
	repo     *MockSessionRepo
	tokens   *MockTokenIssuer
	screens  *ScreenStore
	svc      *SessionService
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		identity: new(MockIdentityGateway),
		repo:     new(MockSessionRepo),
		tokens:   new(MockTokenIssuer),
		screens:  newTestScreens(),
	}
	f.svc = NewSessionService(f.identity, f.repo, f.tokens, f.screens, zap.NewNop(), 24*time.Hour)
	return f
}

func TestLogin(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	expires := time.Now().Add(15 * time.Minute)

	f.identity.On("Login", mock.Anything, "ann@example.com", "secret").
		Return(session.Credentials{Token: "up-token", UserID: 7, UserType: "customer"}, nil)
	f.identity.On("Me", mock.Anything, "up-token").
		Return(session.Profile{Name: "Ann", Email: "ann@example.com", Mobile: "555-0100"}, nil)
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*session.Session")).Return(nil)
	f.tokens.On("GenerateAccessToken", mock.Anything, int64(7)).Return("signed", expires, nil)

	result, err := f.svc.Login(ctx, " ann@example.com ", "secret")
	require.NoError(t, err)

	assert.Equal(t, "signed", result.AccessToken)
	assert.Equal(t, expires, result.ExpiresAt)
	assert.Equal(t, UserDTO{ID: 7, Name: "Ann", Email: "ann@example.com", Mobile: "555-0100"}, result.User)

	saved := f.repo.Calls[0].Arguments.Get(1).(*session.Session)
	assert.Equal(t, "up-token", saved.Token())
	f.tokens.AssertCalled(t, "GenerateAccessToken", saved.ID(), int64(7))
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newSessionFixture()
	f.identity.On("Login", mock.Anything, "ann@example.com", "wrong").
		Return(session.Credentials{}, domain.NewUnauthorizedError("bad credentials"))

	_, err := f.svc.Login(context.Background(), "ann@example.com", "wrong")
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin_MissingFields(t *testing.T) {
	f := newSessionFixture()

	_, err := f.svc.Login(context.Background(), "", "secret")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("live session", func(t *testing.T) {
		f := newSessionFixture()
		sess := testSession(t)
		f.repo.On("FindByID", mock.Anything, sess.ID()).Return(sess, nil)

		got, err := f.svc.Authenticate(ctx, sess.ID())
		require.NoError(t, err)
		assert.Equal(t, sess.ID(), got.ID())
	})

	t.Run("missing session", func(t *testing.T) {
		f := newSessionFixture()
		id := uuid.New()
		f.repo.On("FindByID", mock.Anything, id).Return(nil, domain.NewNotFoundError("Session", id.String()))

		_, err := f.svc.Authenticate(ctx, id)
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
	})

	t.Run("expired session is deleted", func(t *testing.T) {
		f := newSessionFixture()
		old := time.Now().Add(-2 * time.Hour)
		expired := session.ReconstructSession(uuid.New(), 7, "customer", "tok", session.Profile{}, old, old.Add(time.Hour))
		f.screens.Get(expired.ID(), 7)
		f.repo.On("FindByID", mock.Anything, expired.ID()).Return(expired, nil)
		f.repo.On("Delete", mock.Anything, expired.ID()).Return(nil)

		_, err := f.svc.Authenticate(ctx, expired.ID())
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
		f.repo.AssertCalled(t, "Delete", mock.Anything, expired.ID())
		assert.Equal(t, 0, f.screens.Len())
	})
}

func TestLogout_DropsScreen(t *testing.T) {
	f := newSessionFixture()
	sess := testSession(t)
	f.screens.Get(sess.ID(), sess.UserID())
	f.repo.On("Delete", mock.Anything, sess.ID()).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), sess.ID()))
	assert.Equal(t, 0, f.screens.Len())
}

func TestPurgeExpired(t *testing.T) {
	f := newSessionFixture()
	now := time.Now()
	f.repo.On("DeleteExpired", mock.Anything, now).Return(int64(3), nil)

	n, err := f.svc.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
