package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/kafka"
	"github.com/beerescue/service-storefront/internal/domain/address"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

type MockBookingGateway struct{ mock.Mock }
type MockReviewGateway struct{ mock.Mock }
type MockCatalogGateway struct{ mock.Mock }
type MockFavoriteGateway struct{ mock.Mock }
type MockAddressGateway struct{ mock.Mock }
type MockIdentityGateway struct{ mock.Mock }
type MockSessionRepo struct{ mock.Mock }
type MockGuard struct{ mock.Mock }
type MockTokenIssuer struct{ mock.Mock }

func (m *MockBookingGateway) ListUserBookings(ctx context.Context, p session.Principal) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingGateway) GetBooking(ctx context.Context, p session.Principal, id int64) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingGateway) CreateBooking(ctx context.Context, p session.Principal, req bookingDomain.ReservationRequest) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingGateway) UpdateStatus(ctx context.Context, p session.Principal, id int64, status bookingDomain.BookingStatus, method bookingDomain.PaymentMethod) error {
	return m.Called(ctx, p, id, status, method).Error(0)
}

func (m *MockBookingGateway) TimeSlots(ctx context.Context, p session.Principal, serviceID int64, date string) ([]bookingDomain.TimeSlot, error) {
	args := m.Called(ctx, p, serviceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.TimeSlot), args.Error(1)
}

func (m *MockReviewGateway) HasReviewed(ctx context.Context, p session.Principal, bookingID int64) (bool, error) {
	args := m.Called(ctx, p, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewGateway) SubmitReview(ctx context.Context, p session.Principal, r review.Review) error {
	return m.Called(ctx, p, r).Error(0)
}

func (m *MockReviewGateway) ReportProvider(ctx context.Context, p session.Principal, r review.Report) error {
	return m.Called(ctx, p, r).Error(0)
}

func (m *MockCatalogGateway) ListServices(ctx context.Context) ([]catalog.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockCatalogGateway) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockCatalogGateway) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCatalogGateway) CategoryServices(ctx context.Context, path string) ([]catalog.Service, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockCatalogGateway) RatingStats(ctx context.Context, serviceID int64) (catalog.RatingStats, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).(catalog.RatingStats), args.Error(1)
}

func (m *MockFavoriteGateway) ListFavorites(ctx context.Context, p session.Principal) ([]catalog.Service, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockFavoriteGateway) IsFavorite(ctx context.Context, p session.Principal, serviceID int64) (bool, error) {
	args := m.Called(ctx, p, serviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteGateway) AddFavorite(ctx context.Context, p session.Principal, serviceID int64) error {
	return m.Called(ctx, p, serviceID).Error(0)
}

func (m *MockFavoriteGateway) RemoveFavorite(ctx context.Context, p session.Principal, serviceID int64) error {
	return m.Called(ctx, p, serviceID).Error(0)
}

func (m *MockAddressGateway) ListAddresses(ctx context.Context, p session.Principal) ([]address.Address, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]address.Address), args.Error(1)
}

func (m *MockAddressGateway) CreateAddress(ctx context.Context, p session.Principal, in address.Input) (address.Address, error) {
	args := m.Called(ctx, p, in)
	return args.Get(0).(address.Address), args.Error(1)
}

func (m *MockAddressGateway) UpdateAddress(ctx context.Context, p session.Principal, id int64, in address.Input) (address.Address, error) {
	args := m.Called(ctx, p, id, in)
	return args.Get(0).(address.Address), args.Error(1)
}

func (m *MockAddressGateway) DeleteAddress(ctx context.Context, p session.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockIdentityGateway) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(session.Credentials), args.Error(1)
}

func (m *MockIdentityGateway) Me(ctx context.Context, token string) (session.Profile, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(session.Profile), args.Error(1)
}

func (m *MockSessionRepo) Save(ctx context.Context, s *session.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockGuard) Release(ctx context.Context, key, token string) error {
	return m.Called(ctx, key, token).Error(0)
}

func (m *MockTokenIssuer) GenerateAccessToken(sessionID uuid.UUID, userID int64) (string, time.Time, error) {
	args := m.Called(sessionID, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

const testUserID int64 = 7

func testSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.NewSession(testUserID, "customer", "upstream-token", session.Profile{Name: "Test User"}, time.Hour)
	require.NoError(t, err)
	return sess
}

func testBooking(id int64, status string) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		id, testUserID, 100+id, "Deep Cleaning", 500+id, "Sparkle Co",
		"2026-11-02", "10:00", status, 12001, "", "", "",
	)
}

func newTestScreens() *ScreenStore {
	return NewScreenStore(time.Hour, zap.NewNop())
}
