package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
)

type bookingFixture struct {
	gateway *MockBookingGateway
	reviews *MockReviewGateway
	guard   *MockGuard
	pub     *recordingPublisher
	screens *ScreenStore
	svc     *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		gateway: new(MockBookingGateway),
		reviews: new(MockReviewGateway),
		guard:   new(MockGuard),
		pub:     &recordingPublisher{},
		screens: newTestScreens(),
	}
	rating := NewRatingService(f.reviews, f.gateway, f.screens, f.pub, zap.NewNop(), 4)
	f.svc = NewBookingService(f.gateway, rating, f.guard, bookingDomain.NewHalfDepositPolicy(), f.screens, f.pub, zap.NewNop())
	return f
}

func (f *bookingFixture) allowGuard() {
	f.guard.On("Acquire", mock.Anything, mock.Anything, cancelGuardTTL).Return("hold-1", true, nil)
	f.guard.On("Release", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestListBookings_NoObligationsShowsList(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.gateway.On("ListUserBookings", mock.Anything, sess.Principal()).
		Return([]*bookingDomain.Booking{testBooking(1, "pending"), testBooking(2, "APPROVED")}, nil)

	result, err := f.svc.ListBookings(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, review.GateListing, result.Gate.State)
	require.Len(t, result.Bookings, 2)
	assert.Equal(t, "PENDING", result.Bookings[0].View.Label)
	assert.ElementsMatch(t,
		[]bookingDomain.Action{bookingDomain.ActionCheckout, bookingDomain.ActionCancel},
		result.Bookings[1].View.Actions)
	f.reviews.AssertNotCalled(t, "HasReviewed", mock.Anything, mock.Anything, mock.Anything)
}

func TestListBookings_UnratedCompletedBlocksList(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.gateway.On("ListUserBookings", mock.Anything, sess.Principal()).
		Return([]*bookingDomain.Booking{testBooking(1, "completed"), testBooking(2, "completed")}, nil)
	f.reviews.On("HasReviewed", mock.Anything, sess.Principal(), int64(1)).Return(true, nil)
	f.reviews.On("HasReviewed", mock.Anything, sess.Principal(), int64(2)).Return(false, nil)

	result, err := f.svc.ListBookings(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, review.GateRatingRequired, result.Gate.State)
	require.Len(t, result.Gate.Unrated, 1)
	assert.Equal(t, int64(2), result.Gate.Unrated[0].BookingID)
	assert.Equal(t, int64(2), result.Gate.ActiveBookingID)
	assert.Nil(t, result.Bookings)
}

func TestListBookings_UpstreamFailure(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.gateway.On("ListUserBookings", mock.Anything, sess.Principal()).
		Return(nil, domain.NewUpstreamError("booking API unreachable", errors.New("dial tcp")))

	_, err := f.svc.ListBookings(context.Background(), sess)
	assert.True(t, domain.IsKind(err, domain.KindUpstream))
}

func TestCancelBooking_ApprovedUpdatesListOptimistically(t *testing.T) {
	f := newBookingFixture()
	f.allowGuard()
	sess := testSession(t)
	ctx := context.Background()

	f.gateway.On("ListUserBookings", mock.Anything, sess.Principal()).
		Return([]*bookingDomain.Booking{testBooking(42, "approved")}, nil).Once()
	f.gateway.On("UpdateStatus", mock.Anything, sess.Principal(), int64(42), bookingDomain.StatusCancelled, bookingDomain.PaymentMethod("")).
		Return(nil).Once()

	_, err := f.svc.ListBookings(ctx, sess)
	require.NoError(t, err)

	result, err := f.svc.CancelBooking(ctx, sess, 42)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
	assert.False(t, result.View.Has(bookingDomain.ActionCheckout))
	assert.False(t, result.View.Has(bookingDomain.ActionCancel))

	local, ok := f.screens.Get(sess.ID(), sess.UserID()).Bookings.Find(42)
	require.True(t, ok)
	assert.Equal(t, bookingDomain.StatusCancelled, local.Status())

	assert.Equal(t, []string{EventBookingCancelled}, f.pub.types())
	f.gateway.AssertNumberOfCalls(t, "ListUserBookings", 1)
	f.guard.AssertCalled(t, "Release", mock.Anything, "cancel:42", "hold-1")
}

func TestCancelBooking_OnlyFromApproved(t *testing.T) {
	for _, status := range []string{"pending", "paid_deposit", "completed", "cancelled", "rejected", "mystery"} {
		t.Run(status, func(t *testing.T) {
			f := newBookingFixture()
			f.allowGuard()
			sess := testSession(t)
			f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(5)).Return(testBooking(5, status), nil)

			_, err := f.svc.CancelBooking(context.Background(), sess, 5)
			assert.True(t, domain.IsKind(err, domain.KindInvalidState))
			f.gateway.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancelBooking_FailureLeavesStatusUnchanged(t *testing.T) {
	f := newBookingFixture()
	f.allowGuard()
	sess := testSession(t)
	ctx := context.Background()

	f.gateway.On("ListUserBookings", mock.Anything, sess.Principal()).
		Return([]*bookingDomain.Booking{testBooking(42, "approved")}, nil)
	f.gateway.On("UpdateStatus", mock.Anything, sess.Principal(), int64(42), bookingDomain.StatusCancelled, bookingDomain.PaymentMethod("")).
		Return(domain.NewUpstreamError("booking API unreachable", errors.New("timeout"))).Once()

	_, err := f.svc.ListBookings(ctx, sess)
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, sess, 42)
	require.Error(t, err)

	local, ok := f.screens.Get(sess.ID(), sess.UserID()).Bookings.Find(42)
	require.True(t, ok)
	assert.Equal(t, bookingDomain.StatusApproved, local.Status())
	assert.Empty(t, f.pub.types())
	f.gateway.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestCancelBooking_SecondClickWhileInFlight(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.guard.On("Acquire", mock.Anything, "cancel:42", cancelGuardTTL).Return("", false, nil)

	_, err := f.svc.CancelBooking(context.Background(), sess, 42)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	f.gateway.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_OtherUsersBookingIsNotFound(t *testing.T) {
	f := newBookingFixture()
	f.allowGuard()
	sess := testSession(t)
	other := bookingDomain.ReconstructBooking(9, 999, 1, "x", 1, "y", "2026-11-02", "10:00", "approved", 100, "", "", "")
	f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(9)).Return(other, nil)

	_, err := f.svc.CancelBooking(context.Background(), sess, 9)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestSelectPaymentMethod(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(42)).Return(testBooking(42, "approved"), nil)
	f.gateway.On("UpdateStatus", mock.Anything, sess.Principal(), int64(42), bookingDomain.StatusPaidDeposit, bookingDomain.PaymentCard).Return(nil)

	result, err := f.svc.SelectPaymentMethod(context.Background(), sess, 42, "Card")
	require.NoError(t, err)

	assert.Equal(t, "card", result.PaymentMethod)
	assert.Equal(t, int64(6001), result.DepositCents)
	assert.Equal(t, "/bookings/success/42", result.SuccessRoute)
	assert.Equal(t, "paid_deposit", result.Booking.Status)
	assert.Equal(t, []string{EventBookingDepositSelected}, f.pub.types())
}

func TestSelectPaymentMethod_Invalid(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)

	_, err := f.svc.SelectPaymentMethod(context.Background(), sess, 42, "bitcoin")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(43)).Return(testBooking(43, "pending"), nil)
	_, err = f.svc.SelectPaymentMethod(context.Background(), sess, 43, "cash")
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))
}

func TestBookAgain(t *testing.T) {
	f := newBookingFixture()
	sess := testSession(t)
	f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(3)).Return(testBooking(3, "completed"), nil)
	f.gateway.On("GetBooking", mock.Anything, sess.Principal(), int64(4)).Return(testBooking(4, "approved"), nil)

	result, err := f.svc.BookAgain(context.Background(), sess, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(103), result.ServiceID)
	assert.Equal(t, "/service-details/103", result.Route)

	_, err = f.svc.BookAgain(context.Background(), sess, 4)
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))
}
