package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/common/kafka"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/domain/session"
	"github.com/beerescue/service-storefront/internal/metrics"
)

const cancelGuardTTL = 30 * time.Second

// BookingService is the application service behind the bookings screen.
type BookingService struct {
	gateway bookingDomain.BookingGateway
	rating  *RatingService
	guard   bookingDomain.InFlightGuard
	deposit bookingDomain.DepositPolicy
	screens *ScreenStore
	events  eventPublisher
	logger  *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	gateway bookingDomain.BookingGateway,
	rating *RatingService,
	guard bookingDomain.InFlightGuard,
	deposit bookingDomain.DepositPolicy,
	screens *ScreenStore,
	producer kafka.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		gateway: gateway,
		rating:  rating,
		guard:   guard,
		deposit: deposit,
		screens: screens,
		events:  eventPublisher{producer: producer, logger: logger},
		logger:  logger,
	}
}

// ListBookings loads the user's bookings and evaluates the rating obligation gate.
// While the gate is not listing, the bookings themselves are withheld.
func (s *BookingService) ListBookings(ctx context.Context, sess *session.Session) (*BookingListDTO, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	p := sess.Principal()

	err := screen.Bookings.Load(ctx, func(ctx context.Context) ([]*bookingDomain.Booking, error) {
		return s.gateway.ListUserBookings(ctx, p)
	})
	if err != nil {
		s.logger.Error("failed to load bookings", zap.Int64("user_id", sess.UserID()), zap.Error(err))
		return nil, err
	}
	bookings := screen.Bookings.Items()

	gate := s.rating.ensureGate(ctx, sess, screen, bookings)

	result := &BookingListDTO{Gate: gate}
	if gate.State == review.GateListing {
		result.Bookings = toBookingDTOs(bookings)
		if result.Bookings == nil {
			result.Bookings = []BookingDTO{}
		}
	}
	return result, nil
}

// GetBooking returns one booking of the user.
func (s *BookingService) GetBooking(ctx context.Context, sess *session.Session, bookingID int64) (*BookingDTO, error) {
	bk, err := s.fetchBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking moves an approved booking to cancelled. Only one cancellation
// per booking may be in flight; the local list changes only after the API accepted it.
func (s *BookingService) CancelBooking(ctx context.Context, sess *session.Session, bookingID int64) (*BookingDTO, error) {
	key := fmt.Sprintf("cancel:%d", bookingID)
	token, acquired, err := s.guard.Acquire(ctx, key, cancelGuardTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire cancel guard: %w", err)
	}
	if !acquired {
		metrics.RecordCancellation("in_flight")
		return nil, domain.NewConflictError("cancellation already in progress")
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("failed to release cancel guard", zap.String("key", key), zap.Error(err))
		}
	}()

	bk, err := s.fetchBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}

	next := bk.Clone()
	if err := next.Cancel(); err != nil {
		metrics.RecordCancellation("rejected")
		return nil, err
	}

	if err := s.gateway.UpdateStatus(ctx, sess.Principal(), bookingID, bookingDomain.StatusCancelled, ""); err != nil {
		metrics.RecordCancellation("failed")
		s.logger.Error("failed to cancel booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, err
	}

	s.replaceLocal(sess, next)
	metrics.RecordCancellation("cancelled")

	s.events.publishEvent(ctx, EventBookingCancelled, BookingCancelledEvent{
		BookingID:  bookingID,
		UserID:     sess.UserID(),
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("booking cancelled", zap.Int64("booking_id", bookingID), zap.Int64("user_id", sess.UserID()))
	result := toBookingDTO(next)
	return &result, nil
}

// SelectPaymentMethod records card or cash for an approved booking and moves it to paid_deposit.
// No money moves; the deposit owed is reported back.
func (s *BookingService) SelectPaymentMethod(ctx context.Context, sess *session.Session, bookingID int64, method string) (*PaymentResultDTO, error) {
	pm, err := bookingDomain.ParsePaymentMethod(method)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bk, err := s.fetchBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}

	next := bk.Clone()
	if err := next.SelectPayment(pm); err != nil {
		return nil, err
	}

	depositCents, err := s.deposit.Deposit(next.TotalCents())
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("deposit error: %v", err))
	}

	if err := s.gateway.UpdateStatus(ctx, sess.Principal(), bookingID, bookingDomain.StatusPaidDeposit, pm); err != nil {
		s.logger.Error("failed to record payment method", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, err
	}

	s.replaceLocal(sess, next)

	s.events.publishEvent(ctx, EventBookingDepositSelected, DepositSelectedEvent{
		BookingID:     bookingID,
		UserID:        sess.UserID(),
		PaymentMethod: string(pm),
		DepositCents:  depositCents,
		TotalCents:    next.TotalCents(),
		OccurredAt:    time.Now().UTC(),
	})

	return &PaymentResultDTO{
		Booking:       toBookingDTO(next),
		PaymentMethod: string(pm),
		DepositCents:  depositCents,
		SuccessRoute:  fmt.Sprintf("/bookings/success/%d", bookingID),
	}, nil
}

// BookAgain returns where to start a new booking of a completed booking's service.
func (s *BookingService) BookAgain(ctx context.Context, sess *session.Session, bookingID int64) (*BookAgainDTO, error) {
	bk, err := s.fetchBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	if !bookingDomain.ResolveView(bk).Has(bookingDomain.ActionBookAgain) {
		return nil, domain.NewInvalidStateError(bk.Status().String(), "book_again")
	}
	return &BookAgainDTO{
		ServiceID: bk.ServiceID(),
		Route:     bookingDomain.ServiceRoute(bk.ServiceID()),
	}, nil
}

// fetchBooking prefers the screen's copy and falls back to the API.
func (s *BookingService) fetchBooking(ctx context.Context, sess *session.Session, bookingID int64) (*bookingDomain.Booking, error) {
	return findBooking(ctx, s.gateway, s.screens.Get(sess.ID(), sess.UserID()), sess, bookingID)
}

func (s *BookingService) replaceLocal(sess *session.Session, bk *bookingDomain.Booking) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	screen.Bookings.Update(bk.ID(), func(*bookingDomain.Booking) *bookingDomain.Booking { return bk })
}

func findBooking(
	ctx context.Context,
	gateway bookingDomain.BookingGateway,
	screen *Screen,
	sess *session.Session,
	bookingID int64,
) (*bookingDomain.Booking, error) {
	if bk, ok := screen.Bookings.Find(bookingID); ok {
		return bk, nil
	}

	bk, err := gateway.GetBooking(ctx, sess.Principal(), bookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != 0 && bk.UserID() != sess.UserID() {
		return nil, domain.NewNotFoundError("Booking", fmt.Sprint(bookingID))
	}
	return bk, nil
}
