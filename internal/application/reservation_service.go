package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/common/kafka"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
	"github.com/beerescue/service-storefront/internal/domain/session"
	"github.com/beerescue/service-storefront/internal/metrics"
)

// BookingsRoute is where a successful reservation sends the user.
const BookingsRoute = "/bookings"

// ReservationService handles picking a date and time for a service and creating the booking.
// The booking API is the only arbiter of slot conflicts.
type ReservationService struct {
	bookings bookingDomain.BookingGateway
	catalog  catalog.CatalogGateway
	screens  *ScreenStore
	events   eventPublisher
	logger   *zap.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	bookings bookingDomain.BookingGateway,
	catalogGateway catalog.CatalogGateway,
	screens *ScreenStore,
	producer kafka.Publisher,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		bookings: bookings,
		catalog:  catalogGateway,
		screens:  screens,
		events:   eventPublisher{producer: producer, logger: logger},
		logger:   logger,
	}
}

// GetForm returns the reservation form of a service.
func (s *ReservationService) GetForm(ctx context.Context, sess *session.Session, serviceID int64) (*ReservationDTO, error) {
	screen, err := s.screen(ctx, sess, serviceID)
	if err != nil {
		return nil, err
	}
	var result ReservationDTO
	_ = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		result = toReservationDTO(f)
		return nil
	})
	return &result, nil
}

// SelectDate picks a date, clears the time and loads that date's slots.
// A failed or empty slot lookup falls back to the default slot list.
func (s *ReservationService) SelectDate(ctx context.Context, sess *session.Session, serviceID int64, date string) (*ReservationDTO, error) {
	screen, err := s.screen(ctx, sess, serviceID)
	if err != nil {
		return nil, err
	}
	if err := screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		return f.SelectDate(date)
	}); err != nil {
		return nil, err
	}
	return s.refreshSlots(ctx, sess, screen, serviceID, date), nil
}

// SelectTime picks one of the available slots of the selected date.
func (s *ReservationService) SelectTime(ctx context.Context, sess *session.Session, serviceID int64, label string) (*ReservationDTO, error) {
	screen, err := s.screen(ctx, sess, serviceID)
	if err != nil {
		return nil, err
	}
	var result ReservationDTO
	err = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		if err := f.SelectTime(label); err != nil {
			return err
		}
		result = toReservationDTO(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Submit creates the booking for the selected date and time.
//
// A slot conflict clears the time, keeps the date, refreshes the slot list once
// and returns the refreshed form together with booking.ErrSlotConflict.
// Any other failure does the same with the failure's message.
func (s *ReservationService) Submit(ctx context.Context, sess *session.Session, serviceID int64, notes string) (*ReservationResultDTO, *ReservationDTO, error) {
	screen, err := s.screen(ctx, sess, serviceID)
	if err != nil {
		return nil, nil, err
	}

	var req bookingDomain.ReservationRequest
	err = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		var err error
		req, err = f.BeginSubmit(sess.UserID(), notes)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	created, err := s.bookings.CreateBooking(ctx, sess.Principal(), req)
	if err != nil {
		conflict := errors.Is(err, bookingDomain.ErrSlotConflict)
		_ = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
			if conflict {
				f.OnConflict()
			} else {
				f.OnFailure(failureMessage(err))
			}
			return nil
		})

		if conflict {
			metrics.RecordBookingRequest("conflict")
			s.logger.Info("time slot taken",
				zap.Int64("service_id", serviceID),
				zap.String("date", req.Date),
				zap.String("time", req.Time),
			)
			s.events.publishEvent(ctx, EventBookingSlotConflict, SlotConflictEvent{
				UserID:      sess.UserID(),
				ServiceID:   serviceID,
				BookingDate: req.Date,
				BookingTime: req.Time,
				OccurredAt:  time.Now().UTC(),
			})
		} else {
			metrics.RecordBookingRequest("failed")
			s.logger.Error("failed to create booking", zap.Int64("service_id", serviceID), zap.Error(err))
		}

		form := s.refreshSlots(ctx, sess, screen, serviceID, req.Date)
		return nil, form, err
	}

	_ = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		f.OnSuccess()
		return nil
	})
	metrics.RecordBookingRequest("created")

	// The bookings screen refetches on its next load.
	screen.Bookings.Reset()

	s.events.publishEvent(ctx, EventBookingRequested, BookingRequestedEvent{
		BookingID:   created.ID(),
		UserID:      sess.UserID(),
		ServiceID:   serviceID,
		BookingDate: req.Date,
		BookingTime: req.Time,
		OccurredAt:  time.Now().UTC(),
	})

	s.logger.Info("booking requested",
		zap.Int64("booking_id", created.ID()),
		zap.Int64("service_id", serviceID),
		zap.Int64("user_id", sess.UserID()),
	)

	return &ReservationResultDTO{Booking: toBookingDTO(created), Route: BookingsRoute}, nil, nil
}

// screen returns the session's screen, loading the service on the first use of its form.
func (s *ReservationService) screen(ctx context.Context, sess *session.Session, serviceID int64) (*Screen, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	if screen.HasForm(serviceID) {
		return screen, nil
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.NewNotFoundError("Service", fmt.Sprint(serviceID))
	}
	_ = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		f.SetServiceTitle(svc.Title)
		return nil
	})
	return screen, nil
}

// refreshSlots fetches the slots of date without holding the screen lock and
// installs them only if the form still shows that date.
func (s *ReservationService) refreshSlots(ctx context.Context, sess *session.Session, screen *Screen, serviceID int64, date string) *ReservationDTO {
	slots, err := s.bookings.TimeSlots(ctx, sess.Principal(), serviceID, date)
	if err != nil {
		s.logger.Warn("time slots unavailable, using defaults",
			zap.Int64("service_id", serviceID),
			zap.String("date", date),
			zap.Error(err),
		)
		slots = nil
	}

	var result ReservationDTO
	_ = screen.WithForm(serviceID, func(f *bookingDomain.ReservationForm) error {
		if f.Date() == date {
			f.LoadSlots(slots)
		}
		result = toReservationDTO(f)
		return nil
	})
	return &result
}

func failureMessage(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to create booking. Please try again."
}
