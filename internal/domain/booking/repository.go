package booking

import (
	"context"
	"errors"
	"time"

	"github.com/beerescue/service-storefront/internal/domain/session"
)

// ErrSlotConflict is returned by CreateBooking when the slot was taken after it was listed.
var ErrSlotConflict = errors.New("booking: time slot no longer available")

// BookingGateway defines the booking API contract used by the storefront.
type BookingGateway interface {
	// ListUserBookings retrieves every booking of the principal's user.
	ListUserBookings(ctx context.Context, p session.Principal) ([]*Booking, error)

	// GetBooking retrieves one booking by id.
	GetBooking(ctx context.Context, p session.Principal, id int64) (*Booking, error)

	// CreateBooking creates a booking. A taken slot yields ErrSlotConflict.
	CreateBooking(ctx context.Context, p session.Principal, req ReservationRequest) (*Booking, error)

	// UpdateStatus sets a booking's status; method is empty unless a payment method is chosen.
	UpdateStatus(ctx context.Context, p session.Principal, id int64, status BookingStatus, method PaymentMethod) error

	// TimeSlots lists the slots of a service on a date.
	TimeSlots(ctx context.Context, p session.Principal, serviceID int64, date string) ([]TimeSlot, error)
}

// InFlightGuard admits one holder per key at a time.
type InFlightGuard interface {
	// Acquire returns false when key is already held. On success the returned
	// token identifies this hold.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// Release frees key only while it is still held under token, so a hold
	// that expired and was taken over is left alone.
	Release(ctx context.Context, key, token string) error
}
