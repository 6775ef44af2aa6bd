package booking

import (
	"github.com/beerescue/service-storefront/internal/common/domain"
)

// Booking is the storefront's copy of a booking owned by the booking API.
type Booking struct {
	id           int64
	userID       int64
	serviceID    int64
	serviceTitle string
	providerID   int64
	providerName string

	bookingDate string
	bookingTime string

	status    BookingStatus
	rawStatus string

	totalCents    int64
	paymentMethod PaymentMethod
	notes         string
	userMobile    string
}

// ReconstructBooking rebuilds a Booking from API data (no validation).
// rawStatus is kept verbatim so unrecognized values can still be displayed.
func ReconstructBooking(
	id int64,
	userID int64,
	serviceID int64,
	serviceTitle string,
	providerID int64,
	providerName string,
	bookingDate string,
	bookingTime string,
	rawStatus string,
	totalCents int64,
	paymentMethod PaymentMethod,
	notes string,
	userMobile string,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		serviceID:     serviceID,
		serviceTitle:  serviceTitle,
		providerID:    providerID,
		providerName:  providerName,
		bookingDate:   bookingDate,
		bookingTime:   bookingTime,
		status:        StatusFrom(rawStatus),
		rawStatus:     rawStatus,
		totalCents:    totalCents,
		paymentMethod: paymentMethod,
		notes:         notes,
		userMobile:    userMobile,
	}
}

// --- Getters ---

func (b *Booking) ID() int64                    { return b.id }
func (b *Booking) UserID() int64                { return b.userID }
func (b *Booking) ServiceID() int64             { return b.serviceID }
func (b *Booking) ServiceTitle() string         { return b.serviceTitle }
func (b *Booking) ProviderID() int64            { return b.providerID }
func (b *Booking) ProviderName() string         { return b.providerName }
func (b *Booking) BookingDate() string          { return b.bookingDate }
func (b *Booking) BookingTime() string          { return b.bookingTime }
func (b *Booking) Status() BookingStatus        { return b.status }
func (b *Booking) RawStatus() string            { return b.rawStatus }
func (b *Booking) TotalCents() int64            { return b.totalCents }
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }
func (b *Booking) Notes() string                { return b.notes }
func (b *Booking) UserMobile() string           { return b.userMobile }

// --- Behavior ---

// Cancel transitions the booking from approved to cancelled.
func (b *Booking) Cancel() error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.setStatus(StatusCancelled)
	return nil
}

// SelectPayment records the payment method and moves approved to paid_deposit.
func (b *Booking) SelectPayment(method PaymentMethod) error {
	if !b.status.CanTransitionTo(StatusPaidDeposit) {
		return domain.NewInvalidStateError(string(b.status), string(StatusPaidDeposit))
	}
	b.paymentMethod = method
	b.setStatus(StatusPaidDeposit)
	return nil
}

// ApplyStatus overwrites the status with a value reported by the booking API.
// The API is authoritative, so no transition check is made.
func (b *Booking) ApplyStatus(raw string) {
	b.status = StatusFrom(raw)
	b.rawStatus = raw
}

func (b *Booking) setStatus(s BookingStatus) {
	b.status = s
	b.rawStatus = string(s)
}

// Clone returns a copy safe to mutate independently.
func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}
