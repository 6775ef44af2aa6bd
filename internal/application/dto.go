package application

import (
	"github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
)

// BookingDTO is the response representation of a booking with its display view.
type BookingDTO struct {
	ID            int64        `json:"id"`
	ServiceID     int64        `json:"service_id"`
	ServiceTitle  string       `json:"service_title"`
	ProviderID    int64        `json:"provider_id"`
	ProviderName  string       `json:"provider_name"`
	BookingDate   string       `json:"booking_date"`
	BookingTime   string       `json:"booking_time"`
	Status        string       `json:"status"`
	TotalCents    int64        `json:"total_cents"`
	PaymentMethod string       `json:"payment_method,omitempty"`
	BookingNotes  string       `json:"booking_notes,omitempty"`
	UserMobile    string       `json:"user_mobile,omitempty"`
	View          booking.View `json:"view"`
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:            b.ID(),
		ServiceID:     b.ServiceID(),
		ServiceTitle:  b.ServiceTitle(),
		ProviderID:    b.ProviderID(),
		ProviderName:  b.ProviderName(),
		BookingDate:   b.BookingDate(),
		BookingTime:   b.BookingTime(),
		Status:        b.RawStatus(),
		TotalCents:    b.TotalCents(),
		PaymentMethod: string(b.PaymentMethod()),
		BookingNotes:  b.Notes(),
		UserMobile:    b.UserMobile(),
		View:          booking.ResolveView(b),
	}
}

func toBookingDTOs(list []*booking.Booking) []BookingDTO {
	out := make([]BookingDTO, len(list))
	for i, b := range list {
		out[i] = toBookingDTO(b)
	}
	return out
}

// GateDTO is the rating obligation state shown in front of the booking list.
type GateDTO struct {
	State           review.GateState    `json:"state"`
	Unrated         []review.Obligation `json:"unrated"`
	ActiveBookingID int64               `json:"active_booking_id,omitempty"`
}

func toGateDTO(g *review.Gate) GateDTO {
	if g == nil {
		return GateDTO{State: review.GateListing, Unrated: []review.Obligation{}}
	}
	return GateDTO{State: g.State(), Unrated: g.Unrated(), ActiveBookingID: g.ActiveBookingID()}
}

// BookingListDTO is the bookings screen. Bookings is omitted while the gate blocks listing.
type BookingListDTO struct {
	Gate     GateDTO      `json:"gate"`
	Bookings []BookingDTO `json:"bookings,omitempty"`
}

// PaymentResultDTO answers a payment method selection.
type PaymentResultDTO struct {
	Booking       BookingDTO `json:"booking"`
	PaymentMethod string     `json:"payment_method"`
	DepositCents  int64      `json:"deposit_cents"`
	SuccessRoute  string     `json:"success_route"`
}

// BookAgainDTO points the client back at the service to book it again.
type BookAgainDTO struct {
	ServiceID int64  `json:"service_id"`
	Route     string `json:"route"`
}

// ReservationDTO is the date/time picker state of one service.
type ReservationDTO struct {
	ServiceID    int64              `json:"service_id"`
	ServiceTitle string             `json:"service_title"`
	BookingDate  string             `json:"booking_date,omitempty"`
	BookingTime  string             `json:"booking_time,omitempty"`
	Slots        []booking.TimeSlot `json:"slots"`
	Fallback     bool               `json:"fallback"`
	Submitting   bool               `json:"submitting"`
	Error        string             `json:"error,omitempty"`
}

func toReservationDTO(f *booking.ReservationForm) ReservationDTO {
	return ReservationDTO{
		ServiceID:    f.ServiceID(),
		ServiceTitle: f.ServiceTitle(),
		BookingDate:  f.Date(),
		BookingTime:  f.SelectedTime(),
		Slots:        f.Slots(),
		Fallback:     f.Fallback(),
		Submitting:   f.Submitting(),
		Error:        f.LastError(),
	}
}

// ReservationResultDTO answers a successful booking submission.
type ReservationResultDTO struct {
	Booking BookingDTO `json:"booking"`
	Route   string     `json:"route"`
}

// ReportReasonDTO is one selectable report reason.
type ReportReasonDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ReportReasons lists the reasons a customer can pick when reporting a provider.
func ReportReasons() []ReportReasonDTO {
	reasons := review.ReportReasons()
	out := make([]ReportReasonDTO, len(reasons))
	for i, r := range reasons {
		out[i] = ReportReasonDTO{Value: string(r), Label: r.Label()}
	}
	return out
}
