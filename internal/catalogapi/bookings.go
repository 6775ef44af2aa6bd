package catalogapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// ListUserBookings implements booking.BookingGateway.
func (c *Client) ListUserBookings(ctx context.Context, p session.Principal) ([]*booking.Booking, error) {
	body, err := c.do(ctx, request{
		op:     "list_bookings",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/booking/user/%d/bookings", p.UserID),
		token:  p.Token,
	})
	if err != nil {
		return nil, translate(err, "Bookings", fmt.Sprint(p.UserID))
	}

	var dtos []bookingDTO
	if err := decodeList(body, "bookings", &dtos); err != nil {
		return nil, translate(fmt.Errorf("decode bookings: %w", err), "", "")
	}
	out := make([]*booking.Booking, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetBooking implements booking.BookingGateway.
func (c *Client) GetBooking(ctx context.Context, p session.Principal, id int64) (*booking.Booking, error) {
	body, err := c.do(ctx, request{
		op:     "get_booking",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/booking/%d", id),
		token:  p.Token,
	})
	if err != nil {
		return nil, translate(err, "Booking", fmt.Sprint(id))
	}

	var dto bookingDTO
	if err := decodeOne(body, "booking", &dto); err != nil {
		return nil, translate(fmt.Errorf("decode booking: %w", err), "", "")
	}
	return dto.toDomain(), nil
}

type createBookingBody struct {
	UserID       int64  `json:"user_id"`
	ServiceID    int64  `json:"service_id"`
	BookingDate  string `json:"booking_date"`
	BookingTime  string `json:"booking_time"`
	BookingNotes string `json:"booking_notes,omitempty"`
}

// CreateBooking implements booking.BookingGateway. A 409 becomes booking.ErrSlotConflict.
func (c *Client) CreateBooking(ctx context.Context, p session.Principal, req booking.ReservationRequest) (*booking.Booking, error) {
	r, err := jsonRequest("create_booking", http.MethodPost, "/api/booking/create", p.Token, createBookingBody{
		UserID:       req.UserID,
		ServiceID:    req.ServiceID,
		BookingDate:  req.Date,
		BookingTime:  req.Time,
		BookingNotes: req.Notes,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, r)
	if statusOf(err) == http.StatusConflict {
		return nil, booking.ErrSlotConflict
	}
	if err != nil {
		return nil, translate(err, "Service", fmt.Sprint(req.ServiceID))
	}

	var dto bookingDTO
	if err := decodeOne(body, "booking", &dto); err != nil {
		return nil, translate(fmt.Errorf("decode booking: %w", err), "", "")
	}
	return dto.toDomain(), nil
}

type statusBody struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// UpdateStatus implements booking.BookingGateway.
func (c *Client) UpdateStatus(ctx context.Context, p session.Principal, id int64, status booking.BookingStatus, method booking.PaymentMethod) error {
	r, err := jsonRequest("update_booking_status", http.MethodPut, fmt.Sprintf("/api/booking/%d/status", id), p.Token, statusBody{
		Status:        status.String(),
		PaymentMethod: string(method),
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, r)
	return translate(err, "Booking", fmt.Sprint(id))
}

// TimeSlots implements booking.BookingGateway.
func (c *Client) TimeSlots(ctx context.Context, p session.Principal, serviceID int64, date string) ([]booking.TimeSlot, error) {
	q := url.Values{}
	q.Set("service_id", fmt.Sprint(serviceID))
	q.Set("date", date)

	body, err := c.do(ctx, request{
		op:     "time_slots",
		method: http.MethodGet,
		path:   "/api/booking/timeslots?" + q.Encode(),
		token:  p.Token,
	})
	if err != nil {
		return nil, translate(err, "Service", fmt.Sprint(serviceID))
	}

	var slots []booking.TimeSlot
	if err := decodeList(body, "time_slots", &slots); err != nil {
		return nil, translate(fmt.Errorf("decode time slots: %w", err), "", "")
	}
	return slots, nil
}
