package booking

import (
	"strings"
	"time"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// ConflictMessage is shown when the booking API rejects a slot taken since it was listed.
const ConflictMessage = "This time slot is no longer available. Please select another time."

// ReservationRequest is the payload of a booking creation call.
type ReservationRequest struct {
	UserID    int64
	ServiceID int64
	Date      string
	Time      string // 24-hour HH:MM
	Notes     string
}

// ReservationForm is the date/time picker state for booking one service.
// It is not safe for concurrent use; callers serialize access.
type ReservationForm struct {
	serviceID    int64
	serviceTitle string

	date         string
	selectedTime string
	slots        []TimeSlot
	fallback     bool

	submitting bool
	lastError  string
}

// NewReservationForm creates an empty form for the given service.
func NewReservationForm(serviceID int64, serviceTitle string) *ReservationForm {
	return &ReservationForm{serviceID: serviceID, serviceTitle: serviceTitle}
}

func (f *ReservationForm) ServiceID() int64     { return f.serviceID }
func (f *ReservationForm) ServiceTitle() string { return f.serviceTitle }
func (f *ReservationForm) Date() string         { return f.date }
func (f *ReservationForm) SelectedTime() string { return f.selectedTime }
func (f *ReservationForm) Fallback() bool       { return f.fallback }
func (f *ReservationForm) Submitting() bool     { return f.submitting }
func (f *ReservationForm) LastError() string    { return f.lastError }

// Slots returns a copy of the current slot list.
func (f *ReservationForm) Slots() []TimeSlot {
	out := make([]TimeSlot, len(f.slots))
	copy(out, f.slots)
	return out
}

// SetServiceTitle fills in the title once the service has been loaded.
func (f *ReservationForm) SetServiceTitle(title string) {
	if title != "" {
		f.serviceTitle = title
	}
}

// SelectDate picks a new date. The selected time and slot list are cleared.
func (f *ReservationForm) SelectDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return domain.NewValidationError("booking_date must be formatted as YYYY-MM-DD")
	}
	f.date = date
	f.selectedTime = ""
	f.slots = nil
	f.fallback = false
	f.lastError = ""
	return nil
}

// LoadSlots installs the slot list for the selected date. An empty list falls
// back to DefaultTimeSlots so booking is never blocked by the slot service.
func (f *ReservationForm) LoadSlots(slots []TimeSlot) {
	if len(slots) == 0 {
		f.slots = DefaultTimeSlots()
		f.fallback = true
		return
	}
	f.slots = make([]TimeSlot, len(slots))
	copy(f.slots, slots)
	f.fallback = false
}

// SelectTime picks one of the listed, available slots.
func (f *ReservationForm) SelectTime(label string) error {
	if f.date == "" {
		return domain.NewValidationError("select a date first")
	}
	slot, ok := FindSlot(f.slots, label)
	if !ok {
		return domain.NewValidationError("time slot is not offered for this date: " + label)
	}
	if !slot.Available {
		return domain.NewValidationError("time slot is not available: " + label)
	}
	f.selectedTime = slot.Time
	f.lastError = ""
	return nil
}

// BeginSubmit validates the form, marks it in flight and returns the creation payload.
// A second call before OnSuccess, OnConflict or OnFailure is rejected.
func (f *ReservationForm) BeginSubmit(userID int64, notes string) (ReservationRequest, error) {
	if f.submitting {
		return ReservationRequest{}, domain.NewConflictError("booking submission already in progress")
	}
	if f.date == "" {
		return ReservationRequest{}, domain.NewValidationError("booking_date is required")
	}
	if f.selectedTime == "" {
		return ReservationRequest{}, domain.NewValidationError("booking_time is required")
	}
	t24, err := To24Hour(f.selectedTime)
	if err != nil {
		return ReservationRequest{}, domain.NewValidationError(err.Error())
	}

	notes = strings.TrimSpace(notes)
	if notes == "" && f.serviceTitle != "" {
		notes = "Booking for " + f.serviceTitle
	}

	f.submitting = true
	f.lastError = ""
	return ReservationRequest{
		UserID:    userID,
		ServiceID: f.serviceID,
		Date:      f.date,
		Time:      t24,
		Notes:     notes,
	}, nil
}

// OnConflict handles a slot taken by someone else: the time is cleared, the date kept.
func (f *ReservationForm) OnConflict() {
	f.submitting = false
	f.selectedTime = ""
	f.lastError = ConflictMessage
}

// OnFailure handles any other creation failure the same way, with the given message.
func (f *ReservationForm) OnFailure(message string) {
	f.submitting = false
	f.selectedTime = ""
	f.lastError = message
}

// OnSuccess resets the form.
func (f *ReservationForm) OnSuccess() {
	*f = ReservationForm{serviceID: f.serviceID, serviceTitle: f.serviceTitle}
}
