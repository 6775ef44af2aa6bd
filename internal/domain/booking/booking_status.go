package booking

import (
	"fmt"
	"strings"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusApproved    BookingStatus = "approved"
	StatusPaidDeposit BookingStatus = "paid_deposit"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRejected    BookingStatus = "rejected"

	// StatusUnknown stands in for any value the booking API sends that is not listed above.
	StatusUnknown BookingStatus = "unknown"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:     {StatusApproved, StatusRejected},
	StatusApproved:    {StatusPaidDeposit, StatusCancelled},
	StatusPaidDeposit: {StatusCompleted},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusRejected:    {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
// Matching ignores case and surrounding whitespace.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// StatusFrom is the lenient form of ParseBookingStatus: unrecognized values become StatusUnknown.
func StatusFrom(s string) BookingStatus {
	status, err := ParseBookingStatus(s)
	if err != nil {
		return StatusUnknown
	}
	return status
}
