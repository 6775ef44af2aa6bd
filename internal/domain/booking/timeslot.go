package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSlot is one bookable time on a given date for a service.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DefaultTimeSlots is the fallback when the slot list cannot be fetched or is empty:
// ten hourly slots from 09:00 AM to 06:00 PM, all available.
func DefaultTimeSlots() []TimeSlot {
	labels := []string{
		"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "01:00 PM",
		"02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM", "06:00 PM",
	}
	slots := make([]TimeSlot, len(labels))
	for i, l := range labels {
		slots[i] = TimeSlot{Time: l, Available: true}
	}
	return slots
}

// FindSlot returns the slot whose label matches label.
func FindSlot(slots []TimeSlot, label string) (TimeSlot, bool) {
	for _, s := range slots {
		if strings.EqualFold(strings.TrimSpace(s.Time), strings.TrimSpace(label)) {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// To24Hour converts "hh:mm AM|PM" to "HH:MM". Values already in 24-hour form pass through.
func To24Hour(label string) (string, error) {
	label = strings.TrimSpace(label)
	clock, period, hasPeriod := strings.Cut(label, " ")

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return "", fmt.Errorf("invalid time: %q", label)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return "", fmt.Errorf("invalid hour in %q: %w", label, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", label)
	}

	if !hasPeriod {
		if hour < 0 || hour > 23 {
			return "", fmt.Errorf("invalid hour in %q", label)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if hour < 1 || hour > 12 {
		return "", fmt.Errorf("invalid hour in %q", label)
	}
	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		return "", fmt.Errorf("invalid period in %q", label)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
