package booking

import (
	"fmt"
	"strings"
)

// Emphasis is the visual treatment a screen applies to a status badge.
type Emphasis string

const (
	EmphasisNeutral  Emphasis = "neutral"
	EmphasisWarning  Emphasis = "warning"
	EmphasisInfo     Emphasis = "info"
	EmphasisPositive Emphasis = "positive"
	EmphasisDanger   Emphasis = "danger"
)

// Action is a button a booking row may offer.
type Action string

const (
	ActionCheckout  Action = "checkout"
	ActionCancel    Action = "cancel"
	ActionRate      Action = "rate"
	ActionReport    Action = "report"
	ActionBookAgain Action = "book_again"
)

// View is everything a screen needs to render one booking row.
type View struct {
	Label    string   `json:"label"`
	Emphasis Emphasis `json:"emphasis"`
	Route    string   `json:"route,omitempty"`
	Actions  []Action `json:"actions"`

	// RequiresRating marks bookings that feed the rating obligation gate.
	RequiresRating bool `json:"requires_rating"`
}

// Has reports whether the view offers action a.
func (v View) Has(a Action) bool {
	for _, x := range v.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// ServiceRoute is the service details screen for serviceID.
func ServiceRoute(serviceID int64) string {
	return fmt.Sprintf("/service-details/%d", serviceID)
}

// ResolveView maps a booking to its label, emphasis, route and actions.
// It is a pure function of the booking's status and identifiers.
func ResolveView(b *Booking) View {
	label := strings.ToUpper(b.status.String())
	if b.status == StatusUnknown {
		label = strings.ToUpper(strings.TrimSpace(b.rawStatus))
		if label == "" {
			label = strings.ToUpper(StatusUnknown.String())
		}
	}

	switch b.status {
	case StatusPending:
		return View{
			Label:    label,
			Emphasis: EmphasisWarning,
			Route:    ServiceRoute(b.serviceID) + "?pending=true",
			Actions:  []Action{},
		}
	case StatusApproved:
		return View{
			Label:    label,
			Emphasis: EmphasisInfo,
			Route:    fmt.Sprintf("/payment/%d", b.id),
			Actions:  []Action{ActionCheckout, ActionCancel},
		}
	case StatusPaidDeposit:
		return View{
			Label:    label,
			Emphasis: EmphasisPositive,
			Route:    fmt.Sprintf("/booking-details/%d", b.id),
			Actions:  []Action{},
		}
	case StatusCompleted:
		return View{
			Label:          label,
			Emphasis:       EmphasisPositive,
			Route:          fmt.Sprintf("/booking-details/%d", b.id),
			Actions:        []Action{ActionRate, ActionReport, ActionBookAgain},
			RequiresRating: true,
		}
	case StatusRejected:
		return View{
			Label:    label,
			Emphasis: EmphasisDanger,
			Route:    ServiceRoute(b.serviceID),
			Actions:  []Action{},
		}
	case StatusCancelled:
		return View{Label: label, Emphasis: EmphasisDanger, Actions: []Action{}}
	default:
		return View{Label: label, Emphasis: EmphasisNeutral, Actions: []Action{}}
	}
}
