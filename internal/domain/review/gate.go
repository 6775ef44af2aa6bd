package review

import (
	"fmt"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

// GateState is where the rating obligation flow currently stands.
type GateState string

const (
	GateListing         GateState = "listing"
	GateRatingRequired  GateState = "rating_required"
	GateRatingModalOpen GateState = "rating_modal_open"
	GateReportModalOpen GateState = "report_modal_open"
)

// Modal selects which form GateOpen shows.
type Modal string

const (
	ModalRating Modal = "rating"
	ModalReport Modal = "report"
)

// Obligation is a completed booking the user has not rated.
type Obligation struct {
	BookingID    int64  `json:"booking_id"`
	ServiceID    int64  `json:"service_id"`
	ServiceTitle string `json:"service_title"`
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`

	// Unconfirmed is set when the review status lookup failed.
	Unconfirmed bool `json:"unconfirmed"`
}

// Gate blocks normal listing until every obligation is rated or reported.
// It is not safe for concurrent use.
type Gate struct {
	state   GateState
	unrated []Obligation
	active  int64
}

// NewGate starts in rating_required when obligations exist, otherwise listing.
func NewGate(unrated []Obligation) *Gate {
	g := &Gate{unrated: append([]Obligation(nil), unrated...)}
	g.settle()
	return g
}

func (g *Gate) State() GateState { return g.state }

// ActiveBookingID is the obligation presented first, or 0 when listing.
func (g *Gate) ActiveBookingID() int64 { return g.active }

// Unrated returns a copy of the outstanding obligations.
func (g *Gate) Unrated() []Obligation {
	return append([]Obligation(nil), g.unrated...)
}

// IsListing reports whether normal listing may be shown.
func (g *Gate) IsListing() bool { return g.state == GateListing }

// Find returns the obligation for bookingID.
func (g *Gate) Find(bookingID int64) (Obligation, bool) {
	for _, o := range g.unrated {
		if o.BookingID == bookingID {
			return o, true
		}
	}
	return Obligation{}, false
}

// Open shows the rating or report form for one outstanding booking.
func (g *Gate) Open(bookingID int64, modal Modal) error {
	if g.state == GateListing {
		return domain.NewInvalidStateError(string(g.state), string(modalState(modal)))
	}
	if _, ok := g.Find(bookingID); !ok {
		return domain.NewNotFoundError("Obligation", fmt.Sprint(bookingID))
	}
	switch modal {
	case ModalRating, ModalReport:
	default:
		return domain.NewValidationError("modal must be rating or report")
	}
	g.state = modalState(modal)
	g.active = bookingID
	return nil
}

// Close dismisses an open form without resolving it.
func (g *Gate) Close() {
	if g.state == GateRatingModalOpen || g.state == GateReportModalOpen {
		g.state = GateRatingRequired
	}
}

// Resolve removes bookingID after a successful rating or report and
// advances to the next obligation, or to listing when none remain.
func (g *Gate) Resolve(bookingID int64) bool {
	for i, o := range g.unrated {
		if o.BookingID == bookingID {
			g.unrated = append(g.unrated[:i], g.unrated[i+1:]...)
			g.settle()
			return true
		}
	}
	return false
}

func (g *Gate) settle() {
	if len(g.unrated) == 0 {
		g.state = GateListing
		g.active = 0
		return
	}
	g.state = GateRatingRequired
	g.active = g.unrated[0].BookingID
}

func modalState(m Modal) GateState {
	if m == ModalReport {
		return GateReportModalOpen
	}
	return GateRatingModalOpen
}
