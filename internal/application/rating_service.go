package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/common/kafka"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/domain/session"
	"github.com/beerescue/service-storefront/internal/metrics"
)

// RatingService drives the rating obligation gate: completed bookings the
// user has not reviewed must be rated or reported before listing resumes.
type RatingService struct {
	reviews     review.ReviewGateway
	bookings    bookingDomain.BookingGateway
	screens     *ScreenStore
	events      eventPublisher
	logger      *zap.Logger
	concurrency int
}

// NewRatingService creates a new RatingService. concurrency bounds the
// parallel review status lookups of one gate evaluation.
func NewRatingService(
	reviews review.ReviewGateway,
	bookings bookingDomain.BookingGateway,
	screens *ScreenStore,
	producer kafka.Publisher,
	logger *zap.Logger,
	concurrency int,
) *RatingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RatingService{
		reviews:     reviews,
		bookings:    bookings,
		screens:     screens,
		events:      eventPublisher{producer: producer, logger: logger},
		logger:      logger,
		concurrency: concurrency,
	}
}

// RatingInput is a submitted star rating.
type RatingInput struct {
	Rating int
	Text   string
}

// ReportInput is a submitted provider report.
type ReportInput struct {
	Reason      string
	Description string
	Video       *review.Attachment
}

// Gate returns the current gate, evaluating it when none is active.
func (s *RatingService) Gate(ctx context.Context, sess *session.Session) (*GateDTO, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	if err := s.ensureBookings(ctx, sess, screen); err != nil {
		return nil, err
	}
	gate := s.ensureGate(ctx, sess, screen, screen.Bookings.Items())
	return &gate, nil
}

// Open shows the rating or report form for an outstanding booking.
func (s *RatingService) Open(ctx context.Context, sess *session.Session, bookingID int64, modal review.Modal) (*GateDTO, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	if _, err := s.Gate(ctx, sess); err != nil {
		return nil, err
	}

	var (
		result GateDTO
		err    error
	)
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g == nil {
			g = review.NewGate(nil)
		}
		err = g.Open(bookingID, modal)
		result = toGateDTO(g)
		return g
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Close dismisses an open form; the obligation stays.
func (s *RatingService) Close(_ context.Context, sess *session.Session) GateDTO {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	var result GateDTO
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g != nil {
			g.Close()
		}
		result = toGateDTO(g)
		return g
	})
	return result
}

// SubmitRating files a review for a completed booking and resolves its obligation.
// A booking the API already holds a review for counts as resolved.
func (s *RatingService) SubmitRating(ctx context.Context, sess *session.Session, bookingID int64, in RatingInput) (*GateDTO, error) {
	ob, err := s.obligation(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}

	rv, err := review.NewReview(bookingID, ob.ServiceID, sess.UserID(), in.Rating, in.Text)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.SubmitReview(ctx, sess.Principal(), rv); err != nil {
		if !domain.IsKind(err, domain.KindConflict) {
			s.logger.Error("failed to submit review", zap.Int64("booking_id", bookingID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("booking already reviewed", zap.Int64("booking_id", bookingID))
	} else {
		metrics.RecordReview("rating")
		s.events.publishEvent(ctx, EventReviewSubmitted, ReviewSubmittedEvent{
			BookingID:  bookingID,
			ServiceID:  ob.ServiceID,
			UserID:     sess.UserID(),
			Rating:     rv.Rating,
			Source:     "rating",
			OccurredAt: time.Now().UTC(),
		})
	}

	result := s.resolve(sess, bookingID)
	return &result, nil
}

// ReportProvider files a report against the booking's provider, then a one-star
// review on the user's behalf, and resolves the obligation.
func (s *RatingService) ReportProvider(ctx context.Context, sess *session.Session, bookingID int64, in ReportInput) (*GateDTO, error) {
	reason, err := review.ParseReportReason(in.Reason)
	if err != nil {
		return nil, err
	}

	ob, err := s.obligation(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}

	report, err := review.NewReport(bookingID, ob.ProviderID, sess.UserID(), reason, in.Description, in.Video)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.ReportProvider(ctx, sess.Principal(), report); err != nil {
		s.logger.Error("failed to report provider",
			zap.Int64("booking_id", bookingID),
			zap.Int64("provider_id", ob.ProviderID),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.RecordReview("report")

	s.events.publishEvent(ctx, EventProviderReported, ProviderReportedEvent{
		BookingID:  bookingID,
		ProviderID: ob.ProviderID,
		UserID:     sess.UserID(),
		Reason:     string(reason),
		HasVideo:   report.Video != nil,
		OccurredAt: time.Now().UTC(),
	})

	rv, err := report.ReviewFor(ob.ServiceID)
	if err != nil {
		return nil, err
	}
	switch err := s.reviews.SubmitReview(ctx, sess.Principal(), rv); {
	case err == nil:
		s.events.publishEvent(ctx, EventReviewSubmitted, ReviewSubmittedEvent{
			BookingID:  bookingID,
			ServiceID:  ob.ServiceID,
			UserID:     sess.UserID(),
			Rating:     rv.Rating,
			Source:     "report",
			OccurredAt: time.Now().UTC(),
		})
	case domain.IsKind(err, domain.KindConflict):
		s.logger.Info("booking already reviewed", zap.Int64("booking_id", bookingID))
	default:
		// The report itself went through; the gate still clears.
		s.logger.Warn("failed to file report review", zap.Int64("booking_id", bookingID), zap.Error(err))
	}

	result := s.resolve(sess, bookingID)
	return &result, nil
}

// obligation finds what is being rated: the gate's entry when there is one,
// otherwise a completed booking of the user.
func (s *RatingService) obligation(ctx context.Context, sess *session.Session, bookingID int64) (review.Obligation, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())

	var (
		ob    review.Obligation
		found bool
	)
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g != nil {
			ob, found = g.Find(bookingID)
		}
		return g
	})
	if found {
		return ob, nil
	}

	bk, err := findBooking(ctx, s.bookings, screen, sess, bookingID)
	if err != nil {
		return review.Obligation{}, err
	}
	if !bookingDomain.ResolveView(bk).Has(bookingDomain.ActionRate) {
		return review.Obligation{}, domain.NewInvalidStateError(bk.Status().String(), "rated")
	}
	return obligationOf(bk), nil
}

func (s *RatingService) resolve(sess *session.Session, bookingID int64) GateDTO {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	var result GateDTO
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g != nil {
			g.Resolve(bookingID)
		}
		result = toGateDTO(g)
		return g
	})
	return result
}

func (s *RatingService) ensureBookings(ctx context.Context, sess *session.Session, screen *Screen) error {
	if screen.Bookings.Loaded() {
		return nil
	}
	p := sess.Principal()
	err := screen.Bookings.Load(ctx, func(ctx context.Context) ([]*bookingDomain.Booking, error) {
		return s.bookings.ListUserBookings(ctx, p)
	})
	if err != nil {
		s.logger.Error("failed to load bookings", zap.Int64("user_id", sess.UserID()), zap.Error(err))
	}
	return err
}

// ensureGate keeps an active gate as is and otherwise rebuilds it from bookings.
// Lookups run without the screen lock; a gate opened meanwhile wins.
func (s *RatingService) ensureGate(ctx context.Context, sess *session.Session, screen *Screen, bookings []*bookingDomain.Booking) GateDTO {
	var (
		result GateDTO
		active bool
	)
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g != nil && !g.IsListing() {
			active = true
			result = toGateDTO(g)
		}
		return g
	})
	if active {
		return result
	}

	fresh := review.NewGate(s.unrated(ctx, sess.Principal(), bookings))
	screen.WithGate(func(g *review.Gate) *review.Gate {
		if g != nil && !g.IsListing() {
			result = toGateDTO(g)
			return g
		}
		result = toGateDTO(fresh)
		return fresh
	})
	return result
}

// unrated checks every completed booking's review status, in list order.
// A failed lookup keeps the booking as an unconfirmed obligation.
func (s *RatingService) unrated(ctx context.Context, p session.Principal, bookings []*bookingDomain.Booking) []review.Obligation {
	var completed []*bookingDomain.Booking
	for _, b := range bookings {
		if bookingDomain.ResolveView(b).RequiresRating {
			completed = append(completed, b)
		}
	}
	if len(completed) == 0 {
		return nil
	}

	type lookup struct {
		reviewed bool
		err      error
	}
	results := make([]lookup, len(completed))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, b := range completed {
		g.Go(func() error {
			reviewed, err := s.reviews.HasReviewed(ctx, p, b.ID())
			results[i] = lookup{reviewed: reviewed, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var out []review.Obligation
	for i, b := range completed {
		r := results[i]
		if r.err != nil {
			s.logger.Warn("review status unavailable",
				zap.Int64("booking_id", b.ID()),
				zap.Error(r.err),
			)
			ob := obligationOf(b)
			ob.Unconfirmed = true
			out = append(out, ob)
			continue
		}
		if !r.reviewed {
			out = append(out, obligationOf(b))
		}
	}
	return out
}

func obligationOf(b *bookingDomain.Booking) review.Obligation {
	return review.Obligation{
		BookingID:    b.ID(),
		ServiceID:    b.ServiceID(),
		ServiceTitle: b.ServiceTitle(),
		ProviderID:   b.ProviderID(),
		ProviderName: b.ProviderName(),
	}
}

// ParseModal accepts "rating" or "report".
func ParseModal(s string) (review.Modal, error) {
	switch m := review.Modal(s); m {
	case review.ModalRating, review.ModalReport:
		return m, nil
	default:
		return "", domain.NewValidationError(fmt.Sprintf("modal must be %s or %s", review.ModalRating, review.ModalReport))
	}
}
