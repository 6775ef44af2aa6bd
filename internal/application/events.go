package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/kafka"
)

const eventSource = "service-storefront"

// Topics.
const (
	TopicStorefrontEvents = "storefront.events"
	TopicBookingEvents    = "booking.events"
)

// Published event types.
const (
	EventBookingRequested       = "storefront.booking.requested"
	EventBookingSlotConflict    = "storefront.booking.slot_conflict"
	EventBookingCancelled       = "storefront.booking.cancelled"
	EventBookingDepositSelected = "storefront.booking.deposit_selected"
	EventReviewSubmitted        = "storefront.review.submitted"
	EventProviderReported       = "storefront.provider.reported"
)

// EventBookingStatusChanged is consumed from TopicBookingEvents.
const EventBookingStatusChanged = "booking.status_changed"

// BookingRequestedEvent is published after the booking API accepted a reservation.
type BookingRequestedEvent struct {
	BookingID   int64     `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	ServiceID   int64     `json:"service_id"`
	BookingDate string    `json:"booking_date"`
	BookingTime string    `json:"booking_time"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SlotConflictEvent is published when the booking API rejected a taken slot.
type SlotConflictEvent struct {
	UserID      int64     `json:"user_id"`
	ServiceID   int64     `json:"service_id"`
	BookingDate string    `json:"booking_date"`
	BookingTime string    `json:"booking_time"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published after a successful cancellation.
type BookingCancelledEvent struct {
	BookingID  int64     `json:"booking_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DepositSelectedEvent is published after a payment method was chosen.
type DepositSelectedEvent struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	PaymentMethod string    `json:"payment_method"`
	DepositCents  int64     `json:"deposit_cents"`
	TotalCents    int64     `json:"total_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReviewSubmittedEvent is published for every filed review, including report reviews.
type ReviewSubmittedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ServiceID  int64     `json:"service_id"`
	UserID     int64     `json:"user_id"`
	Rating     int       `json:"rating"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProviderReportedEvent is published after a provider report was filed.
type ProviderReportedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ProviderID int64     `json:"provider_id"`
	UserID     int64     `json:"user_id"`
	Reason     string    `json:"reason"`
	HasVideo   bool      `json:"has_video"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is the payload of EventBookingStatusChanged.
type BookingStatusChangedEvent struct {
	BookingID int64  `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	Status    string `json:"status"`
}

// eventPublisher wraps a Publisher so a failed publish is logged and never fails the caller.
type eventPublisher struct {
	producer kafka.Publisher
	logger   *zap.Logger
}

func (p eventPublisher) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if p.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, TopicStorefrontEvents, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", TopicStorefrontEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
