package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/kafka"
)

// ScreenInvalidator drops the cached screen state of a user.
type ScreenInvalidator interface {
	InvalidateUser(userID int64) int
}

// BookingStatusConsumer listens to upstream booking status changes and
// invalidates the affected user's screens so the next listing refetches.
type BookingStatusConsumer struct {
	consumer *kafka.Consumer
	screens  ScreenInvalidator
	logger   *zap.Logger
}

// NewBookingStatusConsumer creates a new BookingStatusConsumer.
func NewBookingStatusConsumer(
	brokers []string,
	groupID string,
	screens ScreenInvalidator,
	logger *zap.Logger,
) *BookingStatusConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicBookingEvents, logger)
	return &BookingStatusConsumer{
		consumer: consumer,
		screens:  screens,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *BookingStatusConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BookingStatusConsumer) Close() error {
	return c.consumer.Close()
}

func (c *BookingStatusConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are not retried
	}

	switch cloudEvent.Type {
	case application.EventBookingStatusChanged:
		return c.handleStatusChanged(cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *BookingStatusConsumer) handleStatusChanged(cloudEvent kafka.CloudEvent) error {
	var evt application.BookingStatusChangedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse BookingStatusChangedEvent data", zap.Error(err))
		return nil
	}
	if evt.UserID <= 0 {
		c.logger.Warn("booking status change without user", zap.Int64("booking_id", evt.BookingID))
		return nil
	}

	n := c.screens.InvalidateUser(evt.UserID)
	c.logger.Info("booking status changed upstream",
		zap.Int64("booking_id", evt.BookingID),
		zap.Int64("user_id", evt.UserID),
		zap.String("status", evt.Status),
		zap.Int("screens_invalidated", n),
	)
	return nil
}
