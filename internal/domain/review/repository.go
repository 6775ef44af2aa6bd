package review

import (
	"context"

	"github.com/beerescue/service-storefront/internal/domain/session"
)

// ReviewGateway defines the review API contract used by the storefront.
type ReviewGateway interface {
	// HasReviewed reports whether the principal's user reviewed bookingID.
	HasReviewed(ctx context.Context, p session.Principal, bookingID int64) (bool, error)

	// SubmitReview files a review. A duplicate is a conflict AppError.
	SubmitReview(ctx context.Context, p session.Principal, r Review) error

	// ReportProvider files a provider report.
	ReportProvider(ctx context.Context, p session.Principal, r Report) error
}
