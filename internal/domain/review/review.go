package review

import (
	"fmt"
	"strings"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

const (
	MinRating = 1
	MaxRating = 5

	// ReportRating is the fixed rating filed alongside a provider report.
	ReportRating = 1
)

// Review is a customer's rating of one completed booking.
type Review struct {
	BookingID int64
	ServiceID int64
	UserID    int64
	Rating    int
	Text      string
}

// NewReview validates and builds a Review.
func NewReview(bookingID, serviceID, userID int64, rating int, text string) (Review, error) {
	if bookingID <= 0 || serviceID <= 0 || userID <= 0 {
		return Review{}, domain.NewValidationError("booking, service and user are required")
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, domain.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return Review{
		BookingID: bookingID,
		ServiceID: serviceID,
		UserID:    userID,
		Rating:    rating,
		Text:      strings.TrimSpace(text),
	}, nil
}

// ReportReason is why a customer reports a provider.
type ReportReason string

const (
	ReasonNoShow         ReportReason = "no_show"
	ReasonPoorQuality    ReportReason = "poor_quality"
	ReasonUnprofessional ReportReason = "unprofessional"
	ReasonOvercharged    ReportReason = "overcharged"
	ReasonDamage         ReportReason = "damage"
	ReasonOther          ReportReason = "other"
)

var reasonLabels = map[ReportReason]string{
	ReasonNoShow:         "Provider did not show up",
	ReasonPoorQuality:    "Poor quality of work",
	ReasonUnprofessional: "Unprofessional behaviour",
	ReasonOvercharged:    "Overcharged",
	ReasonDamage:         "Damage to property",
	ReasonOther:          "Other",
}

// ReportReasons lists the offered reasons in display order.
func ReportReasons() []ReportReason {
	return []ReportReason{ReasonNoShow, ReasonPoorQuality, ReasonUnprofessional, ReasonOvercharged, ReasonDamage, ReasonOther}
}

// Label is the human text shown next to the reason.
func (r ReportReason) Label() string { return reasonLabels[r] }

// ParseReportReason accepts one of ReportReasons.
func ParseReportReason(s string) (ReportReason, error) {
	r := ReportReason(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := reasonLabels[r]; !ok {
		return "", domain.NewValidationError("invalid report reason: " + s)
	}
	return r, nil
}

// Attachment is an uploaded file forwarded with a report.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Report is a complaint about the provider of a booking.
type Report struct {
	BookingID   int64
	ProviderID  int64
	UserID      int64
	Reason      ReportReason
	Description string
	Video       *Attachment
}

// NewReport validates and builds a Report.
func NewReport(bookingID, providerID, userID int64, reason ReportReason, description string, video *Attachment) (Report, error) {
	if providerID <= 0 {
		return Report{}, domain.NewValidationError("booking has no provider to report")
	}
	if _, ok := reasonLabels[reason]; !ok {
		return Report{}, domain.NewValidationError("invalid report reason: " + string(reason))
	}
	return Report{
		BookingID:   bookingID,
		ProviderID:  providerID,
		UserID:      userID,
		Reason:      reason,
		Description: strings.TrimSpace(description),
		Video:       video,
	}, nil
}

// ReviewFor is the one-star review filed on behalf of a report.
// Its text carries the reason and, when given, the description.
func (r Report) ReviewFor(serviceID int64) (Review, error) {
	text := "Reported: " + string(r.Reason)
	if r.Description != "" {
		text += " - " + r.Description
	}
	return NewReview(r.BookingID, serviceID, r.UserID, ReportRating, text)
}
