package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// HasReviewed implements review.ReviewGateway.
func (c *Client) HasReviewed(ctx context.Context, p session.Principal, bookingID int64) (bool, error) {
	body, err := c.do(ctx, request{
		op:     "review_status",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/booking/%d/user/%d/review-status", bookingID, p.UserID),
		token:  p.Token,
	})
	if err != nil {
		return false, translate(err, "Booking", fmt.Sprint(bookingID))
	}

	var out struct {
		HasReviewed bool `json:"has_reviewed"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, translate(fmt.Errorf("decode review status: %w", err), "", "")
	}
	return out.HasReviewed, nil
}

type reviewBody struct {
	UserID     int64  `json:"user_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
	BookingID  int64  `json:"booking_id"`
}

// SubmitReview implements review.ReviewGateway.
func (c *Client) SubmitReview(ctx context.Context, p session.Principal, r review.Review) error {
	req, err := jsonRequest("submit_review", http.MethodPost, fmt.Sprintf("/api/service/%d/review", r.ServiceID), p.Token, reviewBody{
		UserID:     r.UserID,
		Rating:     r.Rating,
		ReviewText: r.Text,
		BookingID:  r.BookingID,
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, req)
	return translate(err, "Review", fmt.Sprint(r.BookingID))
}

// ReportProvider implements review.ReviewGateway as a multipart upload.
func (c *Client) ReportProvider(ctx context.Context, p session.Principal, r review.Report) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"reason":     string(r.Reason),
		"booking_id": fmt.Sprint(r.BookingID),
		"user_id":    fmt.Sprint(r.UserID),
	}
	if r.Description != "" {
		fields["description"] = r.Description
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("report_provider: write %s: %w", k, err)
		}
	}
	if r.Video != nil {
		part, err := w.CreatePart(videoHeader(r.Video))
		if err != nil {
			return fmt.Errorf("report_provider: create video part: %w", err)
		}
		if _, err := part.Write(r.Video.Data); err != nil {
			return fmt.Errorf("report_provider: write video: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("report_provider: close multipart: %w", err)
	}

	_, err := c.do(ctx, request{
		op:          "report_provider",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/api/provider/%d/report", r.ProviderID),
		token:       p.Token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	return translate(err, "Provider", fmt.Sprint(r.ProviderID))
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// videoHeader is the form-file header of the "video" part, carrying the upload's own content type.
func videoHeader(v *review.Attachment) textproto.MIMEHeader {
	contentType := v.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(v.Filename)))
	h.Set("Content-Type", contentType)
	return h
}
