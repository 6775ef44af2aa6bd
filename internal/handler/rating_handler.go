package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
	"github.com/beerescue/service-storefront/internal/domain/review"
)

// MaxVideoBytes caps the evidence video attached to a provider report.
const MaxVideoBytes = 50 << 20

// RatingHandler handles the rating obligation gate, reviews and provider reports.
type RatingHandler struct {
	service *application.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service *application.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// GateOpenRequest is the body of POST /api/v1/bookings/gate/open.
type GateOpenRequest struct {
	BookingID int64  `json:"booking_id" binding:"required,min=1"`
	Modal     string `json:"modal" binding:"required,oneof=rating report"`
}

// ReviewRequest is the body of POST /api/v1/bookings/:id/review.
type ReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text" binding:"max=2000"`
}

// ReportRequest is the multipart form of POST /api/v1/bookings/:id/report.
type ReportRequest struct {
	Reason      string `form:"reason" binding:"required"`
	Description string `form:"description" binding:"max=2000"`
}

// RegisterRoutes registers the gate and review routes.
func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(protected...)
	{
		bookings.GET("/gate", h.Gate)
		bookings.POST("/gate/open", h.OpenModal)
		bookings.POST("/gate/close", h.CloseModal)
		bookings.GET("/report-reasons", h.ReportReasons)
		bookings.POST("/:id/review", h.SubmitReview)
		bookings.POST("/:id/report", h.ReportProvider)
	}
}

// Gate handles GET /api/v1/bookings/gate.
func (h *RatingHandler) Gate(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	result, err := h.service.Gate(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// OpenModal handles POST /api/v1/bookings/gate/open.
func (h *RatingHandler) OpenModal(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req GateOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	modal, err := application.ParseModal(req.Modal)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Open(c.Request.Context(), sess, req.BookingID, modal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CloseModal handles POST /api/v1/bookings/gate/close.
func (h *RatingHandler) CloseModal(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	response.Success(c, h.service.Close(c.Request.Context(), sess))
}

// ReportReasons handles GET /api/v1/bookings/report-reasons.
func (h *RatingHandler) ReportReasons(c *gin.Context) {
	response.Success(c, application.ReportReasons())
}

// SubmitReview handles POST /api/v1/bookings/:id/review.
func (h *RatingHandler) SubmitReview(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.SubmitRating(c.Request.Context(), sess, bookingID, application.RatingInput{
		Rating: req.Rating,
		Text:   req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ReportProvider handles POST /api/v1/bookings/:id/report (multipart: reason, description, video).
func (h *RatingHandler) ReportProvider(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	video, err := readVideo(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReportProvider(c.Request.Context(), sess, bookingID, application.ReportInput{
		Reason:      req.Reason,
		Description: req.Description,
		Video:       video,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// readVideo returns the optional "video" upload.
func readVideo(c *gin.Context) (*review.Attachment, error) {
	fh, err := c.FormFile("video")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid video upload: %w", err)
	}
	if fh.Size > MaxVideoBytes {
		return nil, fmt.Errorf("video must be at most %d MB", MaxVideoBytes>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxVideoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &review.Attachment{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
