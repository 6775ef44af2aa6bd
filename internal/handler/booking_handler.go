package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
)

// BookingHandler handles HTTP requests for the bookings screens.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// PaymentMethodRequest is the body of POST /api/v1/bookings/:id/payment-method.
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card cash"`
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(protected...)
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/payment-method", h.SelectPaymentMethod)
		bookings.POST("/:id/book-again", h.BookAgain)
	}
}

// ListBookings handles GET /api/v1/bookings. While ratings are owed only the gate is returned.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SelectPaymentMethod handles POST /api/v1/bookings/:id/payment-method.
func (h *BookingHandler) SelectPaymentMethod(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.SelectPaymentMethod(c.Request.Context(), sess, bookingID, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookAgain handles POST /api/v1/bookings/:id/book-again.
func (h *BookingHandler) BookAgain(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.BookAgain(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
