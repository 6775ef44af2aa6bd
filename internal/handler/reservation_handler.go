package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
	"github.com/beerescue/service-storefront/internal/domain/booking"
)

// ReservationHandler handles the date and time picker of a service.
type ReservationHandler struct {
	service *application.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *application.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// SelectDateRequest is the body of PUT /api/v1/services/:id/reservation/date.
type SelectDateRequest struct {
	BookingDate string `json:"booking_date" binding:"required,datetime=2006-01-02"`
}

// SelectTimeRequest is the body of PUT /api/v1/services/:id/reservation/time.
type SelectTimeRequest struct {
	BookingTime string `json:"booking_time" binding:"required"`
}

// SubmitReservationRequest is the body of POST /api/v1/services/:id/reservation.
type SubmitReservationRequest struct {
	BookingNotes string `json:"booking_notes" binding:"max=1000"`
}

// RegisterRoutes registers the reservation routes.
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	services := r.Group("/api/v1/services")
	services.Use(protected...)
	{
		services.GET("/:id/reservation", h.GetForm)
		services.PUT("/:id/reservation/date", h.SelectDate)
		services.PUT("/:id/reservation/time", h.SelectTime)
		services.POST("/:id/reservation", h.Submit)
	}
}

// SelectDate handles PUT /api/v1/services/:id/reservation/date.
// The time is cleared and the slots of the new date are loaded.
func (h *ReservationHandler) SelectDate(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.SelectDate(c.Request.Context(), sess, serviceID, req.BookingDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetForm handles GET /api/v1/services/:id/reservation.
func (h *ReservationHandler) GetForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetForm(c.Request.Context(), sess, serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SelectTime handles PUT /api/v1/services/:id/reservation/time.
func (h *ReservationHandler) SelectTime(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SelectTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.SelectTime(c.Request.Context(), sess, serviceID, req.BookingTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Submit handles POST /api/v1/services/:id/reservation.
// A taken slot answers 409 with the refreshed form so the user can pick again.
func (h *ReservationHandler) Submit(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	// The body is optional; an empty one carries no notes.
	var req SubmitReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BindingError(c, err)
		return
	}

	result, form, err := h.service.Submit(c.Request.Context(), sess, serviceID, req.BookingNotes)
	if err != nil {
		if errors.Is(err, booking.ErrSlotConflict) {
			response.ConflictWithData(c, "slot_conflict", booking.ConflictMessage, form)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
