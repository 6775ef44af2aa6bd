package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
	"github.com/beerescue/service-storefront/internal/domain/address"
)

// AddressHandler handles the saved addresses of the signed-in user.
type AddressHandler struct {
	service *application.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *application.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// AddressRequest is the body of address create and update.
type AddressRequest struct {
	Type      string `json:"type" binding:"required,max=50"`
	Address   string `json:"address" binding:"required,max=500"`
	City      string `json:"city" binding:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

func (r AddressRequest) input() address.Input {
	return address.Input{Type: r.Type, Address: r.Address, City: r.City, IsDefault: r.IsDefault}
}

// RegisterRoutes registers the address routes.
func (h *AddressHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	addresses := r.Group("/api/v1/addresses")
	addresses.Use(protected...)
	{
		addresses.GET("", h.ListAddresses)
		addresses.POST("", h.CreateAddress)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
		addresses.PUT("/:id/default", h.SetDefault)
	}
}

// ListAddresses handles GET /api/v1/addresses.
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	result, err := h.service.ListAddresses(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateAddress handles POST /api/v1/addresses.
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.CreateAddress(c.Request.Context(), sess, req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateAddress handles PUT /api/v1/addresses/:id.
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.UpdateAddress(c.Request.Context(), sess, addressID, req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteAddress handles DELETE /api/v1/addresses/:id.
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), sess, addressID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetDefault handles PUT /api/v1/addresses/:id/default.
func (h *AddressHandler) SetDefault(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.SetDefault(c.Request.Context(), sess, addressID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
