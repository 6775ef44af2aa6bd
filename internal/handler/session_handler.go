package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
)

// SessionHandler handles login, logout and the current user.
type SessionHandler struct {
	service *application.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *application.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRoutes registers the session routes. Login is public.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	r.POST("/api/v1/auth/login", h.Login)

	authed := r.Group("/api/v1")
	authed.Use(protected...)
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/me", h.Me)
	}
}

// Login handles POST /api/v1/auth/login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *SessionHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), sess.ID()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me handles GET /api/v1/me.
func (h *SessionHandler) Me(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	response.Success(c, h.service.Current(sess))
}
