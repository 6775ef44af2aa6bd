package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is satisfied by *sql.DB and by test doubles.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves liveness and readiness checks.
type Handler struct {
	db      Pinger
	service string
}

// NewHandler builds a Handler whose readiness depends on the gorm connection.
func NewHandler(db *gorm.DB, service string) *Handler {
	var p Pinger
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			p = sqlDB
		}
	}
	return &Handler{db: p, service: service}
}

// NewHandlerWithPinger builds a Handler from any Pinger.
func NewHandlerWithPinger(p Pinger, service string) *Handler {
	return &Handler{db: p, service: service}
}

// RegisterRoutes mounts /health and /ready.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health always answers 200 while the process is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready answers 503 when the database does not respond.
func (h *Handler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": h.service,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
