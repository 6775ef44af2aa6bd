package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/common/response"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
)

// CatalogHandler handles services, categories, rating stats and favourites.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes. Browsing is public; favourites need a session.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, protected gin.HandlersChain) {
	public := r.Group("/api/v1")
	{
		public.GET("/services", h.ListServices)
		public.GET("/services/best", h.BestServices)
		public.GET("/services/:id", h.GetService)
		public.GET("/services/:id/rating-stats", h.RatingStats)
		public.GET("/categories", h.ListCategories)
		public.GET("/categories/:path/services", h.CategoryServices)
	}

	authed := r.Group("/api/v1")
	authed.Use(protected...)
	{
		authed.GET("/favorites", h.ListFavorites)
		authed.GET("/favorites/:id", h.IsFavorite)
		authed.POST("/favorites/:id/toggle", h.ToggleFavorite)
	}
}

// ListServices handles GET /api/v1/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	result, err := h.service.ListServices(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BestServices handles GET /api/v1/services/best.
func (h *CatalogHandler) BestServices(c *gin.Context) {
	result, err := h.service.BestServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetService handles GET /api/v1/services/:id.
func (h *CatalogHandler) GetService(c *gin.Context) {
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetService(c.Request.Context(), serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RatingStats handles GET /api/v1/services/:id/rating-stats.
func (h *CatalogHandler) RatingStats(c *gin.Context) {
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.RatingStats(c.Request.Context(), serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListCategories handles GET /api/v1/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	result, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CategoryServices handles GET /api/v1/categories/:path/services.
func (h *CatalogHandler) CategoryServices(c *gin.Context) {
	result, err := h.service.CategoryServices(c.Request.Context(), c.Param("path"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListFavorites handles GET /api/v1/favorites.
func (h *CatalogHandler) ListFavorites(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	response.Success(c, h.service.ListFavorites(c.Request.Context(), sess))
}

// IsFavorite handles GET /api/v1/favorites/:id.
func (h *CatalogHandler) IsFavorite(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"service_id":  serviceID,
		"is_favorite": h.service.IsFavorite(c.Request.Context(), sess, serviceID),
	})
}

// ToggleFavorite handles POST /api/v1/favorites/:id/toggle.
func (h *CatalogHandler) ToggleFavorite(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	on, err := h.service.ToggleFavorite(c.Request.Context(), sess, serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"service_id": serviceID, "is_favorite": on})
}

// parseFilter reads min_price, max_price, min_rating and sort from the query.
func parseFilter(c *gin.Context) (catalog.Filter, bool) {
	var f catalog.Filter
	for name, dst := range map[string]**float64{
		"min_price":  &f.MinPrice,
		"max_price":  &f.MaxPrice,
		"min_rating": &f.MinRating,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "invalid "+name)
			return catalog.Filter{}, false
		}
		*dst = &v
	}

	sort, err := catalog.ParseSortOrder(c.Query("sort"))
	if err != nil {
		response.Error(c, err)
		return catalog.Filter{}, false
	}
	f.Sort = sort
	return f, true
}
