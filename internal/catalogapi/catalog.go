package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beerescue/service-storefront/internal/domain/catalog"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// ListServices implements catalog.CatalogGateway.
func (c *Client) ListServices(ctx context.Context) ([]catalog.Service, error) {
	body, err := c.do(ctx, request{op: "list_services", method: http.MethodGet, path: "/api/services?status=1"})
	if err != nil {
		return nil, translate(err, "Services", "")
	}
	var dtos []serviceDTO
	if err := decodeList(body, "services", &dtos); err != nil {
		return nil, translate(fmt.Errorf("decode services: %w", err), "", "")
	}
	return servicesToDomain(dtos), nil
}

// GetService implements catalog.CatalogGateway.
func (c *Client) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	body, err := c.do(ctx, request{op: "get_service", method: http.MethodGet, path: fmt.Sprintf("/api/services/%d", id)})
	if err != nil {
		return nil, translate(err, "Service", fmt.Sprint(id))
	}
	var dto serviceDTO
	if err := decodeOne(body, "service", &dto); err != nil {
		return nil, translate(fmt.Errorf("decode service: %w", err), "", "")
	}
	s := dto.toDomain()
	return &s, nil
}

// ListCategories implements catalog.CatalogGateway.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	body, err := c.do(ctx, request{op: "list_categories", method: http.MethodGet, path: "/api/categories"})
	if err != nil {
		return nil, translate(err, "Categories", "")
	}
	var dtos []categoryDTO
	if err := decodeList(body, "categories", &dtos); err != nil {
		return nil, translate(fmt.Errorf("decode categories: %w", err), "", "")
	}
	out := make([]catalog.Category, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// CategoryServices implements catalog.CatalogGateway.
func (c *Client) CategoryServices(ctx context.Context, path string) ([]catalog.Service, error) {
	body, err := c.do(ctx, request{
		op:     "category_services",
		method: http.MethodGet,
		path:   "/api/categories/" + url.PathEscape(path) + "/services",
	})
	if err != nil {
		return nil, translate(err, "Category", path)
	}
	var dtos []serviceDTO
	if err := decodeList(body, "services", &dtos); err != nil {
		return nil, translate(fmt.Errorf("decode category services: %w", err), "", "")
	}
	return servicesToDomain(dtos), nil
}

// RatingStats implements catalog.CatalogGateway.
func (c *Client) RatingStats(ctx context.Context, serviceID int64) (catalog.RatingStats, error) {
	body, err := c.do(ctx, request{
		op:     "rating_stats",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/service/%d/rating-stats", serviceID),
	})
	if err != nil {
		return catalog.RatingStats{}, translate(err, "Service", fmt.Sprint(serviceID))
	}

	var out struct {
		Distribution map[string]int `json:"distribution"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return catalog.RatingStats{}, translate(fmt.Errorf("decode rating stats: %w", err), "", "")
	}
	counts := make(map[int]int, len(out.Distribution))
	for k, v := range out.Distribution {
		if star, err := strconv.Atoi(k); err == nil {
			counts[star] = v
		}
	}
	return catalog.NewRatingStats(serviceID, counts), nil
}

type favoriteBody struct {
	UserID    int64 `json:"user_id"`
	ServiceID int64 `json:"service_id,omitempty"`
}

// ListFavorites implements catalog.FavoriteGateway.
func (c *Client) ListFavorites(ctx context.Context, p session.Principal) ([]catalog.Service, error) {
	r, err := jsonRequest("list_favorites", http.MethodPost, "/api/user/favorites", p.Token, favoriteBody{UserID: p.UserID})
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, r)
	if err != nil {
		return nil, translate(err, "Favorites", fmt.Sprint(p.UserID))
	}
	var dtos []serviceDTO
	if err := decodeList(body, "services", &dtos); err != nil {
		return nil, translate(fmt.Errorf("decode favorites: %w", err), "", "")
	}
	return servicesToDomain(dtos), nil
}

// IsFavorite implements catalog.FavoriteGateway. A 404 means "not a favourite".
func (c *Client) IsFavorite(ctx context.Context, p session.Principal, serviceID int64) (bool, error) {
	body, err := c.do(ctx, request{
		op:     "is_favorite",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/user/%d/favorites/%d", p.UserID, serviceID),
		token:  p.Token,
	})
	if statusOf(err) == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "Favorite", fmt.Sprint(serviceID))
	}
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, translate(fmt.Errorf("decode favorite: %w", err), "", "")
	}
	return out.IsFavorite, nil
}

// AddFavorite implements catalog.FavoriteGateway. An existing favourite is not an error.
func (c *Client) AddFavorite(ctx context.Context, p session.Principal, serviceID int64) error {
	r, err := jsonRequest("add_favorite", http.MethodPost, "/api/user/favorites", p.Token, favoriteBody{UserID: p.UserID, ServiceID: serviceID})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, r)
	if statusOf(err) == http.StatusConflict {
		return nil
	}
	return translate(err, "Service", fmt.Sprint(serviceID))
}

// RemoveFavorite implements catalog.FavoriteGateway. A missing favourite is not an error.
func (c *Client) RemoveFavorite(ctx context.Context, p session.Principal, serviceID int64) error {
	_, err := c.do(ctx, request{
		op:     "remove_favorite",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/user/%d/favorites/%d", p.UserID, serviceID),
		token:  p.Token,
	})
	if statusOf(err) == http.StatusNotFound {
		return nil
	}
	return translate(err, "Favorite", fmt.Sprint(serviceID))
}
