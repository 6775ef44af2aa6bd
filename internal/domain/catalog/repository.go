package catalog

import (
	"context"

	"github.com/beerescue/service-storefront/internal/domain/session"
)

// CatalogGateway defines the catalog API contract used by the storefront.
type CatalogGateway interface {
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (*Service, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CategoryServices(ctx context.Context, path string) ([]Service, error)
	RatingStats(ctx context.Context, serviceID int64) (RatingStats, error)
}

// FavoriteGateway defines the favourites API contract.
type FavoriteGateway interface {
	ListFavorites(ctx context.Context, p session.Principal) ([]Service, error)

	// IsFavorite asks the existence endpoint whether serviceID is a favourite.
	IsFavorite(ctx context.Context, p session.Principal, serviceID int64) (bool, error)

	AddFavorite(ctx context.Context, p session.Principal, serviceID int64) error
	RemoveFavorite(ctx context.Context, p session.Principal, serviceID int64) error
}
