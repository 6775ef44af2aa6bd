package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// CatalogService serves the browsing screens: services, categories, ratings and favourites.
type CatalogService struct {
	catalog   catalog.CatalogGateway
	favorites catalog.FavoriteGateway
	logger    *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogGateway catalog.CatalogGateway, favorites catalog.FavoriteGateway, logger *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalogGateway, favorites: favorites, logger: logger}
}

// ListServices returns active services matching filter.
func (s *CatalogService) ListServices(ctx context.Context, filter catalog.Filter) ([]catalog.Service, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	all, err := s.catalog.ListServices(ctx)
	if err != nil {
		s.logger.Error("failed to list services", zap.Error(err))
		return nil, err
	}
	return filter.Apply(all), nil
}

// BestServices returns the top rated active services.
func (s *CatalogService) BestServices(ctx context.Context) ([]catalog.Service, error) {
	all, err := s.catalog.ListServices(ctx)
	if err != nil {
		s.logger.Error("failed to list services", zap.Error(err))
		return nil, err
	}
	return catalog.BestServices(all), nil
}

// GetService returns an active service. Inactive services are reported as not found.
func (s *CatalogService) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	svc, err := s.catalog.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.NewNotFoundError("Service", fmt.Sprint(id))
	}
	return svc, nil
}

// RatingStats returns the rating histogram of a service.
func (s *CatalogService) RatingStats(ctx context.Context, serviceID int64) (catalog.RatingStats, error) {
	stats, err := s.catalog.RatingStats(ctx, serviceID)
	if err != nil {
		s.logger.Error("failed to load rating stats", zap.Int64("service_id", serviceID), zap.Error(err))
		return catalog.RatingStats{}, err
	}
	return stats, nil
}

// ListCategories returns every category.
func (s *CatalogService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

// CategoryServices returns the active services of a category.
func (s *CatalogService) CategoryServices(ctx context.Context, path string) ([]catalog.Service, error) {
	services, err := s.catalog.CategoryServices(ctx, path)
	if err != nil {
		s.logger.Error("failed to list category services", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return catalog.ActiveOnly(services), nil
}

// ListFavorites returns the user's active favourite services. A failed read yields an empty list.
func (s *CatalogService) ListFavorites(ctx context.Context, sess *session.Session) []catalog.Service {
	favorites, err := s.favorites.ListFavorites(ctx, sess.Principal())
	if err != nil {
		s.logger.Warn("favorites unavailable", zap.Int64("user_id", sess.UserID()), zap.Error(err))
		return []catalog.Service{}
	}
	return catalog.ActiveOnly(favorites)
}

// IsFavorite reports whether serviceID is a favourite. A failed check reads as false.
func (s *CatalogService) IsFavorite(ctx context.Context, sess *session.Session, serviceID int64) bool {
	ok, err := s.favorites.IsFavorite(ctx, sess.Principal(), serviceID)
	if err != nil {
		s.logger.Warn("favorite check failed",
			zap.Int64("user_id", sess.UserID()),
			zap.Int64("service_id", serviceID),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// ToggleFavorite adds or removes serviceID and returns the new state.
func (s *CatalogService) ToggleFavorite(ctx context.Context, sess *session.Session, serviceID int64) (bool, error) {
	if s.IsFavorite(ctx, sess, serviceID) {
		if err := s.favorites.RemoveFavorite(ctx, sess.Principal(), serviceID); err != nil {
			s.logger.Error("failed to remove favorite", zap.Int64("service_id", serviceID), zap.Error(err))
			return true, err
		}
		return false, nil
	}

	if err := s.favorites.AddFavorite(ctx, sess.Principal(), serviceID); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return true, nil
		}
		s.logger.Error("failed to add favorite", zap.Int64("service_id", serviceID), zap.Error(err))
		return false, err
	}
	return true, nil
}
