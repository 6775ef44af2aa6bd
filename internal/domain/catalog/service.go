package catalog

import (
	"sort"
	"strings"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

// BestRatingThreshold is the minimum total rating of a "best" service.
const BestRatingThreshold = 4.0

// Provider is the professional offering a service.
type Provider struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Category groups services, addressed by path (e.g. "cleaning").
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Icon         string `json:"icon,omitempty"`
	ServiceCount int    `json:"service_count"`
}

// Service is a bookable home service.
type Service struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Duration     string   `json:"duration,omitempty"`
	Image        string   `json:"image,omitempty"`
	Provider     Provider `json:"provider"`
	Category     Category `json:"category"`
	TotalRating  float64  `json:"total_rating"`
	RatingCount  int      `json:"rating_count"`
	ServiceAreas []string `json:"service_areas,omitempty"`
	Active       bool     `json:"active"`
}

// SortOrder names a listing order.
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortRatingDesc SortOrder = "rating_desc"
	SortPopular    SortOrder = "popular"
)

// ParseSortOrder accepts the values above; empty means upstream order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortPopular:
		return o, nil
	default:
		return "", domain.NewValidationError("invalid sort: " + s)
	}
}

// Filter narrows a service listing.
type Filter struct {
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      SortOrder
}

// Validate rejects inverted or negative bounds.
func (f Filter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return domain.NewValidationError("min_price cannot be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return domain.NewValidationError("min_price cannot exceed max_price")
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return domain.NewValidationError("min_rating must be between 0 and 5")
	}
	return nil
}

// Apply keeps active services matching f, sorted as requested. The input is not modified.
func (f Filter) Apply(services []Service) []Service {
	out := make([]Service, 0, len(services))
	for _, s := range services {
		if !s.Active {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		if f.MinRating != nil && s.TotalRating < *f.MinRating {
			continue
		}
		out = append(out, s)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRating > out[j].TotalRating })
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].RatingCount != out[j].RatingCount {
				return out[i].RatingCount > out[j].RatingCount
			}
			return out[i].TotalRating > out[j].TotalRating
		})
	}
	return out
}

// ActiveOnly drops inactive services.
func ActiveOnly(services []Service) []Service {
	return Filter{}.Apply(services)
}

// BestServices returns active services rated at least BestRatingThreshold, best first.
func BestServices(services []Service) []Service {
	threshold := BestRatingThreshold
	return Filter{MinRating: &threshold, Sort: SortRatingDesc}.Apply(services)
}
