package catalogapi

import (
	"github.com/beerescue/service-storefront/internal/domain/address"
	"github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

var (
	_ booking.BookingGateway  = (*Client)(nil)
	_ review.ReviewGateway    = (*Client)(nil)
	_ catalog.CatalogGateway  = (*Client)(nil)
	_ catalog.FavoriteGateway = (*Client)(nil)
	_ address.AddressGateway  = (*Client)(nil)
	_ session.IdentityGateway = (*Client)(nil)
)
