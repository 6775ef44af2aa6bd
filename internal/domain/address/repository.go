package address

import (
	"context"

	"github.com/beerescue/service-storefront/internal/domain/session"
)

// AddressGateway defines the address API contract used by the storefront.
type AddressGateway interface {
	ListAddresses(ctx context.Context, p session.Principal) ([]Address, error)
	CreateAddress(ctx context.Context, p session.Principal, in Input) (Address, error)
	UpdateAddress(ctx context.Context, p session.Principal, id int64, in Input) (Address, error)
	DeleteAddress(ctx context.Context, p session.Principal, id int64) error
}
