package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/address"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// AddressService manages the saved addresses of a user.
type AddressService struct {
	gateway address.AddressGateway
	screens *ScreenStore
	logger  *zap.Logger
}

// NewAddressService creates a new AddressService.
func NewAddressService(gateway address.AddressGateway, screens *ScreenStore, logger *zap.Logger) *AddressService {
	return &AddressService{gateway: gateway, screens: screens, logger: logger}
}

// ListAddresses reloads the user's addresses, default first.
func (s *AddressService) ListAddresses(ctx context.Context, sess *session.Session) ([]address.Address, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	p := sess.Principal()
	err := screen.Addresses.Load(ctx, func(ctx context.Context) ([]address.Address, error) {
		return s.gateway.ListAddresses(ctx, p)
	})
	if err != nil {
		s.logger.Error("failed to load addresses", zap.Int64("user_id", sess.UserID()), zap.Error(err))
		return nil, err
	}
	return sortedAddresses(screen), nil
}

// CreateAddress saves a new address. Required fields are checked before any network call.
func (s *AddressService) CreateAddress(ctx context.Context, sess *session.Session, in address.Input) (*address.Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalized()

	screen, err := s.loaded(ctx, sess)
	if err != nil {
		return nil, err
	}

	created, err := s.gateway.CreateAddress(ctx, sess.Principal(), in)
	if err != nil {
		s.logger.Error("failed to create address", zap.Int64("user_id", sess.UserID()), zap.Error(err))
		return nil, err
	}
	screen.Addresses.Upsert(created)

	if created.IsDefault {
		if err := s.settleDefault(ctx, sess, screen, created.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("address created", zap.Int64("address_id", created.ID), zap.Int64("user_id", sess.UserID()))
	result, _ := screen.Addresses.Find(created.ID)
	return &result, nil
}

// UpdateAddress replaces the editable fields of an address.
func (s *AddressService) UpdateAddress(ctx context.Context, sess *session.Session, id int64, in address.Input) (*address.Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalized()

	screen, err := s.loaded(ctx, sess)
	if err != nil {
		return nil, err
	}
	if _, ok := screen.Addresses.Find(id); !ok {
		return nil, domain.NewNotFoundError("Address", fmt.Sprint(id))
	}

	updated, err := s.gateway.UpdateAddress(ctx, sess.Principal(), id, in)
	if err != nil {
		s.logger.Error("failed to update address", zap.Int64("address_id", id), zap.Error(err))
		return nil, err
	}
	screen.Addresses.Upsert(updated)

	if updated.IsDefault {
		if err := s.settleDefault(ctx, sess, screen, updated.ID); err != nil {
			return nil, err
		}
	}

	result, _ := screen.Addresses.Find(id)
	return &result, nil
}

// DeleteAddress removes an address.
func (s *AddressService) DeleteAddress(ctx context.Context, sess *session.Session, id int64) error {
	screen, err := s.loaded(ctx, sess)
	if err != nil {
		return err
	}
	if _, ok := screen.Addresses.Find(id); !ok {
		return domain.NewNotFoundError("Address", fmt.Sprint(id))
	}
	if err := s.gateway.DeleteAddress(ctx, sess.Principal(), id); err != nil {
		s.logger.Error("failed to delete address", zap.Int64("address_id", id), zap.Error(err))
		return err
	}
	screen.Addresses.Remove(id)
	return nil
}

// SetDefault makes id the only default address.
func (s *AddressService) SetDefault(ctx context.Context, sess *session.Session, id int64) ([]address.Address, error) {
	screen, err := s.loaded(ctx, sess)
	if err != nil {
		return nil, err
	}
	current, ok := screen.Addresses.Find(id)
	if !ok {
		return nil, domain.NewNotFoundError("Address", fmt.Sprint(id))
	}

	if !current.IsDefault {
		in := current.Input()
		in.IsDefault = true
		updated, err := s.gateway.UpdateAddress(ctx, sess.Principal(), id, in)
		if err != nil {
			s.logger.Error("failed to set default address", zap.Int64("address_id", id), zap.Error(err))
			return nil, err
		}
		screen.Addresses.Upsert(updated)
	}

	if err := s.settleDefault(ctx, sess, screen, id); err != nil {
		return nil, err
	}
	return sortedAddresses(screen), nil
}

// settleDefault clears every other default upstream, then locally.
// Upstream failures are logged; the local list always ends with exactly one default.
func (s *AddressService) settleDefault(ctx context.Context, sess *session.Session, screen *Screen, id int64) error {
	list := screen.Addresses.Items()
	for _, prev := range address.PreviousDefaults(list, id) {
		a, ok := screen.Addresses.Find(prev)
		if !ok {
			continue
		}
		in := a.Input()
		in.IsDefault = false
		if _, err := s.gateway.UpdateAddress(ctx, sess.Principal(), prev, in); err != nil {
			s.logger.Warn("failed to clear previous default address",
				zap.Int64("address_id", prev),
				zap.Error(err),
			)
		}
	}

	if err := address.SetDefault(list, id); err != nil {
		return err
	}
	screen.Addresses.Replace(list)
	return nil
}

func (s *AddressService) loaded(ctx context.Context, sess *session.Session) (*Screen, error) {
	screen := s.screens.Get(sess.ID(), sess.UserID())
	if screen.Addresses.Loaded() {
		return screen, nil
	}
	p := sess.Principal()
	err := screen.Addresses.Load(ctx, func(ctx context.Context) ([]address.Address, error) {
		return s.gateway.ListAddresses(ctx, p)
	})
	if err != nil {
		s.logger.Error("failed to load addresses", zap.Int64("user_id", sess.UserID()), zap.Error(err))
		return nil, err
	}
	return screen, nil
}

func sortedAddresses(screen *Screen) []address.Address {
	list := screen.Addresses.Items()
	address.Sort(list)
	return list
}
