package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/beerescue/service-storefront/internal/domain/address"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

type addressBody struct {
	Type      string `json:"type"`
	Address   string `json:"address"`
	City      string `json:"city"`
	IsDefault bool   `json:"is_default"`
}

func toAddressBody(in address.Input) addressBody {
	return addressBody{Type: in.Type, Address: in.Address, City: in.City, IsDefault: in.IsDefault}
}

// ListAddresses implements address.AddressGateway.
func (c *Client) ListAddresses(ctx context.Context, p session.Principal) ([]address.Address, error) {
	body, err := c.do(ctx, request{op: "list_addresses", method: http.MethodGet, path: "/api/address", token: p.Token})
	if err != nil {
		return nil, translate(err, "Addresses", fmt.Sprint(p.UserID))
	}
	var out []address.Address
	if err := decodeList(body, "addresses", &out); err != nil {
		return nil, translate(fmt.Errorf("decode addresses: %w", err), "", "")
	}
	return out, nil
}

// CreateAddress implements address.AddressGateway.
func (c *Client) CreateAddress(ctx context.Context, p session.Principal, in address.Input) (address.Address, error) {
	r, err := jsonRequest("create_address", http.MethodPost, "/api/address", p.Token, toAddressBody(in))
	if err != nil {
		return address.Address{}, err
	}
	body, err := c.do(ctx, r)
	if err != nil {
		return address.Address{}, translate(err, "Address", "")
	}
	var out address.Address
	if err := json.Unmarshal(body, &out); err != nil {
		return address.Address{}, translate(fmt.Errorf("decode address: %w", err), "", "")
	}
	return out, nil
}

// UpdateAddress implements address.AddressGateway.
func (c *Client) UpdateAddress(ctx context.Context, p session.Principal, id int64, in address.Input) (address.Address, error) {
	r, err := jsonRequest("update_address", http.MethodPut, fmt.Sprintf("/api/address/%d", id), p.Token, toAddressBody(in))
	if err != nil {
		return address.Address{}, err
	}
	body, err := c.do(ctx, r)
	if err != nil {
		return address.Address{}, translate(err, "Address", fmt.Sprint(id))
	}
	var out address.Address
	if err := json.Unmarshal(body, &out); err != nil {
		return address.Address{}, translate(fmt.Errorf("decode address: %w", err), "", "")
	}
	return out, nil
}

// DeleteAddress implements address.AddressGateway.
func (c *Client) DeleteAddress(ctx context.Context, p session.Principal, id int64) error {
	_, err := c.do(ctx, request{
		op:     "delete_address",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/address/%d", id),
		token:  p.Token,
	})
	return translate(err, "Address", fmt.Sprint(id))
}
