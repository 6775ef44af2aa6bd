package address

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

// Address is a saved service location of a user.
type Address struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Address   string `json:"address"`
	City      string `json:"city"`
	IsDefault bool   `json:"is_default"`
}

// Input is the editable part of an address.
type Input struct {
	Type      string
	Address   string
	City      string
	IsDefault bool
}

// Validate checks required fields before any network call.
func (in Input) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(in.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(in.City) == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return domain.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Normalized trims every text field.
func (in Input) Normalized() Input {
	return Input{
		Type:      strings.TrimSpace(in.Type),
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		IsDefault: in.IsDefault,
	}
}

// Input returns the editable part of a.
func (a Address) Input() Input {
	return Input{Type: a.Type, Address: a.Address, City: a.City, IsDefault: a.IsDefault}
}

// SetDefault marks id as the only default in list. Every other entry is cleared,
// however many were set before.
func SetDefault(list []Address, id int64) error {
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return domain.NewNotFoundError("Address", fmt.Sprint(id))
	}
	for i := range list {
		list[i].IsDefault = i == idx
	}
	return nil
}

// PreviousDefaults returns the ids of defaults other than id.
func PreviousDefaults(list []Address, id int64) []int64 {
	var ids []int64
	for _, a := range list {
		if a.IsDefault && a.ID != id {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Sort orders list with the default first, then by id descending.
func Sort(list []Address) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return list[i].ID > list[j].ID
	})
}
