package catalogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/catalog"
)

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	*f = flexFloat(v)
	return nil
}

// flexBool accepts true/false, 1/0, and "active"/"inactive" style strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(strings.Trim(string(b), `"`)) {
	case "true", "1", "active", "yes":
		*f = true
	case "false", "0", "inactive", "no", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

func toCents(amount flexFloat) int64 {
	return int64(math.Round(float64(amount) * 100))
}

type bookingDTO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ServiceID     int64     `json:"service_id"`
	ServiceTitle  string    `json:"service_title"`
	ProviderID    int64     `json:"provider_id"`
	ProviderName  string    `json:"provider_name"`
	BookingDate   string    `json:"booking_date"`
	BookingTime   string    `json:"booking_time"`
	Status        string    `json:"status"`
	TotalAmount   flexFloat `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	BookingNotes  string    `json:"booking_notes"`
	UserMobile    string    `json:"user_mobile"`
}

func (d bookingDTO) toDomain() *booking.Booking {
	method, _ := booking.ParsePaymentMethod(d.PaymentMethod)
	return booking.ReconstructBooking(
		d.ID, d.UserID, d.ServiceID, d.ServiceTitle, d.ProviderID, d.ProviderName,
		d.BookingDate, d.BookingTime, d.Status, toCents(d.TotalAmount), method,
		d.BookingNotes, d.UserMobile,
	)
}

type providerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type categoryDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Icon         string `json:"icon"`
	ServiceCount int    `json:"service_count"`
}

func (d categoryDTO) toDomain() catalog.Category {
	return catalog.Category{ID: d.ID, Name: d.Name, Path: d.Path, Icon: d.Icon, ServiceCount: d.ServiceCount}
}

type serviceDTO struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        flexFloat   `json:"price"`
	Duration     interface{} `json:"duration"`
	Image        string      `json:"image"`
	Provider     providerDTO `json:"provider"`
	Category     categoryDTO `json:"category"`
	TotalRating  flexFloat   `json:"total_rating"`
	RatingCount  int         `json:"rating_count"`
	ServiceAreas []string    `json:"service_areas"`
	Status       flexBool    `json:"status"`
}

func (d serviceDTO) toDomain() catalog.Service {
	var duration string
	if d.Duration != nil {
		duration = fmt.Sprint(d.Duration)
	}
	return catalog.Service{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        float64(d.Price),
		Duration:     duration,
		Image:        d.Image,
		Provider:     catalog.Provider{ID: d.Provider.ID, Name: d.Provider.Name, Image: d.Provider.Image},
		Category:     d.Category.toDomain(),
		TotalRating:  float64(d.TotalRating),
		RatingCount:  d.RatingCount,
		ServiceAreas: d.ServiceAreas,
		Active:       bool(d.Status),
	}
}

func servicesToDomain(dtos []serviceDTO) []catalog.Service {
	out := make([]catalog.Service, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out
}

// decodeList accepts either a bare array or an object wrapping it under key.
func decodeList(body []byte, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	raw, ok := wrapped[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// decodeOne accepts either the object itself or one wrapped under key.
func decodeOne(body []byte, key string, out interface{}) error {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return err
	}
	if raw, ok := wrapped[key]; ok && len(raw) > 0 && raw[0] == '{' {
		return json.Unmarshal(raw, out)
	}
	return json.Unmarshal(body, out)
}
