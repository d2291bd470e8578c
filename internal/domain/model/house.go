//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// HouseStatus controls whether a listing is visible to visitors.
type HouseStatus string

const (
	HouseStatusAvailable   HouseStatus = "available"
	HouseStatusUnavailable HouseStatus = "unavailable"
)

// Valid reports whether the house status is supported.
func (s HouseStatus) Valid() bool {
	switch s {
	case HouseStatusAvailable, HouseStatusUnavailable:
		return true
	default:
		return false
	}
}

// ParseHouseStatus normalizes a status string and reports whether it is supported.
func ParseHouseStatus(value string) (HouseStatus, bool) {
	status := HouseStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// House is a rental listing owned by the remote API.
type House struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Location      string      `json:"location"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     int         `json:"bathrooms"`
	PricePerNight float64     `json:"pricePerNight"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"imageUrl"`
	HostEmail     string      `json:"hostEmail"`
	Status        HouseStatus `json:"status"`
}

// CreateHouseRequest represents parameters to create a House. Validated
// before serialization; invalid requests never reach the network.
type CreateHouseRequest struct {
	Name          string  `json:"name"          validate:"required,max=255"`
	Location      string  `json:"location"      validate:"required,max=255"`
	Bedrooms      int     `json:"bedrooms"      validate:"required,min=1,max=50"`
	Bathrooms     int     `json:"bathrooms"     validate:"required,min=1,max=50"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
	Description   string  `json:"description"   validate:"max=4000"`
	ImageURL      string  `json:"imageUrl"      validate:"omitempty,url"`
	HostEmail     string  `json:"hostEmail"     validate:"required,email"`
	Status        string  `json:"status"        validate:"omitempty,oneof=available unavailable"`
}

// UpdateHouseRequest represents parameters to replace a House (PUT semantics:
// the remote API replaces the record wholesale, so all fields are required).
type UpdateHouseRequest struct {
	Name          string  `json:"name"          validate:"required,max=255"`
	Location      string  `json:"location"      validate:"required,max=255"`
	Bedrooms      int     `json:"bedrooms"      validate:"required,min=1,max=50"`
	Bathrooms     int     `json:"bathrooms"     validate:"required,min=1,max=50"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
	Description   string  `json:"description"   validate:"max=4000"`
	ImageURL      string  `json:"imageUrl"      validate:"omitempty,url"`
	HostEmail     string  `json:"hostEmail"     validate:"required,email"`
	Status        string  `json:"status"        validate:"required,oneof=available unavailable"`
}
