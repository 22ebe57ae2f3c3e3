package models

import (
	"math"
)

// VehicleCategory scopes price queries.
type VehicleCategory string

const (
	VehicleCoupe VehicleCategory = "coupe"
	VehicleSedan VehicleCategory = "sedan"
	VehicleSUV   VehicleCategory = "suv"
)

func (v VehicleCategory) Valid() bool {
	switch v {
	case VehicleCoupe, VehicleSedan, VehicleSUV:
		return true
	}
	return false
}

// TintCategory is the film line a service belongs to.
type TintCategory string

const (
	TintCarbon  TintCategory = "carbon"
	TintCeramic TintCategory = "ceramic"
)

func (t TintCategory) Valid() bool {
	return t == TintCarbon || t == TintCeramic
}

// ServiceMode is in-shop or mobile delivery. It does not affect pricing.
type ServiceMode string

const (
	ModeShop   ServiceMode = "shop"
	ModeMobile ServiceMode = "mobile"
)

func (m ServiceMode) Valid() bool {
	return m == ModeShop || m == ModeMobile
}

// ServiceItem is one purchasable catalog entry for a vehicle category.
// ID is the price row id; zero means the row carried no id.
type ServiceItem struct {
	ID                 int64        `json:"id,omitempty"`
	Name               string       `json:"name"`
	Price              float64      `json:"price"`
	ExternalBookingRef *string      `json:"externalBookingRef"`
	Category           TintCategory `json:"category"`
}

// HasID reports whether the item carries a data store identifier.
func (s ServiceItem) HasID() bool {
	return s.ID != 0
}

// SafePrice returns the price, or 0 when it is not a finite number.
func (s ServiceItem) SafePrice() float64 {
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
		return 0
	}
	return s.Price
}

// FilterByCategory returns the items of one tint category, order preserved.
func FilterByCategory(items []ServiceItem, category TintCategory) []ServiceItem {
	out := make([]ServiceItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
