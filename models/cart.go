package models

import (
	"encoding/json"
	"math"
)

// CartItem is a selected ServiceItem plus a locally generated uid.
type CartItem struct {
	ServiceItem
	UID string `json:"uid"`
}

// BookingSelection is the persisted part of a visitor's booking session.
type BookingSelection struct {
	VehicleCategory VehicleCategory `json:"vehicleCategory"`
	ServiceMode     ServiceMode     `json:"serviceMode"`
	Cart            []CartItem      `json:"cart"`
}

// DefaultSelection is what a fresh session starts with.
func DefaultSelection() BookingSelection {
	return BookingSelection{
		VehicleCategory: VehicleSedan,
		ServiceMode:     ModeShop,
		Cart:            []CartItem{},
	}
}

// persistedCartItem mirrors CartItem with a loose price so older stored
// formats (missing or string prices) can be detected and dropped.
type persistedCartItem struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Price              json.RawMessage `json:"price"`
	ExternalBookingRef *string         `json:"externalBookingRef"`
	Category           TintCategory    `json:"category"`
	UID                string          `json:"uid"`
}

// DecodeCart parses a serialized cart. Entries without a numeric price are
// skipped. Malformed input yields an empty cart.
func DecodeCart(raw string) []CartItem {
	cart := []CartItem{}
	if raw == "" {
		return cart
	}

	var entries []persistedCartItem
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return cart
	}

	for _, e := range entries {
		if len(e.Price) == 0 || string(e.Price) == "null" {
			continue
		}
		var price float64
		if err := json.Unmarshal(e.Price, &price); err != nil {
			continue
		}
		if math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		cart = append(cart, CartItem{
			ServiceItem: ServiceItem{
				ID:                 e.ID,
				Name:               e.Name,
				Price:              price,
				ExternalBookingRef: e.ExternalBookingRef,
				Category:           e.Category,
			},
			UID: e.UID,
		})
	}
	return cart
}

// EncodeCart serializes a cart for the persisted store.
func EncodeCart(cart []CartItem) (string, error) {
	if cart == nil {
		cart = []CartItem{}
	}
	b, err := json.Marshal(cart)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
