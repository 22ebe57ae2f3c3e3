package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCart(t *testing.T) {
	raw := `[
		{"id":1,"name":"Carbon Front","price":150,"category":"carbon","uid":"u1","externalBookingRef":"SQ1"},
		{"id":2,"name":"String Price","price":"450","category":"ceramic","uid":"u2"},
		{"id":3,"name":"Null Price","price":null,"category":"ceramic","uid":"u3"},
		{"id":4,"name":"Missing Price","category":"ceramic","uid":"u4"},
		{"name":"No ID","price":75.5,"category":"ceramic","uid":"u5"}
	]`

	cart := DecodeCart(raw)
	require.Len(t, cart, 2)
	assert.Equal(t, int64(1), cart[0].ID)
	require.NotNil(t, cart[0].ExternalBookingRef)
	assert.Equal(t, "SQ1", *cart[0].ExternalBookingRef)
	assert.False(t, cart[1].HasID())
	assert.Equal(t, 75.5, cart[1].Price)
}

func TestDecodeCart_Malformed(t *testing.T) {
	assert.Empty(t, DecodeCart(""))
	assert.Empty(t, DecodeCart("{not json"))
	assert.Empty(t, DecodeCart(`{"id":1}`))
	assert.NotNil(t, DecodeCart("garbage"))
}

func TestEncodeCart_RoundTripsThroughDecode(t *testing.T) {
	ref := "SQ9"
	cart := []CartItem{{
		ServiceItem: ServiceItem{ID: 9, Name: "Ceramic Full", Price: 450, Category: TintCeramic, ExternalBookingRef: &ref},
		UID:         "uid-9",
	}}

	raw, err := EncodeCart(cart)
	require.NoError(t, err)
	assert.Equal(t, cart, DecodeCart(raw))

	empty, err := EncodeCart(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestSafePrice(t *testing.T) {
	assert.Equal(t, 12.5, ServiceItem{Price: 12.5}.SafePrice())
	assert.Zero(t, ServiceItem{Price: math.NaN()}.SafePrice())
	assert.Zero(t, ServiceItem{Price: math.Inf(1)}.SafePrice())
}

func TestEnums(t *testing.T) {
	assert.True(t, VehicleSUV.Valid())
	assert.False(t, VehicleCategory("truck").Valid())
	assert.True(t, ModeMobile.Valid())
	assert.False(t, ServiceMode("").Valid())
	assert.True(t, TintCeramic.Valid())
	assert.False(t, TintCategory("vinyl").Valid())
}

func TestFilterByCategory(t *testing.T) {
	items := []ServiceItem{
		{ID: 1, Category: TintCarbon},
		{ID: 2, Category: TintCeramic},
		{ID: 3, Category: TintCarbon},
	}
	carbon := FilterByCategory(items, TintCarbon)
	require.Len(t, carbon, 2)
	assert.Equal(t, int64(3), carbon[1].ID)
	assert.NotNil(t, FilterByCategory(nil, TintCeramic))
}
