package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
)

func sampleLines() []cart.Line {
	return []cart.Line{
		{LineKey: cart.LineKey{ProductID: "p1", SelectedImage: "a.png", SelectedSize: "M"}, Name: "Tee", Quantity: 2, UnitPrice: decimal.NewFromInt(1999), Stock: 5},
		{LineKey: cart.LineKey{ProductID: "p2", SelectedImage: "b.png"}, Name: "Cap", Quantity: 1, UnitPrice: decimal.NewFromInt(2200), Stock: 1},
	}
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, "6198", Subtotal(sampleLines()).String())
	assert.True(t, Subtotal(nil).IsZero())
}

func TestDiscountedTotal(t *testing.T) {
	subtotal := decimal.NewFromInt(6198)
	rate := decimal.RequireFromString("0.1")

	assert.Equal(t, "5578.2", DiscountedTotal(subtotal, true, rate).String())
	assert.Equal(t, "6198", DiscountedTotal(subtotal, false, rate).String())
	assert.Equal(t, "33.34", DiscountedTotal(decimal.RequireFromString("37.045"), true, rate).String())
}

func TestBuildPayloadAppliesValidDiscount(t *testing.T) {
	guest := identity.Identity{Kind: enums.IdentityKindGuest, GuestID: "guest-1"}
	contact := Contact{
		FullName:        " Ayesha Khan ",
		Email:           "ayesha@example.com",
		Phone:           "+923001234567",
		ShippingAddress: "12 Mall Road, Lahore",
		DiscountCode:    "WELCOME10",
		DiscountValid:   true,
	}

	payload := BuildPayload(sampleLines(), contact, decimal.RequireFromString("0.1"), guest, enums.PaymentMethodCashOnDelivery)

	assert.Equal(t, "Ayesha Khan", payload.Name)
	assert.Equal(t, 5578.2, payload.TotalAmount)
	assert.Equal(t, "WELCOME10", payload.DiscountCode)
	assert.Equal(t, "guest-1", payload.GuestID)
	assert.Equal(t, "cash_on_delivery", payload.PaymentMethod)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "M", payload.Items[0].SelectedSize)
	assert.Equal(t, 1999.0, payload.Items[0].Price)

	again := BuildPayload(sampleLines(), contact, decimal.RequireFromString("0.1"), guest, enums.PaymentMethodCashOnDelivery)
	assert.Equal(t, payload, again)
}

func TestBuildPayloadDropsUnvalidatedCode(t *testing.T) {
	user := identity.Identity{Kind: enums.IdentityKindAuthenticated, Token: "tok"}
	contact := Contact{FullName: "A", Email: "a@b.co", Phone: "03001234567", ShippingAddress: "x", DiscountCode: "NOPE"}

	payload := BuildPayload(sampleLines(), contact, decimal.RequireFromString("0.1"), user, enums.PaymentMethodCashOnDelivery)

	assert.Equal(t, 6198.0, payload.TotalAmount)
	assert.Empty(t, payload.DiscountCode)
	assert.Empty(t, payload.GuestID)
}
