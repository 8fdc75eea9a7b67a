package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
)

// Subtotal is the sum of unit price times quantity across lines.
func Subtotal(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// DiscountedTotal takes rate off subtotal when the code is valid, rounded half away from
// zero to two places. Invalid codes leave the subtotal untouched.
func DiscountedTotal(subtotal decimal.Decimal, valid bool, rate decimal.Decimal) decimal.Decimal {
	if !valid || !rate.IsPositive() {
		return subtotal
	}
	return subtotal.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2)
}

// Contact is the shopper-entered part of an order.
type Contact struct {
	FullName        string
	Email           string
	Phone           string
	ShippingAddress string
	DiscountCode    string
	DiscountValid   bool
}

// BuildPayload assembles the order request from the cart and contact details.
// The same inputs always produce the same payload.
func BuildPayload(lines []cart.Line, contact Contact, rate decimal.Decimal, id identity.Identity, method enums.PaymentMethod) backend.OrderRequest {
	items := make([]backend.OrderLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.OrderLineItem{
			ProductID:     line.ProductID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice.InexactFloat64(),
			SelectedSize:  line.SelectedSize,
			SelectedImage: line.SelectedImage,
		})
	}

	code := strings.TrimSpace(contact.DiscountCode)
	valid := contact.DiscountValid && code != ""
	total := DiscountedTotal(Subtotal(lines), valid, rate)

	payload := backend.OrderRequest{
		Name:            strings.TrimSpace(contact.FullName),
		Email:           strings.TrimSpace(contact.Email),
		Phone:           strings.TrimSpace(contact.Phone),
		ShippingAddress: strings.TrimSpace(contact.ShippingAddress),
		Items:           items,
		TotalAmount:     total.InexactFloat64(),
		PaymentMethod:   string(method),
		GuestID:         id.Shopper().GuestID,
	}
	if valid {
		payload.DiscountCode = code
	}
	return payload
}
