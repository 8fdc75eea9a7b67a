package checkout

import (
	"strings"

	"github.com/angelmondragon/packfinderz-storefront/internal/orders"
	"github.com/angelmondragon/packfinderz-storefront/pkg/validators"
)

// ValidPhone accepts 10 to 15 digits with an optional leading plus.
func ValidPhone(phone string) bool {
	return validators.ValidPhone(phone)
}

// ShippingDetails is what the shopper enters on the shipping step.
type ShippingDetails struct {
	FullName        string `json:"fullName" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,phone"`
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
}

func (d ShippingDetails) normalized() ShippingDetails {
	return ShippingDetails{
		FullName:        strings.TrimSpace(d.FullName),
		Email:           strings.TrimSpace(d.Email),
		PhoneNumber:     strings.TrimSpace(d.PhoneNumber),
		ShippingAddress: strings.TrimSpace(d.ShippingAddress),
	}
}

// Draft is the checkout form as built across the shipping and payment steps.
type Draft struct {
	ShippingDetails
	DiscountCode  string `json:"discountCode,omitempty"`
	DiscountValid bool   `json:"discountValid"`
}

// Contact converts the draft for order assembly.
func (d Draft) Contact() orders.Contact {
	return orders.Contact{
		FullName:        d.FullName,
		Email:           d.Email,
		Phone:           d.PhoneNumber,
		ShippingAddress: d.ShippingAddress,
		DiscountCode:    d.DiscountCode,
		DiscountValid:   d.DiscountValid,
	}
}

// ValidateShipping checks the required shipping fields. Details map json field names to messages.
func ValidateShipping(d ShippingDetails) error {
	return validators.Struct(d.normalized(), "please complete the shipping details")
}
