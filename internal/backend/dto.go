package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the backend.
type Product struct {
	ID              string           `json:"_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	Images          []string         `json:"images,omitempty"`
	Sizes           []string         `json:"sizes,omitempty"`
	Stock           int              `json:"stock"`
	Category        string           `json:"category,omitempty"`
	Subcategory     string           `json:"subcategory,omitempty"`
}

// Validate rejects payloads the storefront cannot price.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product missing _id")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s has negative price", p.ID)
	}
	return nil
}

// EffectivePrice is the discounted price when one is set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil && p.DiscountedPrice.IsPositive() {
		return *p.DiscountedPrice
	}
	return p.Price
}

// Category is a node of the category tree. Parent is empty for roots.
type Category struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// CartItem is one server-side cart line with its product expanded.
type CartItem struct {
	Product       Product `json:"product"`
	SelectedImage string  `json:"selectedImage,omitempty"`
	SelectedSize  string  `json:"selectedSize,omitempty"`
	Quantity      int     `json:"quantity"`
}

// Cart is the authoritative cart returned by every cart endpoint.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) Validate() error {
	for i, item := range c.Items {
		if err := item.Product.Validate(); err != nil {
			return fmt.Errorf("cart item %d: %w", i, err)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("cart item %d has quantity %d", i, item.Quantity)
		}
	}
	return nil
}

// CartMutation is the body of add and remove cart calls.
type CartMutation struct {
	ProductID     string `json:"productId"`
	SelectedImage string `json:"selectedImage,omitempty"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	GuestID       string `json:"guestId,omitempty"`
}

// OrderLineItem is one snapshotted line of an order.
type OrderLineItem struct {
	ProductID     string  `json:"product"`
	Name          string  `json:"name,omitempty"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	SelectedSize  string  `json:"selectedSize,omitempty"`
	SelectedImage string  `json:"selectedImage,omitempty"`
}

// OrderRequest is the order payload posted at checkout.
type OrderRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []OrderLineItem `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	DiscountCode    string          `json:"discountCode,omitempty"`
	GuestID         string          `json:"guestId,omitempty"`
}

// Order is an order as stored by the backend.
type Order struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	Items           []OrderLineItem `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	DiscountCode    string          `json:"discountCode,omitempty"`
	Status          string          `json:"status,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("order missing _id")
	}
	return nil
}

type orderEnvelope struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

func (e *orderEnvelope) Validate() error {
	return e.Order.Validate()
}

type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

// DiscountRequest asks the backend whether code applies to email.
type DiscountRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// DiscountResponse is the backend verdict. DiscountPercent is optional.
type DiscountResponse struct {
	Valid           bool   `json:"valid"`
	Message         string `json:"message"`
	DiscountPercent *int   `json:"discountPercent,omitempty"`
}

func (d *DiscountResponse) Validate() error {
	if d.DiscountPercent != nil && (*d.DiscountPercent < 0 || *d.DiscountPercent > 100) {
		return fmt.Errorf("discount percent %d out of range", *d.DiscountPercent)
	}
	return nil
}

// User is the public profile returned on sign-in.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// AuthResponse carries the bearer token issued by login and OTP verification.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (a *AuthResponse) Validate() error {
	if strings.TrimSpace(a.Token) == "" {
		return fmt.Errorf("auth response missing token")
	}
	return nil
}
