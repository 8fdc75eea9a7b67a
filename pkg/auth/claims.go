package auth

import "github.com/golang-jwt/jwt/v5"

// ShopperClaims is the profile data carried by the storefront bearer token.
type ShopperClaims struct {
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}
