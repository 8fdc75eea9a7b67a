package backend

import (
	"context"
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// ValidateDiscount asks the backend whether code is redeemable for email.
func (c *Client) ValidateDiscount(ctx context.Context, email, code string) (*DiscountResponse, error) {
	var out DiscountResponse
	req := call{
		endpoint: "users.validate_discount",
		method:   http.MethodPost,
		path:     "/users/validate-discount",
		body:     DiscountRequest{Email: email, Code: code},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := call{
		endpoint: "users.login",
		method:   http.MethodPost,
		path:     "/users/login-user",
		body:     LoginRequest{Email: email, Password: password},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The backend answers with a message and sends an OTP out of band.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (string, error) {
	var out types.MessageBody
	req := call{
		endpoint: "users.register",
		method:   http.MethodPost,
		path:     "/users/register-user",
		body:     in,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResponse, error) {
	var out AuthResponse
	req := call{
		endpoint: "users.verify_otp",
		method:   http.MethodPost,
		path:     "/users/verify-otp",
		body:     VerifyOTPRequest{Email: email, OTP: otp},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
