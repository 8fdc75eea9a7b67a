package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/validators"
)

type accountAPI interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	Register(ctx context.Context, in backend.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (*backend.AuthResponse, error)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
}

// Service signs shoppers in and out. Tokens are persisted through the identity resolver.
type Service interface {
	Login(ctx context.Context, in LoginInput) (*backend.User, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*backend.User, error)
	Logout(ctx context.Context) error
}

type service struct {
	api      accountAPI
	identity identity.Resolver
}

func NewService(api accountAPI, resolver identity.Resolver) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("account api required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("identity resolver required")
	}
	return &service{api: api, identity: resolver}, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (*backend.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validators.Struct(in, "please check your sign-in details"); err != nil {
		return nil, err
	}
	resp, err := s.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.identity.SetToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates the account; the shopper then confirms it with VerifyOTP.
func (s *service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validators.Struct(in, "please check your registration details"); err != nil {
		return "", err
	}
	return s.api.Register(ctx, backend.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	})
}

func (s *service) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*backend.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	if err := validators.Struct(in, "please check the verification code"); err != nil {
		return nil, err
	}
	resp, err := s.api.VerifyOTP(ctx, in.Email, in.OTP)
	if err != nil {
		return nil, err
	}
	if err := s.identity.SetToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout forgets the token; the shopper falls back to their guest id.
func (s *service) Logout(ctx context.Context) error {
	return s.identity.Logout(ctx)
}
