package discount

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// DefaultPercent applies when the backend accepts a code without stating a rate.
const DefaultPercent = 10

type discountAPI interface {
	ValidateDiscount(ctx context.Context, email, code string) (*backend.DiscountResponse, error)
}

// Result is the backend verdict for one (email, code) pair.
type Result struct {
	Email   string
	Code    string
	Valid   bool
	Message string
	// Rate is the fraction taken off the subtotal, for example 0.1.
	Rate decimal.Decimal
}

// Matches reports whether the result was issued for this email and code.
func (r Result) Matches(email, code string) bool {
	return r.Email == normalizeEmail(email) && r.Code == strings.TrimSpace(code)
}

// Service validates discount codes. The backend is the only authority.
type Service interface {
	Validate(ctx context.Context, email, code string) (Result, error)
}

type service struct {
	api            discountAPI
	defaultPercent int
}

// NewService builds the validator. defaultPercent outside 1..100 falls back to DefaultPercent.
func NewService(api discountAPI, defaultPercent int) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("discount api required")
	}
	if defaultPercent <= 0 || defaultPercent > 100 {
		defaultPercent = DefaultPercent
	}
	return &service{api: api, defaultPercent: defaultPercent}, nil
}

func (s *service) Validate(ctx context.Context, email, code string) (Result, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "email and discount code are required")
	}

	resp, err := s.api.ValidateDiscount(ctx, email, code)
	if err != nil {
		return Result{}, err
	}

	result := Result{Email: email, Code: code, Valid: resp.Valid, Message: resp.Message, Rate: decimal.Zero}
	if !resp.Valid {
		if result.Message == "" {
			result.Message = "discount code is not valid"
		}
		return result, nil
	}

	percent := s.defaultPercent
	if resp.DiscountPercent != nil {
		percent = *resp.DiscountPercent
	}
	result.Rate = decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))
	if result.Message == "" {
		result.Message = fmt.Sprintf("%d%% discount applied", percent)
	}
	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
