package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/api/middleware"
	"github.com/angelmondragon/packfinderz-storefront/api/responses"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	pkgAuth "github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/angelmondragon/packfinderz-storefront/pkg/validators"
)

// TokenMinter issues bearer tokens for signed-in users.
type TokenMinter struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func (m TokenMinter) mint(user backend.User) (string, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return pkgAuth.Mint(m.Secret, middleware.TokenIssuer, m.TTL, now(), pkgAuth.ShopperClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
	})
}

type discountRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
}

func ValidateDiscount(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, store.ValidateDiscount(payload.Email, payload.Code))
	}
}

func Login(store *mockbackend.Store, tokens TokenMinter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := store.Login(payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAuth(w, r, tokens, user, logg)
	}
}

// Register has no mail transport; the one-time code is logged for the operator.
func Register(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		otp, err := store.Register(backend.RegisterRequest{
			Name:     validators.SanitizeString(payload.Name, 120),
			Email:    payload.Email,
			Phone:    payload.Phone,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"email": payload.Email, "otp": otp})
			logg.Info(ctx, "register.otp_issued")
		}
		responses.WriteJSON(w, http.StatusCreated, types.MessageBody{
			Message: "Registration successful, check your email for the OTP",
		})
	}
}

func VerifyOTP(store *mockbackend.Store, tokens TokenMinter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyOTPRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := store.VerifyOTP(payload.Email, payload.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAuth(w, r, tokens, user, logg)
	}
}

func writeAuth(w http.ResponseWriter, r *http.Request, tokens TokenMinter, user backend.User, logg *logger.Logger) {
	token, err := tokens.mint(user)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
		return
	}
	responses.WriteOK(w, backend.AuthResponse{Token: token, User: user})
}
