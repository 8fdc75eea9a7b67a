package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/packfinderz-storefront/api/middleware"
	"github.com/angelmondragon/packfinderz-storefront/api/responses"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/validators"
)

type cartMutationRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	SelectedImage string `json:"selectedImage"`
	SelectedSize  string `json:"selectedSize"`
	GuestID       string `json:"guestId"`
}

func (c cartMutationRequest) ref() backend.CartLineRef {
	return backend.CartLineRef{
		ProductID:     strings.TrimSpace(c.ProductID),
		SelectedImage: c.SelectedImage,
		SelectedSize:  c.SelectedSize,
	}
}

// shopperFrom prefers the authenticated user and falls back to guestID.
func shopperFrom(r *http.Request, guestID string) mockbackend.Shopper {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return mockbackend.Shopper{UserID: userID}
	}
	return mockbackend.Shopper{GuestID: strings.TrimSpace(guestID)}
}

func GetCart(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := store.Cart(shopperFrom(r, r.URL.Query().Get("guestId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, cart)
	}
}

func AddToCart(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartMutationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := store.AddToCart(shopperFrom(r, payload.GuestID), payload.ref())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, cart)
	}
}

func RemoveFromCart(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartMutationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := store.RemoveFromCart(shopperFrom(r, payload.GuestID), payload.ref())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, cart)
	}
}
