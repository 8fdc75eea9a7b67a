package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-storefront/api/responses"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

func ListProducts(store *mockbackend.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteOK(w, store.Products())
	}
}

func GetProduct(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := store.Product(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, product)
	}
}

func ProductsByCategory(store *mockbackend.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteOK(w, store.ProductsByCategory(chi.URLParam(r, "id")))
	}
}

func ListCategories(store *mockbackend.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteOK(w, store.Categories())
	}
}
