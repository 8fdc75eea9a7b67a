package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-storefront/api/middleware"
	"github.com/angelmondragon/packfinderz-storefront/api/responses"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/validators"
)

type orderLineRequest struct {
	ProductID     string  `json:"product" validate:"required"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity" validate:"min=1"`
	Price         float64 `json:"price"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedImage string  `json:"selectedImage"`
}

type createOrderRequest struct {
	Name            string             `json:"name" validate:"required"`
	Email           string             `json:"email" validate:"required,email"`
	Phone           string             `json:"phone" validate:"required,phone"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	Items           []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64            `json:"totalAmount"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
	DiscountCode    string             `json:"discountCode"`
	GuestID         string             `json:"guestId"`
}

func (c createOrderRequest) toOrderRequest() backend.OrderRequest {
	items := make([]backend.OrderLineItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, backend.OrderLineItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedSize:  item.SelectedSize,
			SelectedImage: item.SelectedImage,
		})
	}
	return backend.OrderRequest{
		Name:            validators.SanitizeString(c.Name, 120),
		Email:           c.Email,
		Phone:           c.Phone,
		ShippingAddress: validators.SanitizeString(c.ShippingAddress, 500),
		Items:           items,
		TotalAmount:     c.TotalAmount,
		PaymentMethod:   c.PaymentMethod,
		DiscountCode:    c.DiscountCode,
		GuestID:         c.GuestID,
	}
}

type orderCreatedResponse struct {
	Message string        `json:"message"`
	Order   backend.Order `json:"order"`
}

type ordersResponse struct {
	Orders []backend.Order `json:"orders"`
}

func CreateOrder(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := store.CreateOrder(shopperFrom(r, payload.GuestID), payload.toOrderRequest())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithOrderID(r.Context(), order.ID), "order.created")
		}
		responses.WriteJSON(w, http.StatusCreated, orderCreatedResponse{
			Message: "Order placed successfully",
			Order:   order,
		})
	}
}

func MyOrders(store *mockbackend.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders := store.OrdersFor(middleware.UserIDFromContext(r.Context()))
		responses.WriteOK(w, ordersResponse{Orders: orders})
	}
}

func GetOrder(store *mockbackend.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := store.Order(shopperFrom(r, r.URL.Query().Get("guestId")), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, order)
	}
}
