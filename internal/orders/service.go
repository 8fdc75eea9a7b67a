package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

type orderAPI interface {
	CreateOrder(ctx context.Context, shopper backend.Shopper, payload backend.OrderRequest) (*backend.Order, string, error)
	MyOrders(ctx context.Context, shopper backend.Shopper) ([]backend.Order, error)
	GetOrder(ctx context.Context, shopper backend.Shopper, orderID string) (*backend.Order, error)
}

// Placed is the backend's answer to an order submission.
type Placed struct {
	Order   backend.Order
	Message string
}

// Service submits orders and reads order history.
type Service interface {
	Place(ctx context.Context, id identity.Identity, payload backend.OrderRequest) (*Placed, error)
	MyOrders(ctx context.Context, id identity.Identity) ([]backend.Order, error)
	GetOrder(ctx context.Context, id identity.Identity, orderID string) (*backend.Order, error)
}

type service struct {
	api  orderAPI
	logg *logger.Logger
}

func NewService(api orderAPI, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("order api required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, logg: logg}, nil
}

// Place submits payload once. There is no retry and no idempotency key.
func (s *service) Place(ctx context.Context, id identity.Identity, payload backend.OrderRequest) (*Placed, error) {
	ctx = s.logg.WithShopper(ctx, id.Kind.String(), id.GuestID)
	order, message, err := s.api.CreateOrder(ctx, id.Shopper(), payload)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order submission failed")
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "order placed")
	return &Placed{Order: *order, Message: message}, nil
}

func (s *service) MyOrders(ctx context.Context, id identity.Identity) ([]backend.Order, error) {
	return s.api.MyOrders(ctx, id.Shopper())
}

func (s *service) GetOrder(ctx context.Context, id identity.Identity, orderID string) (*backend.Order, error) {
	return s.api.GetOrder(ctx, id.Shopper(), orderID)
}
