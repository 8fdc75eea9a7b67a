package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

type fakeOrderAPI struct {
	createFn func(ctx context.Context, shopper backend.Shopper, payload backend.OrderRequest) (*backend.Order, string, error)
	listFn   func(ctx context.Context, shopper backend.Shopper) ([]backend.Order, error)
	getFn    func(ctx context.Context, shopper backend.Shopper, orderID string) (*backend.Order, error)
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, shopper backend.Shopper, payload backend.OrderRequest) (*backend.Order, string, error) {
	return f.createFn(ctx, shopper, payload)
}

func (f *fakeOrderAPI) MyOrders(ctx context.Context, shopper backend.Shopper) ([]backend.Order, error) {
	return f.listFn(ctx, shopper)
}

func (f *fakeOrderAPI) GetOrder(ctx context.Context, shopper backend.Shopper, orderID string) (*backend.Order, error) {
	return f.getFn(ctx, shopper, orderID)
}

func TestPlaceReturnsBackendOrder(t *testing.T) {
	api := &fakeOrderAPI{createFn: func(_ context.Context, shopper backend.Shopper, payload backend.OrderRequest) (*backend.Order, string, error) {
		assert.Equal(t, "guest-1", shopper.GuestID)
		return &backend.Order{ID: "o1", Status: "pending"}, "Order placed successfully", nil
	}}
	svc, err := NewService(api, logger.Nop())
	require.NoError(t, err)

	placed, err := svc.Place(context.Background(), identity.Identity{Kind: enums.IdentityKindGuest, GuestID: "guest-1"}, backend.OrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, "o1", placed.Order.ID)
	assert.Equal(t, "Order placed successfully", placed.Message)
}

func TestPlacePropagatesFailure(t *testing.T) {
	api := &fakeOrderAPI{createFn: func(context.Context, backend.Shopper, backend.OrderRequest) (*backend.Order, string, error) {
		return nil, "", pkgerrors.New(pkgerrors.CodeBusinessRule, "Insufficient stock")
	}}
	svc, err := NewService(api, nil)
	require.NoError(t, err)

	_, err = svc.Place(context.Background(), identity.Identity{Kind: enums.IdentityKindAuthenticated, Token: "t"}, backend.OrderRequest{})
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock", pkgerrors.UserMessage(err))
}

func TestHistoryUsesShopperCredential(t *testing.T) {
	user := identity.Identity{Kind: enums.IdentityKindAuthenticated, Token: "tok"}
	api := &fakeOrderAPI{
		listFn: func(_ context.Context, shopper backend.Shopper) ([]backend.Order, error) {
			assert.Equal(t, "tok", shopper.Token)
			return []backend.Order{{ID: "o1"}, {ID: "o2"}}, nil
		},
		getFn: func(_ context.Context, _ backend.Shopper, orderID string) (*backend.Order, error) {
			return &backend.Order{ID: orderID}, nil
		},
	}
	svc, err := NewService(api, nil)
	require.NoError(t, err)

	list, err := svc.MyOrders(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	order, err := svc.GetOrder(context.Background(), user, "o2")
	require.NoError(t, err)
	assert.Equal(t, "o2", order.ID)
}
