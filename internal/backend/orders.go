package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// CreateOrder submits payload and returns the order the backend persisted.
// Guests are identified through payload.GuestID.
func (c *Client) CreateOrder(ctx context.Context, shopper Shopper, payload OrderRequest) (*Order, string, error) {
	if err := requireShopper(shopper); err != nil {
		return nil, "", err
	}
	payload.GuestID = guestField(shopper)

	var out orderEnvelope
	req := call{
		endpoint: "orders.create",
		method:   http.MethodPost,
		path:     "/orders/create-order",
		shopper:  &shopper,
		body:     payload,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, "", err
	}
	return &out.Order, out.Message, nil
}

// MyOrders lists the signed-in shopper's orders.
func (c *Client) MyOrders(ctx context.Context, shopper Shopper) ([]Order, error) {
	if !shopper.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to see your orders")
	}
	var out ordersEnvelope
	req := call{endpoint: "orders.mine", method: http.MethodGet, path: "/orders/my-orders", shopper: &shopper}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, shopper Shopper, orderID string) (*Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var out orderEnvelope
	req := call{
		endpoint: "orders.get",
		method:   http.MethodGet,
		path:     "/orders/order/" + url.PathEscape(orderID),
		query:    guestQuery(shopper),
		shopper:  &shopper,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}
