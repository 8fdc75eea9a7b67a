package backend

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// CartLineRef identifies a cart line on the wire.
type CartLineRef struct {
	ProductID     string
	SelectedImage string
	SelectedSize  string
}

// GetCart returns the shopper's server-side cart.
func (c *Client) GetCart(ctx context.Context, shopper Shopper) (*Cart, error) {
	if err := requireShopper(shopper); err != nil {
		return nil, err
	}
	var out Cart
	req := call{
		endpoint: "cart.get",
		method:   http.MethodGet,
		path:     "/cart",
		query:    guestQuery(shopper),
		shopper:  &shopper,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart adds one unit of ref and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, shopper Shopper, ref CartLineRef) (*Cart, error) {
	return c.mutateCart(ctx, "cart.add", "/cart", shopper, ref)
}

// RemoveFromCart removes one unit of ref and returns the updated cart.
func (c *Client) RemoveFromCart(ctx context.Context, shopper Shopper, ref CartLineRef) (*Cart, error) {
	return c.mutateCart(ctx, "cart.remove", "/cart/remove", shopper, ref)
}

func (c *Client) mutateCart(ctx context.Context, endpoint, path string, shopper Shopper, ref CartLineRef) (*Cart, error) {
	if err := requireShopper(shopper); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var out Cart
	req := call{
		endpoint: endpoint,
		method:   http.MethodPost,
		path:     path,
		shopper:  &shopper,
		body: CartMutation{
			ProductID:     ref.ProductID,
			SelectedImage: ref.SelectedImage,
			SelectedSize:  ref.SelectedSize,
			GuestID:       guestField(shopper),
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func requireShopper(shopper Shopper) error {
	if shopper.Authenticated() || strings.TrimSpace(shopper.GuestID) != "" {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "no shopper identity available")
}
