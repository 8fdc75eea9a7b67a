package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

type productList []Product

func (l productList) Validate() error {
	for i, p := range l {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}
	return nil
}

type categoryList []Category

func (l categoryList) Validate() error {
	for i, c := range l {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("category %d missing _id", i)
		}
	}
	return nil
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out productList
	if err := c.do(ctx, call{endpoint: "products.list", method: http.MethodGet, path: "/products"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var out Product
	req := call{endpoint: "products.get", method: http.MethodGet, path: "/products/" + url.PathEscape(productID)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProductsByCategory returns the products filed directly under categoryID.
func (c *Client) ListProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var out productList
	req := call{endpoint: "products.by_category", method: http.MethodGet, path: "/products/category/" + url.PathEscape(categoryID)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns every category, roots and subcategories alike.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out categoryList
	if err := c.do(ctx, call{endpoint: "categories.list", method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
