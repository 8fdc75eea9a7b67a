package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

type catalogAPI interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
	GetProduct(ctx context.Context, productID string) (*backend.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]backend.Product, error)
	ListCategories(ctx context.Context) ([]backend.Category, error)
}

// Service exposes read-only catalog browsing.
type Service interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
	GetProduct(ctx context.Context, productID string) (*backend.Product, error)
	ListCategories(ctx context.Context) ([]backend.Category, error)
	ProductsInCategoryTree(ctx context.Context, categoryID string) ([]backend.Product, error)
}

type service struct {
	api catalogAPI
}

func NewService(api catalogAPI) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("catalog api required")
	}
	return &service{api: api}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]backend.Product, error) {
	return s.api.ListProducts(ctx)
}

func (s *service) GetProduct(ctx context.Context, productID string) (*backend.Product, error) {
	return s.api.GetProduct(ctx, productID)
}

func (s *service) ListCategories(ctx context.Context) ([]backend.Category, error) {
	return s.api.ListCategories(ctx)
}

// ProductsInCategoryTree returns the products of categoryID and of every subcategory below it.
// Products filed under several categories appear once, at their first position.
func (s *service) ProductsInCategoryTree(ctx context.Context, categoryID string) ([]backend.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}

	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	var products []backend.Product
	seen := map[string]struct{}{}
	for _, id := range Descendants(categories, categoryID) {
		batch, err := s.api.ListProductsByCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			products = append(products, p)
		}
	}
	return products, nil
}

// Descendants lists rootID followed by every category below it, breadth first in the order
// the categories were given. Cycles in parent links are ignored.
func Descendants(categories []backend.Category, rootID string) []string {
	children := map[string][]string{}
	for _, c := range categories {
		if c.Parent != "" {
			children[c.Parent] = append(children[c.Parent], c.ID)
		}
	}

	out := []string{rootID}
	visited := map[string]struct{}{rootID: {}}
	for i := 0; i < len(out); i++ {
		for _, child := range children[out[i]] {
			if _, ok := visited[child]; ok {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
		}
	}
	return out
}
