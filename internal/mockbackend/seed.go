package mockbackend

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func discounted(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Seed fills s with a small demo catalog, two discount codes and one verified account.
func Seed(s *Store) error {
	for _, c := range []backend.Category{
		{ID: "cat-men", Name: "Men"},
		{ID: "cat-men-shirts", Name: "Shirts", Parent: "cat-men"},
		{ID: "cat-men-tees", Name: "T-Shirts", Parent: "cat-men-shirts"},
		{ID: "cat-women", Name: "Women"},
		{ID: "cat-accessories", Name: "Accessories"},
	} {
		s.AddCategory(c)
	}

	for _, p := range []backend.Product{
		{
			ID:              "prod-classic-tee",
			Name:            "Classic Tee",
			Description:     "Combed cotton crew neck.",
			Price:           price(2499),
			DiscountedPrice: discounted(1999),
			Images:          []string{"classic-tee-white.png", "classic-tee-black.png"},
			Sizes:           []string{"S", "M", "L"},
			Stock:           10,
			Category:        "cat-men",
			Subcategory:     "cat-men-tees",
		},
		{
			ID:          "prod-oxford-shirt",
			Name:        "Oxford Shirt",
			Description: "Button-down oxford cloth.",
			Price:       price(4500),
			Images:      []string{"oxford-blue.png"},
			Sizes:       []string{"M", "L", "XL"},
			Stock:       4,
			Category:    "cat-men",
			Subcategory: "cat-men-shirts",
		},
		{
			ID:          "prod-canvas-cap",
			Name:        "Canvas Cap",
			Description: "Six panel cap.",
			Price:       price(2200),
			Images:      []string{"cap-khaki.png"},
			Stock:       2,
			Category:    "cat-accessories",
		},
		{
			ID:          "prod-linen-dress",
			Name:        "Linen Dress",
			Description: "Relaxed fit summer dress.",
			Price:       price(6800),
			Images:      []string{"linen-dress.png"},
			Sizes:       []string{"S", "M"},
			Stock:       3,
			Category:    "cat-women",
		},
	} {
		s.AddProduct(p)
	}

	s.AddDiscount(DiscountRule{Code: "WELCOME10"})
	s.AddDiscount(DiscountRule{Code: "SAVE20", Percent: 20})

	return s.AddUser(backend.User{ID: "user-demo", Name: "Demo Shopper", Email: DemoEmail, Phone: "+923001234567"}, DemoPassword)
}
