package checkout

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// StockValidationInput describes one cart line checked against the stock the
// client last saw for its product.
type StockValidationInput struct {
	ProductID   string
	ProductName string
	Stock       int
	Quantity    int
}

// StockShortfallDetail is returned to callers when a line asks for more than is known in stock.
type StockShortfallDetail struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	Available    int    `json:"available"`
	RequestedQty int    `json:"requested_qty"`
}

// ValidateStock is an advisory gate: quantities of the same product across lines
// (different images or sizes) are summed before comparing with stock. The backend
// remains authoritative.
func ValidateStock(items []StockValidationInput) error {
	type total struct {
		name  string
		stock int
		qty   int
	}
	order := make([]string, 0, len(items))
	totals := make(map[string]*total, len(items))
	for _, item := range items {
		entry, ok := totals[item.ProductID]
		if !ok {
			entry = &total{name: item.ProductName, stock: item.Stock}
			totals[item.ProductID] = entry
			order = append(order, item.ProductID)
		}
		entry.qty += item.Quantity
	}

	var shortfalls []StockShortfallDetail
	for _, id := range order {
		entry := totals[id]
		if entry.qty > entry.stock {
			shortfalls = append(shortfalls, StockShortfallDetail{
				ProductID:    id,
				ProductName:  entry.name,
				Available:    entry.stock,
				RequestedQty: entry.qty,
			})
		}
	}
	if len(shortfalls) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeBusinessRule, fmt.Sprintf("insufficient stock for %d item(s)", len(shortfalls))).WithDetails(map[string]any{
		"shortfalls": shortfalls,
	})
}
