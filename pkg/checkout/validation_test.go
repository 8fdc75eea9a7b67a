package checkout

import (
	"testing"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

func TestValidateStock_NoShortfall(t *testing.T) {
	items := []StockValidationInput{
		{ProductID: "p1", ProductName: "Lawn Suit", Stock: 2, Quantity: 2},
		{ProductID: "p2", ProductName: "Kurta", Stock: 10, Quantity: 1},
	}
	if err := ValidateStock(items); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateStock(nil); err != nil {
		t.Fatalf("empty input should pass, got %v", err)
	}
}

func TestValidateStock_SumsLinesOfTheSameProduct(t *testing.T) {
	items := []StockValidationInput{
		{ProductID: "p1", ProductName: "Lawn Suit", Stock: 3, Quantity: 2},
		{ProductID: "p1", ProductName: "Lawn Suit", Stock: 3, Quantity: 2},
		{ProductID: "p2", ProductName: "Kurta", Stock: 0, Quantity: 1},
	}
	err := ValidateStock(items)
	if err == nil {
		t.Fatal("expected shortfall error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected pkgerrors.Error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected code %s, got %s", pkgerrors.CodeBusinessRule, typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	shortfalls, ok := details["shortfalls"].([]StockShortfallDetail)
	if !ok {
		t.Fatalf("expected shortfall slice, got %T", details["shortfalls"])
	}
	if len(shortfalls) != 2 {
		t.Fatalf("expected 2 shortfalls, got %d", len(shortfalls))
	}
	if shortfalls[0].ProductID != "p1" || shortfalls[0].RequestedQty != 4 || shortfalls[0].Available != 3 {
		t.Fatalf("unexpected first shortfall %+v", shortfalls[0])
	}
	if shortfalls[1].ProductID != "p2" || shortfalls[1].Available != 0 {
		t.Fatalf("unexpected second shortfall %+v", shortfalls[1])
	}
}
