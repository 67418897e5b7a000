package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/promo"
)

func num(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestComputeAppliesTaxAfterDiscount(t *testing.T) {
	lines := []promo.Line{{ItemID: "p1", UnitPrice: num("100"), Quantity: num("1")}}
	s := Compute(lines, num("25"), 1000)
	if !s.Subtotal.Equal(num("100")) {
		t.Fatalf("subtotal: %s", s.Subtotal)
	}
	if !s.Discount.Equal(num("25")) {
		t.Fatalf("discount: %s", s.Discount)
	}
	if !s.Tax.Equal(num("7.5")) {
		t.Fatalf("tax should be 10%% of the discounted base, got %s", s.Tax)
	}
	if !s.Total.Equal(num("82.5")) {
		t.Fatalf("total: %s", s.Total)
	}
}

func TestComputeClampsDiscountAtSubtotal(t *testing.T) {
	lines := []promo.Line{{ItemID: "p1", UnitPrice: num("50"), Quantity: num("1")}}
	s := Compute(lines, num("80"), 0)
	if !s.Discount.Equal(num("50")) || !s.Total.IsZero() {
		t.Fatalf("expected free cart, got discount %s total %s", s.Discount, s.Total)
	}
}

func TestComputeNegativeDiscountIgnored(t *testing.T) {
	lines := []promo.Line{{ItemID: "p1", UnitPrice: num("10"), Quantity: num("2")}}
	s := Compute(lines, num("-5"), 0)
	if !s.Discount.IsZero() || !s.Total.Equal(num("20")) {
		t.Fatalf("negative discount must be ignored, got %+v", s)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	s := Compute(nil, num("10"), 1100)
	if !s.Subtotal.IsZero() || !s.Discount.IsZero() || !s.Tax.IsZero() || !s.Total.IsZero() {
		t.Fatalf("empty cart must produce zero summary, got %+v", s)
	}
}
