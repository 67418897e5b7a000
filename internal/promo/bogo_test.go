package promo

import (
	"testing"

	"github.com/shopspring/decimal"
)

func bogoOffer(rule BuyXGetYRule) Offer {
	return openWindow(Offer{
		ID: "bogo", Name: "bogo", Type: TypeBuyXGetY,
		Status: StatusActive, ApplicableOn: ScopeAll,
		BuyXGetY: &rule,
	})
}

func TestBuyTwoGetOneFree(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("3")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantFree,
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("20")) {
		t.Fatalf("expected one free unit worth 20.00, got %s", res.TotalDiscount)
	}
	if len(res.Lines) != 1 || !res.Lines[0].Amount.Equal(num("20")) {
		t.Fatalf("unexpected records: %+v", res.Lines)
	}
}

func TestBuyXGetYInsufficientQuantity(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("2")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantFree,
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.IsZero() || len(res.Applied) != 0 {
		t.Fatalf("two units cannot satisfy buy-2-get-1, got %+v", res)
	}
}

func TestBuyXGetYRepeatsPerRequiredBlock(t *testing.T) {
	// Six units satisfy buy-2-get-1 twice: two free units.
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("6")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantFree,
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("40")) {
		t.Fatalf("expected two free units worth 40.00, got %s", res.TotalDiscount)
	}
}

func TestBuyXGetYDifferentGetProduct(t *testing.T) {
	lines := []Line{
		{ItemID: "razor", UnitPrice: num("25"), Quantity: num("2")},
		{ItemID: "blade", UnitPrice: num("5"), Quantity: num("2")},
	}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"razor"}, GetProductIDs: []string{"blade"},
		BuyQty: 2, GetQty: 1, SameProduct: false, DiscountType: GrantFree,
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("5")) {
		t.Fatalf("expected one free blade worth 5.00, got %s", res.TotalDiscount)
	}
	if len(res.Lines) != 1 || res.Lines[0].ItemID != "blade" {
		t.Fatalf("discount should land on the get product, got %+v", res.Lines)
	}
}

func TestBuyXGetYGrantsCheapestUnitsFirst(t *testing.T) {
	lines := []Line{
		{ItemID: "mug-red", ProductID: "mug", UnitPrice: num("2"), Quantity: num("5")},
		{ItemID: "mug-gold", ProductID: "mug", UnitPrice: num("1"), Quantity: num("2")},
	}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"mug"}, BuyQty: 4, GetQty: 3,
		SameProduct: true, DiscountType: GrantFree,
	})
	// 7 units, required block 7, one application, 3 free units: both gold
	// mugs (1.00 each) then one red mug (2.00).
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("4")) {
		t.Fatalf("expected 4.00, got %s", res.TotalDiscount)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected two records, got %+v", res.Lines)
	}
	if res.Lines[0].ItemID != "mug-gold" || !res.Lines[0].Amount.Equal(num("2")) {
		t.Fatalf("cheapest line should be granted first: %+v", res.Lines[0])
	}
	if res.Lines[1].ItemID != "mug-red" || !res.Lines[1].Amount.Equal(num("2")) {
		t.Fatalf("remaining grant should fall on the dearer line: %+v", res.Lines[1])
	}
}

func TestBuyXGetYPercentGrant(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("3")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantPercent, DiscountValue: num("50"),
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("10")) {
		t.Fatalf("expected half-price unit worth 10.00, got %s", res.TotalDiscount)
	}
}

func TestBuyXGetYFixedGrant(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("3")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantFixed, DiscountValue: num("4.5"),
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.Equal(num("4.5")) {
		t.Fatalf("expected 4.50 off the granted unit, got %s", res.TotalDiscount)
	}
}

func TestBuyXGetYMalformedRuleSkipped(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("3")}}
	cases := map[string]BuyXGetYRule{
		"no buy products": {BuyQty: 2, GetQty: 1, SameProduct: true, DiscountType: GrantFree},
		"zero buy qty":    {BuyProductIDs: []string{"shirt"}, GetQty: 1, SameProduct: true, DiscountType: GrantFree},
		"zero get qty":    {BuyProductIDs: []string{"shirt"}, BuyQty: 2, SameProduct: true, DiscountType: GrantFree},
		"no get products": {BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1, DiscountType: GrantFree},
		"unknown grant":   {BuyProductIDs: []string{"shirt"}, BuyQty: 2, GetQty: 1, SameProduct: true, DiscountType: "half"},
	}
	for name, rule := range cases {
		res := Evaluate(lines, []Offer{bogoOffer(rule)}, evalNow)
		if !res.TotalDiscount.IsZero() || len(res.Applied) != 0 {
			t.Fatalf("%s: malformed rule must be skipped, got %+v", name, res)
		}
	}
}

func TestBuyXGetYMissingRulePayloadSkipped(t *testing.T) {
	lines := []Line{{ItemID: "shirt", UnitPrice: num("20"), Quantity: num("3")}}
	offer := openWindow(Offer{ID: "bogo", Type: TypeBuyXGetY, Status: StatusActive, ApplicableOn: ScopeAll})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.IsZero() {
		t.Fatalf("offer without payload must be skipped, got %s", res.TotalDiscount)
	}
}

func TestBuyXGetYFractionalQuantityCountsWholeUnits(t *testing.T) {
	lines := []Line{{ItemID: "apples", UnitPrice: num("4"), Quantity: num("2.9")}}
	offer := bogoOffer(BuyXGetYRule{
		BuyProductIDs: []string{"apples"}, BuyQty: 2, GetQty: 1,
		SameProduct: true, DiscountType: GrantFree,
	})
	res := Evaluate(lines, []Offer{offer}, evalNow)
	if !res.TotalDiscount.IsZero() {
		t.Fatalf("2.9 units must not satisfy a 3-unit block, got %s", res.TotalDiscount)
	}
	if sum := Subtotal(lines); !sum.Equal(decimal.RequireFromString("11.6")) {
		t.Fatalf("subtotal sanity check failed: %s", sum)
	}
}
