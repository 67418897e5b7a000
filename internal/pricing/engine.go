package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/promo"
)

// Summary aggregates computed cart totals.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Compute folds cart lines and an already evaluated discount into payable
// totals. The discount is clamped at the subtotal, tax is applied to the
// discounted base in basis points, and all components round to two decimal
// places.
func Compute(lines []promo.Line, discount decimal.Decimal, taxBps int) Summary {
	subtotal := promo.Subtotal(lines).Round(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	tax := decimal.Zero
	if taxBps > 0 {
		tax = taxable.Mul(decimal.NewFromInt(int64(taxBps))).Div(decimal.NewFromInt(10000)).Round(2)
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
}
