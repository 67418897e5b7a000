package promo

import (
	"sort"

	"github.com/shopspring/decimal"
)

// applyBuyXGetY evaluates a buy-X-get-Y offer against the full cart.
// Qualifying quantity is counted over the buy set; granted units are drawn
// from the get set (the buy set itself when SameProduct), cheapest first so
// the giveaway costs the merchant least. Each grant is its own record:
// unlike the proportional family, records for the same item are appended,
// not merged.
func applyBuyXGetY(offer Offer, lines []Line) (decimal.Decimal, []LineDiscount) {
	rule := offer.BuyXGetY
	if rule == nil || rule.BuyQty <= 0 || rule.GetQty <= 0 || len(rule.BuyProductIDs) == 0 {
		return decimal.Zero, nil
	}
	buySet := newIDSet(rule.BuyProductIDs)
	bought := decimal.Zero
	for _, line := range lines {
		if buySet.matchesLine(line) {
			bought = bought.Add(line.Quantity)
		}
	}
	required := int64(rule.BuyQty)
	if rule.SameProduct {
		required = int64(rule.BuyQty + rule.GetQty)
	}
	// Whole sellable units only: fractional remainders never qualify.
	timesApplied := bought.Floor().IntPart() / required
	freeQty := timesApplied * int64(rule.GetQty)
	if freeQty <= 0 {
		return decimal.Zero, nil
	}

	getSet := buySet
	if !rule.SameProduct {
		getSet = newIDSet(rule.GetProductIDs)
		if len(getSet) == 0 {
			return decimal.Zero, nil
		}
	}
	candidates := make([]Line, 0, len(lines))
	for _, line := range lines {
		if getSet.matchesLine(line) {
			candidates = append(candidates, line)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UnitPrice.LessThan(candidates[j].UnitPrice)
	})

	remaining := decimal.NewFromInt(freeQty)
	total := decimal.Zero
	var records []LineDiscount
	for _, line := range candidates {
		if !remaining.IsPositive() {
			break
		}
		qty := decimal.Min(line.Quantity, remaining)
		if !qty.IsPositive() {
			continue
		}
		var amount decimal.Decimal
		switch rule.DiscountType {
		case GrantFree:
			amount = line.UnitPrice.Mul(qty)
		case GrantPercent:
			amount = line.UnitPrice.Mul(qty).Mul(rule.DiscountValue).Div(hundred)
		case GrantFixed:
			amount = rule.DiscountValue.Mul(qty)
		default:
			return decimal.Zero, nil
		}
		remaining = remaining.Sub(qty)
		amount = round2(amount)
		if !amount.IsPositive() {
			continue
		}
		total = total.Add(amount)
		records = append(records, LineDiscount{
			ItemID:    line.ItemID,
			ProductID: line.ProductID,
			Amount:    amount,
			OfferID:   offer.ID,
			OfferName: offer.Name,
		})
	}
	return total, records
}
