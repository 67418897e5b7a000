package promo

import (
	"sort"

	"github.com/shopspring/decimal"
)

// applyBundle evaluates a bundle offer against the full cart. The number of
// complete bundles is bounded by the scarcest component; units are then
// allocated to concrete lines dearest first, so percent-off bundles discount
// against the largest price base. The discount is spread proportionally over
// the allocated units, one record per allocation.
func applyBundle(offer Offer, lines []Line) (decimal.Decimal, []LineDiscount) {
	rule := offer.Bundle
	if rule == nil {
		return decimal.Zero, nil
	}
	components := dedupeIDs(rule.ProductIDs)
	if len(components) == 0 {
		return decimal.Zero, nil
	}

	matched := make(map[string][]Line, len(components))
	count := decimal.Zero
	for i, pid := range components {
		qty := decimal.Zero
		var componentLines []Line
		for _, line := range lines {
			if line.ItemID == pid || line.ProductID == pid {
				componentLines = append(componentLines, line)
				qty = qty.Add(line.Quantity)
			}
		}
		matched[pid] = componentLines
		qty = qty.Floor()
		if i == 0 || qty.LessThan(count) {
			count = qty
		}
	}
	if !count.IsPositive() {
		return decimal.Zero, nil
	}

	type allocation struct {
		line Line
		qty  decimal.Decimal
	}
	var allocations []allocation
	bundleTotal := decimal.Zero
	for _, pid := range components {
		componentLines := matched[pid]
		sort.SliceStable(componentLines, func(i, j int) bool {
			return componentLines[i].UnitPrice.GreaterThan(componentLines[j].UnitPrice)
		})
		remaining := count
		for _, line := range componentLines {
			if !remaining.IsPositive() {
				break
			}
			take := decimal.Min(line.Quantity, remaining)
			if !take.IsPositive() {
				continue
			}
			remaining = remaining.Sub(take)
			allocations = append(allocations, allocation{line: line, qty: take})
			bundleTotal = bundleTotal.Add(line.UnitPrice.Mul(take))
		}
	}
	if !bundleTotal.IsPositive() {
		return decimal.Zero, nil
	}

	var total decimal.Decimal
	switch rule.PricingType {
	case BundleFixedPrice:
		total = bundleTotal.Sub(rule.Price.Mul(count))
	case BundlePercentOff:
		total = bundleTotal.Mul(rule.Percent).Div(hundred)
	default:
		return decimal.Zero, nil
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	total = round2(total)
	if !total.IsPositive() {
		return decimal.Zero, nil
	}

	records := make([]LineDiscount, 0, len(allocations))
	for _, alloc := range allocations {
		share := round2(total.Mul(alloc.line.UnitPrice.Mul(alloc.qty)).Div(bundleTotal))
		if !share.IsPositive() {
			continue
		}
		records = append(records, LineDiscount{
			ItemID:    alloc.line.ItemID,
			ProductID: alloc.line.ProductID,
			Amount:    share,
			OfferID:   offer.ID,
			OfferName: offer.Name,
		})
	}
	return total, records
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
