package promo

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate computes the discount the given offers yield against the cart
// snapshot. Offers are processed in the order supplied by the caller, never
// re-sorted: when several offers touch the same line their allocation order
// is part of the contract. Offers that are inactive, outside their time
// window, below their minimum purchase, or structurally malformed contribute
// nothing and are left out of Applied. The aggregate discount is clamped at
// the cart subtotal; per-line records keep their raw amounts when the clamp
// engages.
func Evaluate(lines []Line, offers []Offer, now time.Time) Result {
	res := Result{TotalDiscount: decimal.Zero}
	subtotal := Subtotal(lines)
	for _, offer := range offers {
		if !offer.ActiveAt(now) {
			continue
		}
		eligible := eligibleLines(lines, offer)
		eligibleAmount := Subtotal(eligible)
		if offer.MinPurchase != nil && eligibleAmount.LessThan(*offer.MinPurchase) {
			continue
		}
		var (
			amount  decimal.Decimal
			records []LineDiscount
		)
		switch offer.Type {
		case TypePercentage, TypeFixed, TypeCategoryDiscount:
			amount = proportionalTotal(offer, eligibleAmount)
			records = allocateProportional(offer, eligible, eligibleAmount, amount)
		case TypeBuyXGetY:
			amount, records = applyBuyXGetY(offer, lines)
		case TypeBundle:
			amount, records = applyBundle(offer, lines)
		default:
			continue
		}
		if amount.IsPositive() {
			res.TotalDiscount = res.TotalDiscount.Add(amount)
			res.Applied = append(res.Applied, offer)
			res.Lines = append(res.Lines, records...)
		}
	}
	if res.TotalDiscount.GreaterThan(subtotal) {
		res.TotalDiscount = subtotal
	}
	return res
}

// Subtotal sums unit price times quantity across the given lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

// eligibleLines narrows the cart to the lines the offer's scope acts on.
// An unknown or unset scope matches nothing.
func eligibleLines(lines []Line, offer Offer) []Line {
	switch offer.ApplicableOn {
	case ScopeAll:
		return lines
	case ScopeCategory:
		if offer.CategoryID == "" {
			return nil
		}
		var out []Line
		for _, l := range lines {
			if l.CategoryID == offer.CategoryID {
				out = append(out, l)
			}
		}
		return out
	case ScopeProduct:
		set := newIDSet(offer.ProductIDs)
		if len(set) == 0 {
			return nil
		}
		var out []Line
		for _, l := range lines {
			if set.matchesLine(l) {
				out = append(out, l)
			}
		}
		return out
	}
	return nil
}

// proportionalTotal computes the offer-level amount for the percentage,
// fixed and category_discount family. Percentage-style offers honour
// MaxDiscount; fixed offers never exceed the eligible amount itself.
func proportionalTotal(offer Offer, eligibleAmount decimal.Decimal) decimal.Decimal {
	if !eligibleAmount.IsPositive() {
		return decimal.Zero
	}
	var total decimal.Decimal
	switch offer.Type {
	case TypePercentage, TypeCategoryDiscount:
		total = eligibleAmount.Mul(offer.Value).Div(hundred)
		if offer.MaxDiscount != nil && total.GreaterThan(*offer.MaxDiscount) {
			total = *offer.MaxDiscount
		}
	case TypeFixed:
		total = decimal.Min(offer.Value, eligibleAmount)
	default:
		return decimal.Zero
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return round2(total)
}

// allocateProportional distributes the offer total across eligible lines in
// proportion to each line's share of the eligible amount. Shares for the
// same item are merged into a single record per offer.
func allocateProportional(offer Offer, eligible []Line, eligibleAmount, total decimal.Decimal) []LineDiscount {
	if !total.IsPositive() || !eligibleAmount.IsPositive() {
		return nil
	}
	records := make([]LineDiscount, 0, len(eligible))
	index := make(map[string]int, len(eligible))
	for _, line := range eligible {
		share := round2(total.Mul(line.Amount()).Div(eligibleAmount))
		if !share.IsPositive() {
			continue
		}
		if i, ok := index[line.ItemID]; ok {
			records[i].Amount = records[i].Amount.Add(share)
			continue
		}
		index[line.ItemID] = len(records)
		records = append(records, LineDiscount{
			ItemID:    line.ItemID,
			ProductID: line.ProductID,
			Amount:    share,
			OfferID:   offer.ID,
			OfferName: offer.Name,
		})
	}
	return records
}

// round2 applies half-up rounding to two decimal places at the point of
// allocation. Summed records may therefore drift from the offer total by a
// few cents; the aggregate is authoritative.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

type idSet map[string]struct{}

func newIDSet(ids []string) idSet {
	set := make(idSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// matchesLine reports whether the line sells one of the set's products,
// either directly or through its parent product.
func (s idSet) matchesLine(l Line) bool {
	if s.has(l.ItemID) {
		return true
	}
	return l.ProductID != "" && s.has(l.ProductID)
}
