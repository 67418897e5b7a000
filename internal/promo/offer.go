package promo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status mirrors the lifecycle state stored on an offer.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusScheduled Status = "scheduled"
)

// Scope controls which cart lines an offer may act on.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeCategory Scope = "category"
	ScopeProduct  Scope = "product"
)

// Type discriminates the offer variants understood by the engine.
type Type string

const (
	TypePercentage       Type = "percentage"
	TypeFixed            Type = "fixed"
	TypeCategoryDiscount Type = "category_discount"
	TypeBuyXGetY         Type = "buy_x_get_y"
	TypeBundle           Type = "bundle"
)

// GrantKind selects how buy-X-get-Y grants price the granted units.
type GrantKind string

const (
	GrantFree    GrantKind = "free"
	GrantPercent GrantKind = "percent"
	GrantFixed   GrantKind = "fixed"
)

// BundlePricing selects how a completed bundle is priced.
type BundlePricing string

const (
	BundleFixedPrice BundlePricing = "fixed_price"
	BundlePercentOff BundlePricing = "percent"
)

// BuyXGetYRule is the variant payload carried by buy-X-get-Y offers.
// GetProductIDs is consulted only when SameProduct is false.
type BuyXGetYRule struct {
	BuyProductIDs []string        `json:"buyProductIds"`
	GetProductIDs []string        `json:"getProductIds,omitempty"`
	BuyQty        int             `json:"buyQty"`
	GetQty        int             `json:"getQty"`
	SameProduct   bool            `json:"sameProduct"`
	DiscountType  GrantKind       `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// BundleRule is the variant payload carried by bundle offers.
type BundleRule struct {
	ProductIDs  []string        `json:"productIds"`
	PricingType BundlePricing   `json:"pricingType"`
	Price       decimal.Decimal `json:"price"`
	Percent     decimal.Decimal `json:"percent"`
}

// Offer is one promotional rule presented to the engine. Exactly one variant
// payload is expected to be populated for buy_x_get_y and bundle offers; the
// percentage, fixed and category_discount variants carry their amount in
// Value. Offers are read-only inputs: the engine never mutates them.
type Offer struct {
	ID           string
	Name         string
	Type         Type
	Status       Status
	ApplicableOn Scope
	CategoryID   string
	ProductIDs   []string
	MinPurchase  *decimal.Decimal
	MaxDiscount  *decimal.Decimal
	Value        decimal.Decimal
	BuyXGetY     *BuyXGetYRule
	Bundle       *BundleRule
	StartsAt     time.Time
	EndsAt       time.Time
}

// ActiveAt reports whether the offer may discount anything at the given
// instant. Zero boundary times leave that side of the window open.
func (o Offer) ActiveAt(now time.Time) bool {
	if o.Status != StatusActive {
		return false
	}
	if !o.StartsAt.IsZero() && now.Before(o.StartsAt) {
		return false
	}
	if !o.EndsAt.IsZero() && now.After(o.EndsAt) {
		return false
	}
	return true
}

// Line is one priced, quantified entry of the cart snapshot under
// evaluation. ProductID carries the parent product when ItemID refers to a
// sellable variant; offers may target either identity.
type Line struct {
	ItemID     string
	ProductID  string
	CategoryID string
	UnitPrice  decimal.Decimal
	Quantity   decimal.Decimal
}

// Amount returns the line total before any discount.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// LineDiscount attributes part of an offer's discount to a single cart line.
type LineDiscount struct {
	ItemID    string
	ProductID string
	Amount    decimal.Decimal
	OfferID   string
	OfferName string
}

// Result is the outcome of one evaluation pass.
type Result struct {
	TotalDiscount decimal.Decimal
	Applied       []Offer
	Lines         []LineDiscount
}
