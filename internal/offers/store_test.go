package offers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/promo"
)

func TestDecodeRuleBuyXGetY(t *testing.T) {
	o := promo.Offer{Type: promo.TypeBuyXGetY}
	decodeRule(&o, []byte(`{"buyProductIds":["sku-1"],"buyQty":2,"getQty":1,"sameProduct":true,"discountType":"free"}`))

	require.NotNil(t, o.BuyXGetY)
	require.Equal(t, 2, o.BuyXGetY.BuyQty)
	require.True(t, o.BuyXGetY.SameProduct)
	require.Equal(t, promo.GrantFree, o.BuyXGetY.DiscountType)
}

func TestDecodeRuleBundle(t *testing.T) {
	o := promo.Offer{Type: promo.TypeBundle}
	decodeRule(&o, []byte(`{"productIds":["a","b"],"pricingType":"fixed_price","price":"35"}`))

	require.NotNil(t, o.Bundle)
	require.Equal(t, []string{"a", "b"}, o.Bundle.ProductIDs)
	require.True(t, o.Bundle.Price.Equal(decimal.RequireFromString("35")))
}

func TestDecodeRuleMalformedPayloadLeavesOfferBare(t *testing.T) {
	o := promo.Offer{Type: promo.TypeBuyXGetY}
	decodeRule(&o, []byte(`{"buyQty":"not a number"`))
	require.Nil(t, o.BuyXGetY)

	o = promo.Offer{Type: promo.TypeBundle}
	decodeRule(&o, []byte(`[]`))
	require.Nil(t, o.Bundle)
}

func TestDecodeRuleIgnoredForScalarVariants(t *testing.T) {
	o := promo.Offer{Type: promo.TypePercentage}
	decodeRule(&o, []byte(`{"buyQty":2}`))
	require.Nil(t, o.BuyXGetY)
	require.Nil(t, o.Bundle)
}

func TestEncodeRuleRoundTrip(t *testing.T) {
	o := promo.Offer{
		Type: promo.TypeBundle,
		Bundle: &promo.BundleRule{
			ProductIDs:  []string{"a", "b"},
			PricingType: promo.BundlePercentOff,
			Percent:     decimal.RequireFromString("10"),
		},
	}
	raw, err := encodeRule(o)
	require.NoError(t, err)

	decoded := promo.Offer{Type: promo.TypeBundle}
	decodeRule(&decoded, raw)
	require.NotNil(t, decoded.Bundle)
	require.Equal(t, promo.BundlePercentOff, decoded.Bundle.PricingType)
	require.True(t, decoded.Bundle.Percent.Equal(decimal.RequireFromString("10")))
}

func TestEncodeRuleEmptyForScalarVariants(t *testing.T) {
	raw, err := encodeRule(promo.Offer{Type: promo.TypeFixed})
	require.NoError(t, err)
	require.Nil(t, raw)
}
