package business_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

func samplePackage() business.Package {
	return business.Package{
		CartID:  "cart-1",
		OrderID: "1001",
		Origin:  business.Address{Street1: "1 Warehouse Way", City: "Austin", State: "TX", Zip5: "78701"},
		Destination: business.Address{
			Street1: "123 Main Street", City: "Houston", State: "TX", Zip5: "77002",
		},
		Items: []business.CartItem{
			{
				Index:      0,
				Ref:        business.ItemRef{Kind: business.ItemKindProduct, ProductID: 55},
				TIC:        constants.TICGeneral,
				PriceCents: 1999,
				Qty:        2,
			},
			{
				Index:      1,
				Ref:        business.ItemRef{Kind: business.ItemKindShipping, Name: "flat_rate"},
				TIC:        constants.TICShipping,
				PriceCents: 500,
				Qty:        1,
			},
		},
		ShippingMethod: &business.ShippingLine{MethodID: "flat_rate", CostCents: 500},
	}
}

func TestNormalizedHashIgnoresCorrelationAndPayloads(t *testing.T) {
	a := samplePackage()

	b := samplePackage()
	b.CartID = "cart-2"
	b.OrderID = "1001-1"
	b.RawRequest = json.RawMessage(`{"some":"request"}`)
	b.RawResponse = json.RawMessage(`{"some":"response"}`)

	assert.Equal(t, a.NormalizedHash(), b.NormalizedHash())
}

func TestNormalizedHashIgnoresItemOrder(t *testing.T) {
	a := samplePackage()

	b := samplePackage()
	b.Items[0], b.Items[1] = b.Items[1], b.Items[0]
	b.Items[0].Index = 0
	b.Items[1].Index = 1

	assert.Equal(t, a.NormalizedHash(), b.NormalizedHash())
}

func TestNormalizedHashIgnoresAddressFormatting(t *testing.T) {
	a := samplePackage()

	b := samplePackage()
	b.Destination.Street1 = "123 MAIN ST"
	b.Destination.City = " houston "

	assert.Equal(t, a.NormalizedHash(), b.NormalizedHash())
}

func TestNormalizedHashDiffersOnSemanticChange(t *testing.T) {
	a := samplePackage()

	tests := []struct {
		name   string
		mutate func(p *business.Package)
	}{
		{"different quantity", func(p *business.Package) { p.Items[0].Qty = 3 }},
		{"different price", func(p *business.Package) { p.Items[0].PriceCents = 2099 }},
		{"different product", func(p *business.Package) { p.Items[0].Ref.ProductID = 56 }},
		{"different destination", func(p *business.Package) { p.Destination.Zip5 = "77003" }},
		{"different shipping cost", func(p *business.Package) { p.ShippingMethod.CostCents = 700 }},
		{"certificate attached", func(p *business.Package) {
			id := "cert-9"
			p.CertificateID = &id
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := samplePackage()
			tt.mutate(&b)
			assert.NotEqual(t, a.NormalizedHash(), b.NormalizedHash())
		})
	}
}

func TestEncodeDecodePackagesRoundTrip(t *testing.T) {
	pkgs := []business.Package{samplePackage()}

	raw, err := business.EncodePackages(pkgs)
	require.NoError(t, err)

	decoded, err := business.DecodePackages(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, pkgs[0].CartID, decoded[0].CartID)
	assert.Equal(t, pkgs[0].NormalizedHash(), decoded[0].NormalizedHash())
}

func TestDecodePackagesEmpty(t *testing.T) {
	decoded, err := business.DecodePackages(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodePackagesMigratesLegacyFormat(t *testing.T) {
	legacy := json.RawMessage(`[
		{
			"CartID": "legacy-cart",
			"OrderID": "2002",
			"Origin": {"Address1": "1 Warehouse Way", "City": "Austin", "State": "TX", "Zip5": "78701"},
			"Destination": {"Address1": "123 Main St", "City": "Houston", "State": "TX", "Zip5": "77002"},
			"Items": [
				{"Index": 0, "ItemID": "55", "TIC": "00000", "Price": 19.99, "Qty": 2},
				{"Index": 1, "ItemID": "SHIPPING", "TIC": "11010", "Price": 5.00, "Qty": 1},
				{"Index": 2, "ItemID": "gift-wrap", "TIC": "10010", "Price": 2.50, "Qty": 1}
			],
			"CertificateID": "cert-7"
		}
	]`)

	decoded, err := business.DecodePackages(legacy)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	pkg := decoded[0]
	assert.Equal(t, "legacy-cart", pkg.CartID)
	assert.Equal(t, "2002", pkg.OrderID)
	assert.Equal(t, "Austin", pkg.Origin.City)
	assert.Equal(t, "US", pkg.Origin.Country)
	require.NotNil(t, pkg.CertificateID)
	assert.Equal(t, "cert-7", *pkg.CertificateID)

	require.Len(t, pkg.Items, 3)
	assert.Equal(t, business.ItemKindProduct, pkg.Items[0].Ref.Kind)
	assert.Equal(t, int64(55), pkg.Items[0].Ref.ProductID)
	assert.Equal(t, int64(1999), pkg.Items[0].PriceCents)
	assert.Equal(t, business.ItemKindShipping, pkg.Items[1].Ref.Kind)
	assert.Equal(t, int64(500), pkg.Items[1].PriceCents)
	assert.Equal(t, business.ItemKindFee, pkg.Items[2].Ref.Kind)
	assert.Equal(t, "gift-wrap", pkg.Items[2].Ref.Name)
	assert.Equal(t, int64(250), pkg.Items[2].PriceCents)
}

func TestDecodePackagesClassifiesDigitLeadingFeeSlug(t *testing.T) {
	legacy := json.RawMessage(`[
		{
			"CartID": "legacy-cart",
			"OrderID": "2002",
			"Origin": {"Address1": "1 Warehouse Way", "City": "Austin", "State": "TX", "Zip5": "78701"},
			"Destination": {"Address1": "123 Main St", "City": "Houston", "State": "TX", "Zip5": "77002"},
			"Items": [
				{"Index": 0, "ItemID": "2-day-handling", "TIC": "10010", "Price": 3.00, "Qty": 1}
			]
		}
	]`)

	decoded, err := business.DecodePackages(legacy)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Len(t, decoded[0].Items, 1)

	// Only a fully numeric ItemID is a product; a digit-leading fee slug
	// must keep its fee identity so refunds allocate against it.
	ref := decoded[0].Items[0].Ref
	assert.Equal(t, business.ItemKindFee, ref.Kind)
	assert.Equal(t, "2-day-handling", ref.Name)
	assert.Equal(t, "2-day-handling", ref.RefundKey())
}

func TestNormalizedHashStableForSameNamedFees(t *testing.T) {
	a := samplePackage()
	a.Fees = []business.FeeLine{
		{Name: "handling", AmountCents: 100},
		{Name: "handling", AmountCents: 300},
	}

	b := samplePackage()
	b.Fees = []business.FeeLine{
		{Name: "handling", AmountCents: 300},
		{Name: "handling", AmountCents: 100},
	}

	assert.Equal(t, a.NormalizedHash(), b.NormalizedHash())
}

func TestRefundKeyDerivation(t *testing.T) {
	tests := []struct {
		name string
		ref  business.ItemRef
		want string
	}{
		{"variation takes precedence", business.ItemRef{Kind: business.ItemKindProduct, ProductID: 10, VariationID: 42}, "42"},
		{"product without variation", business.ItemRef{Kind: business.ItemKindProduct, ProductID: 10}, "10"},
		{"shipping uses fixed token", business.ItemRef{Kind: business.ItemKindShipping, Name: "flat_rate"}, constants.ShippingRefundKey},
		{"fee uses slugified name", business.ItemRef{Kind: business.ItemKindFee, Name: "Gift Wrap (holiday)"}, "gift-wrap-holiday"},
		{"unknown kind derives nothing", business.ItemRef{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.RefundKey())
		})
	}
}
