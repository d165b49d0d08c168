package calc

import (
	"testing"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func deliveryInput() PricingInput {
	return PricingInput{
		SubTotal:       d("100"),
		TaxAmount:      d("10"),
		PromoActive:    true,
		PromoDiscount:  d("20"),
		Tip:            d("5"),
		DeliveryMode:   models.DeliveryModeDelivery,
		DeliveryCharge: d("15"),
	}
}

func TestCalculatePayableDelivery(t *testing.T) {
	got := CalculatePayable(deliveryInput())
	assert.True(t, got.Equal(d("110")), "got %s", got)
}

func TestCalculatePayableSumsEveryComponent(t *testing.T) {
	cases := []struct {
		sub, tax, promo, tip, charge string
	}{
		{"0", "0", "0", "0", "0"},
		{"12.50", "1.25", "0", "2", "3.75"},
		{"999.99", "120", "100", "0", "45.10"},
		{"40", "4.8", "44.8", "10", "0"},
	}
	for _, tc := range cases {
		in := PricingInput{
			SubTotal:       d(tc.sub),
			TaxAmount:      d(tc.tax),
			PromoActive:    true,
			PromoDiscount:  d(tc.promo),
			Tip:            d(tc.tip),
			DeliveryMode:   models.DeliveryModeDelivery,
			DeliveryCharge: d(tc.charge),
		}
		want := d(tc.sub).Add(d(tc.tax)).Sub(d(tc.promo)).Add(d(tc.tip)).Add(d(tc.charge))
		got := CalculatePayable(in)
		assert.True(t, got.Equal(want), "inputs %+v: want %s got %s", tc, want, got)
	}
}

func TestCalculatePayableFreeDelivery(t *testing.T) {
	in := deliveryInput()
	in.IsFreeDelivery = true

	got := CalculatePayable(in)
	assert.True(t, got.Equal(d("95")), "got %s", got)
}

func TestCalculatePayableSelfPickupIgnoresTipAndCharge(t *testing.T) {
	in := deliveryInput()
	in.DeliveryMode = models.DeliveryModeSelfPickup
	in.Tip = d("50")

	got := CalculatePayable(in)
	assert.True(t, got.Equal(d("90")), "got %s", got)
}

func TestCalculatePayableInactivePromoIgnoresDiscount(t *testing.T) {
	in := deliveryInput()
	in.PromoActive = false

	got := CalculatePayable(in)
	assert.True(t, got.Equal(d("130")), "got %s", got)
}

func TestCalculatePayableIsIdempotent(t *testing.T) {
	in := deliveryInput()
	first := CalculatePayable(in)
	second := CalculatePayable(in)
	assert.True(t, first.Equal(second))
	assert.True(t, in.SubTotal.Equal(d("100")))
}

func TestTotalPayableNeverNegative(t *testing.T) {
	in := deliveryInput()
	in.PromoDiscount = d("1000")

	raw := CalculatePayable(in)
	require.True(t, raw.IsNegative())
	assert.True(t, TotalPayable(raw).IsZero())
	assert.True(t, TotalPayable(d("12.5")).Equal(d("12.5")))
}

func TestUnitPrice(t *testing.T) {
	assert.True(t, UnitPrice(d("10"), d("8")).Equal(d("8")))
	assert.True(t, UnitPrice(d("10"), d("0")).Equal(d("10")))
	assert.True(t, UnitPrice(d("10"), d("12")).Equal(d("10")))
}

func TestLineTotalIncludesAddOnsPerQuantity(t *testing.T) {
	item := models.CartItem{
		Qty:          3,
		Price:        d("10"),
		SpecialPrice: d("9"),
		AddOns: []models.AddOn{
			{ID: "a1", Price: d("1.5")},
			{ID: "a2", Price: d("0.5")},
		},
	}
	assert.True(t, LineTotal(item).Equal(d("33")), "got %s", LineTotal(item))

	items := []models.CartItem{item, {Qty: 2, Price: d("4")}}
	assert.True(t, SubTotal(items).Equal(d("41")))
}

func TestCalculateTax(t *testing.T) {
	assert.True(t, CalculateTax(d("100"), d("12")).Equal(d("12")))
	assert.True(t, CalculateTax(d("100"), decimal.Zero).IsZero())
	assert.True(t, CalculateDiscount(d("200"), d("10")).Equal(d("20")))
}
