package services

import (
	"testing"

	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeIsTotalAndIdempotent(t *testing.T) {
	cart := lunchCart()
	st := NewAppState("s")
	st.Cart = &cart
	st.Checkout.Delivery.DeliveryCharge = decimal.NewFromInt(15)
	st.Checkout.Delivery.Tip = decimal.NewFromInt(5)
	st.Checkout.Promo = &models.PromoCode{Code: "P", FinalDiscount: decimal.NewFromInt(20)}

	p := NewPricingAggregator(fixedClock("12:00:00"), metrics.New(prometheus.NewRegistry()))
	p.Recompute(st)
	first := st.Payable
	p.Recompute(st)

	assert.True(t, first.Equal(decimal.NewFromInt(110)))
	assert.True(t, st.Payable.Equal(first))
	assert.True(t, st.Availability.OK())

	st.Checkout.Delivery.IsFreeDelivery = true
	p.Recompute(st)
	assert.True(t, st.Payable.Equal(decimal.NewFromInt(95)))

	st.Checkout.Delivery.Mode = models.DeliveryModeSelfPickup
	st.Checkout.Delivery.Tip = decimal.NewFromInt(50)
	p.Recompute(st)
	assert.True(t, st.Payable.Equal(decimal.NewFromInt(90)))
}

func TestRecomputeReevaluatesAvailabilityWithClock(t *testing.T) {
	cart := lunchCart()
	st := NewAppState("s")
	st.Cart = &cart

	NewPricingAggregator(fixedClock("09:00:00"), nil).Recompute(st)
	assert.False(t, st.Availability.AllAvailable)

	NewPricingAggregator(fixedClock("12:00:00"), nil).Recompute(st)
	assert.True(t, st.Availability.AllAvailable)
}

func TestOrderTotalForSubtractsPromo(t *testing.T) {
	cart := lunchCart()
	st := NewAppState("s")
	st.Cart = &cart
	st.Checkout.Promo = &models.PromoCode{Code: "P", FinalDiscount: decimal.NewFromInt(20)}

	assert.True(t, OrderTotalFor(st).Equal(decimal.NewFromInt(90)))
}
