package services

import (
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/calc"
	"github.com/shopspring/decimal"
)

// PricingAggregator republishes the payable amount and the availability report.
// Every mutation of cart or checkout state ends with a call to Recompute.
type PricingAggregator struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewPricingAggregator(now func() time.Time, m *metrics.Metrics) *PricingAggregator {
	if now == nil {
		now = time.Now
	}
	return &PricingAggregator{now: now, metrics: m}
}

func PricingInputFor(st *AppState) calc.PricingInput {
	c := st.Checkout
	in := calc.PricingInput{
		SubTotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		PromoActive:    c.Promo != nil,
		PromoDiscount:  c.PromoDiscount(),
		Tip:            c.Delivery.Tip,
		DeliveryMode:   c.Delivery.Mode,
		DeliveryCharge: c.Delivery.DeliveryCharge,
		IsFreeDelivery: c.Delivery.IsFreeDelivery,
	}
	if st.Cart != nil {
		in.SubTotal = st.Cart.SubTotal
		in.TaxAmount = st.Cart.TaxAmount
	}
	return in
}

// Recompute must be called with st locked. It derives everything from scratch.
func (p *PricingAggregator) Recompute(st *AppState) {
	payable := calc.CalculatePayable(PricingInputFor(st))
	st.Payable = payable
	st.TotalPayable = calc.TotalPayable(payable)

	var items []models.CartItem
	if st.Cart != nil {
		items = st.Cart.CartItems
	}
	st.Availability = CheckAvailability(items, p.now())
	p.metrics.PricingRecompute()
}

// OrderTotalFor is the amount delivery charges and promo codes are priced against.
func OrderTotalFor(st *AppState) decimal.Decimal {
	in := PricingInputFor(st)
	return calc.OrderTotal(in.SubTotal, in.TaxAmount, st.Checkout.PromoDiscount())
}
