package services

import (
	"context"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DeliveryQuoter fetches delivery charges for the selected address, going through the cache first.
type DeliveryQuoter struct {
	backend BackendClient
	cache   DeliveryChargeCache
}

func NewDeliveryQuoter(backend BackendClient, cache DeliveryChargeCache) *DeliveryQuoter {
	if cache == nil {
		cache = noopDeliveryChargeCache{}
	}
	return &DeliveryQuoter{backend: backend, cache: cache}
}

// Quote prices delivery to addressID for the current order total. It does not touch st.
func (q *DeliveryQuoter) Quote(ctx context.Context, st *AppState, addressID string) (*DeliveryQuote, decimal.Decimal, error) {
	total := OrderTotalFor(st)
	if quote, ok := q.cache.Get(ctx, addressID, total); ok {
		return quote, total, nil
	}
	charge, free, err := q.backend.GetDeliveryCharges(ctx, addressID, total)
	if err != nil {
		return nil, total, err
	}
	quote := DeliveryQuote{Charge: charge, IsFree: free}
	q.cache.Set(ctx, addressID, total, quote)
	return &quote, total, nil
}

// Requote refreshes the charge when the order total moved since the last quote.
// A failure keeps the previous charge and queues a notice. Must be called with st locked.
func (q *DeliveryQuoter) Requote(ctx context.Context, st *AppState) {
	addr := st.Checkout.Delivery.Address
	if addr == nil || !st.Checkout.Delivery.IsDelivery() || st.Checkout.Step == models.StepCompleted {
		return
	}
	if st.QuotedTotal != nil && st.QuotedTotal.Equal(OrderTotalFor(st)) {
		return
	}

	quote, total, err := q.Quote(ctx, st, addr.ID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", st.ID).Str("address_id", addr.ID).Msg("delivery charge requote failed")
		st.AddNotice(KindRemote, backendFailure("could not update delivery charges", err).Message)
		return
	}
	st.Checkout.Delivery.DeliveryCharge = quote.Charge
	st.Checkout.Delivery.IsFreeDelivery = quote.IsFree
	st.QuotedTotal = &total
}
