package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/calc"
	"github.com/rs/zerolog/log"
)

type CartService struct {
	backend   BackendClient
	registry  *StateRegistry
	pricing   *PricingAggregator
	quoter    *DeliveryQuoter
	debouncer *Debouncer
	metrics   *metrics.Metrics
}

// NewCartService takes the quoter shared with the checkout; it may be nil when delivery charges never change.
func NewCartService(backend BackendClient, registry *StateRegistry, pricing *PricingAggregator, quoter *DeliveryQuoter, debouncer *Debouncer, m *metrics.Metrics) *CartService {
	return &CartService{
		backend:   backend,
		registry:  registry,
		pricing:   pricing,
		quoter:    quoter,
		debouncer: debouncer,
		metrics:   m,
	}
}

func quantityKey(sessionID, variantID string) string {
	return sessionID + ":" + variantID
}

// applyCart replaces the cart wholesale. An empty cart sends an unfinished checkout back to the cart step,
// otherwise a changed order total is requoted for delivery.
func (s *CartService) applyCart(ctx context.Context, st *AppState, cart *models.Cart) {
	st.Cart = cart
	if cart.IsEmpty() && st.Checkout.Step != models.StepCompleted && st.Checkout.Step != models.StepCart {
		log.Info().Str("session_id", st.ID).Str("from", st.Checkout.Step.String()).Msg("cart emptied, checkout reset")
		st.Checkout.Reset()
		st.Pending = nil
		st.QuotedTotal = nil
	}
	if s.quoter != nil {
		s.quoter.Requote(ctx, st)
	}
	s.pricing.Recompute(st)
}

// Refresh must be called with st locked.
func (s *CartService) Refresh(ctx context.Context, st *AppState) error {
	cart, err := s.backend.GetCart(ctx)
	if err != nil {
		log.Error().Err(err).Str("session_id", st.ID).Msg("failed to fetch cart")
		return backendFailure("could not load cart", err)
	}
	s.applyCart(ctx, st, cart)
	return s.registry.Persist(ctx, st)
}

func (s *CartService) AddItem(ctx context.Context, st *AppState, variantID string, qty int, addOns []models.AddOn) error {
	if st.Checkout.Step == models.StepCompleted {
		return terminalError()
	}
	if qty < 1 {
		return validationError("quantity must be at least 1")
	}

	target := qty
	if existing := st.Cart.Item(variantID); existing != nil {
		target += existing.Qty
		if maxQty := existing.MaxQty(); maxQty > 0 && target > maxQty {
			return validationError(fmt.Sprintf("only %d of %s allowed per order", maxQty, existing.Name))
		}
		if len(addOns) == 0 {
			addOns = existing.AddOns
		}
	}
	s.debouncer.Cancel(quantityKey(st.ID, variantID))

	if err := s.backend.ManageCart(ctx, variantID, target, addOns); err != nil {
		log.Warn().Err(err).Str("session_id", st.ID).Str("variant_id", variantID).Msg("add to cart rejected")
		return backendFailure("could not add item to cart", err)
	}
	return s.Refresh(ctx, st)
}

func (s *CartService) RemoveItem(ctx context.Context, st *AppState, variantID string) error {
	if st.Checkout.Step == models.StepCompleted {
		return terminalError()
	}
	if st.Cart.Item(variantID) == nil {
		return validationError("item is not in the cart")
	}
	s.debouncer.Cancel(quantityKey(st.ID, variantID))

	if err := s.backend.RemoveFromCart(ctx, variantID); err != nil {
		log.Warn().Err(err).Str("session_id", st.ID).Str("variant_id", variantID).Msg("remove from cart failed")
		return backendFailure("could not remove item from cart", err)
	}
	return s.Refresh(ctx, st)
}

// ChangeQuantity edits the item in place and schedules one trailing backend update per item.
// It returns the sequence number of the scheduled request.
func (s *CartService) ChangeQuantity(ctx context.Context, st *AppState, variantID string, qty int) (uint64, error) {
	if st.Checkout.Step == models.StepCompleted {
		return 0, terminalError()
	}
	item := st.Cart.Item(variantID)
	if item == nil {
		return 0, validationError("item is not in the cart")
	}
	if minQty := item.MinQty(); qty < minQty {
		return 0, validationError(fmt.Sprintf("minimum order quantity for %s is %d", item.Name, minQty))
	}
	if maxQty := item.MaxQty(); maxQty > 0 && qty > maxQty {
		return 0, validationError(fmt.Sprintf("only %d of %s allowed per order", maxQty, item.Name))
	}

	item.Qty = qty
	st.Cart.SubTotal = calc.SubTotal(st.Cart.CartItems)
	if !st.Cart.TaxPercent.IsZero() {
		st.Cart.TaxAmount = calc.CalculateTax(st.Cart.SubTotal, st.Cart.TaxPercent)
	}
	s.pricing.Recompute(st)

	addOns := append([]models.AddOn(nil), item.AddOns...)
	token := BearerToken(ctx)
	key := quantityKey(st.ID, variantID)
	seq := s.debouncer.Schedule(key, func(seq uint64) {
		s.flushQuantity(st, token, key, variantID, qty, addOns, seq)
	})
	return seq, nil
}

func (s *CartService) flushQuantity(st *AppState, token, key, variantID string, qty int, addOns []models.AddOn, seq uint64) {
	ctx := WithBearerToken(context.Background(), token)
	logger := log.With().Str("session_id", st.ID).Str("variant_id", variantID).Uint64("seq", seq).Logger()

	updateErr := s.backend.ManageCart(ctx, variantID, qty, addOns)
	cart, fetchErr := s.backend.GetCart(ctx)

	st.Lock()
	defer st.Unlock()

	if !s.debouncer.IsLatest(key, seq) {
		logger.Debug().Msg("stale quantity response dropped")
		s.metrics.QuantityUpdate("superseded")
		return
	}

	if updateErr != nil {
		logger.Warn().Err(updateErr).Int("qty", qty).Msg("quantity update rejected")
		s.metrics.QuantityUpdate("failed")
		st.AddNotice(KindRemote, backendFailure("could not update quantity", updateErr).Message)
	} else {
		s.metrics.QuantityUpdate("applied")
	}

	if fetchErr != nil {
		logger.Error().Err(fetchErr).Msg("failed to refetch cart after quantity update")
		st.AddNotice(KindRemote, backendFailure("could not refresh cart", fetchErr).Message)
		return
	}
	s.applyCart(ctx, st, cart)
	if err := s.registry.Persist(ctx, st); err != nil {
		logger.Error().Err(err).Msg("failed to persist checkout session")
	}
}
