package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/calc"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CheckoutService drives the wizard. Every method expects st to be locked by the caller
// and leaves Checkout.Step untouched when it returns an error.
type CheckoutService struct {
	backend         BackendClient
	registry        *StateRegistry
	pricing         *PricingAggregator
	payments        *PaymentService
	quoter          *DeliveryQuoter
	debouncer       *Debouncer
	metrics         *metrics.Metrics
	settingsTimeout time.Duration

	background sync.WaitGroup
}

type CheckoutDeps struct {
	Backend         BackendClient
	Registry        *StateRegistry
	Pricing         *PricingAggregator
	Payments        *PaymentService
	DeliveryCache   DeliveryChargeCache
	Quoter          *DeliveryQuoter // defaults to one built from Backend and DeliveryCache
	Debouncer       *Debouncer      // the cart service's, so Abandon can cancel pending updates
	Metrics         *metrics.Metrics
	SettingsTimeout time.Duration
}

func NewCheckoutService(deps CheckoutDeps) *CheckoutService {
	if deps.Quoter == nil {
		deps.Quoter = NewDeliveryQuoter(deps.Backend, deps.DeliveryCache)
	}
	if deps.Payments == nil {
		deps.Payments = NewPaymentService(nil)
	}
	if deps.SettingsTimeout <= 0 {
		deps.SettingsTimeout = 10 * time.Second
	}
	return &CheckoutService{
		backend:         deps.Backend,
		registry:        deps.Registry,
		pricing:         deps.Pricing,
		payments:        deps.Payments,
		quoter:          deps.Quoter,
		debouncer:       deps.Debouncer,
		metrics:         deps.Metrics,
		settingsTimeout: deps.SettingsTimeout,
	}
}

func (s *CheckoutService) reject(st *AppState, err *CheckoutError) error {
	log.Info().Str("session_id", st.ID).Str("step", st.Checkout.Step.String()).Str("kind", string(err.Kind)).Msg(err.Message)
	s.metrics.RejectedTransition(string(err.Kind))
	return err
}

// commit applies change, republishes the payable and saves the snapshot. When the snapshot
// cannot be saved the checkout is put back as it was before change ran.
func (s *CheckoutService) commit(ctx context.Context, st *AppState, change func(c *models.CheckoutState)) error {
	prev, prevQuoted := st.Checkout, st.QuotedTotal
	change(&st.Checkout)
	s.pricing.Recompute(st)

	if err := s.registry.Persist(ctx, st); err != nil {
		log.Error().Err(err).Str("session_id", st.ID).Msg("checkout change rolled back")
		st.Checkout, st.QuotedTotal = prev, prevQuoted
		s.pricing.Recompute(st)
		return err
	}
	return nil
}

func (s *CheckoutService) moveTo(ctx context.Context, st *AppState, to models.Step) error {
	from := st.Checkout.Step
	if err := s.commit(ctx, st, func(c *models.CheckoutState) { c.Step = to }); err != nil {
		return err
	}
	s.metrics.StepTransition(from.String(), to.String())
	log.Info().Str("session_id", st.ID).Str("from", from.String()).Str("to", to.String()).Msg("checkout step changed")
	return nil
}

func (s *CheckoutService) Next(ctx context.Context, st *AppState) error {
	s.pricing.Recompute(st)

	switch st.Checkout.Step {
	case models.StepCart:
		if st.Cart.IsEmpty() {
			return s.reject(st, &CheckoutError{Kind: KindValidation, Message: "your cart is empty", Cause: ErrEmptyCart})
		}
		if strings.TrimSpace(st.Checkout.Contact.Mobile) == "" {
			return s.reject(st, validationError("please add a mobile number to continue"))
		}
		if !st.Availability.OK() {
			return s.reject(st, availabilityError(st.Availability))
		}
		if st.Checkout.Delivery.IsDelivery() {
			return s.moveTo(ctx, st, models.StepAddress)
		}
		return s.moveTo(ctx, st, models.StepPayment)
	case models.StepAddress:
		if st.Checkout.Delivery.Address == nil {
			return s.reject(st, validationError("please select a delivery address"))
		}
		return s.moveTo(ctx, st, models.StepPayment)
	case models.StepPayment:
		return s.reject(st, validationError("place the order to continue"))
	case models.StepCompleted:
		return s.reject(st, terminalError())
	}
	return s.reject(st, validationError("unknown checkout step"))
}

func (s *CheckoutService) Back(ctx context.Context, st *AppState) error {
	switch st.Checkout.Step {
	case models.StepCart:
		return s.reject(st, validationError("already at the first step"))
	case models.StepAddress:
		return s.moveTo(ctx, st, models.StepCart)
	case models.StepPayment:
		if st.Checkout.Delivery.IsDelivery() {
			return s.moveTo(ctx, st, models.StepAddress)
		}
		return s.moveTo(ctx, st, models.StepCart)
	case models.StepCompleted:
		return s.reject(st, terminalError())
	}
	return s.reject(st, validationError("unknown checkout step"))
}

func (s *CheckoutService) SetDeliveryMode(ctx context.Context, st *AppState, mode models.DeliveryMode) error {
	switch st.Checkout.Step {
	case models.StepCompleted:
		return s.reject(st, terminalError())
	case models.StepCart:
	default:
		return s.reject(st, validationError("delivery mode can only be changed on the cart step"))
	}
	if _, err := models.ParseDeliveryMode(string(mode)); err != nil {
		return s.reject(st, validationError(err.Error()))
	}

	return s.commit(ctx, st, func(c *models.CheckoutState) { c.Delivery.Mode = mode })
}

func (s *CheckoutService) SetContact(ctx context.Context, st *AppState, mobile string) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return s.reject(st, validationError("mobile number is required"))
	}
	return s.commit(ctx, st, func(c *models.CheckoutState) { c.Contact.Mobile = mobile })
}

func (s *CheckoutService) SetTip(ctx context.Context, st *AppState, tip decimal.Decimal) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	if tip.IsNegative() {
		return s.reject(st, validationError("tip cannot be negative"))
	}
	return s.commit(ctx, st, func(c *models.CheckoutState) { c.Delivery.Tip = tip })
}

func (s *CheckoutService) SetNote(ctx context.Context, st *AppState, note string) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	note = strings.TrimSpace(note)
	return s.commit(ctx, st, func(c *models.CheckoutState) { c.Note = note })
}

func (s *CheckoutService) SelectAddress(ctx context.Context, st *AppState, addr models.DeliveryAddress) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	if !st.Checkout.Delivery.IsDelivery() {
		return s.reject(st, validationError("an address is only needed for delivery"))
	}
	if strings.TrimSpace(addr.ID) == "" {
		return s.reject(st, validationError("address id is required"))
	}

	quote, total, err := s.quoter.Quote(ctx, st, addr.ID)
	if err != nil {
		log.Error().Err(err).Str("session_id", st.ID).Str("address_id", addr.ID).Msg("failed to fetch delivery charges")
		return backendFailure("could not fetch delivery charges", err)
	}

	return s.commit(ctx, st, func(c *models.CheckoutState) {
		c.Delivery.Address = &addr
		c.Delivery.DeliveryCharge = quote.Charge
		c.Delivery.IsFreeDelivery = quote.IsFree
		st.QuotedTotal = &total
	})
}

func (s *CheckoutService) ApplyPromo(ctx context.Context, st *AppState, code string) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return s.reject(st, validationError("promo code is required"))
	}
	if st.Cart.IsEmpty() {
		return s.reject(st, &CheckoutError{Kind: KindValidation, Message: "your cart is empty", Cause: ErrEmptyCart})
	}

	total := calc.OrderTotal(st.Cart.SubTotal, st.Cart.TaxAmount, decimal.Zero)
	promo, err := s.backend.ValidatePromoCode(ctx, code, total)
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) && be.StatusCode == 0 {
			return s.reject(st, &CheckoutError{Kind: KindValidation, Message: be.Message, Cause: err})
		}
		return backendFailure("could not validate promo code", err)
	}

	return s.commit(ctx, st, func(c *models.CheckoutState) {
		c.Promo = promo
		s.quoter.Requote(ctx, st)
	})
}

func (s *CheckoutService) RemovePromo(ctx context.Context, st *AppState) error {
	if st.Checkout.Step == models.StepCompleted {
		return s.reject(st, terminalError())
	}
	if st.Checkout.Promo == nil {
		return nil
	}
	return s.commit(ctx, st, func(c *models.CheckoutState) {
		c.Promo = nil
		s.quoter.Requote(ctx, st)
	})
}

// LoadSettings fetches the customer's settings and prefills the contact mobile.
func (s *CheckoutService) LoadSettings(ctx context.Context, st *AppState) error {
	settings, err := s.backend.GetSettings(ctx)
	if err != nil {
		log.Error().Err(err).Str("session_id", st.ID).Msg("failed to load user settings")
		return backendFailure("could not load account settings", err)
	}
	st.Settings = settings
	if st.Checkout.Contact.Mobile == "" && settings.Mobile != "" {
		return s.commit(ctx, st, func(c *models.CheckoutState) { c.Contact.Mobile = settings.Mobile })
	}
	return nil
}

func (s *CheckoutService) StartOnlinePayment(ctx context.Context, st *AppState) (*models.PendingPayment, error) {
	switch st.Checkout.Step {
	case models.StepCompleted:
		return nil, s.reject(st, terminalError())
	case models.StepPayment:
	default:
		return nil, s.reject(st, validationError("online payment starts on the payment step"))
	}
	s.pricing.Recompute(st)
	pending, err := s.payments.Open(ctx, st)
	if err != nil {
		log.Warn().Err(err).Str("session_id", st.ID).Msg("online payment not started")
		return nil, err
	}
	return pending, nil
}

func orderRequest(st *AppState, method models.PaymentMethod, transactionID string) models.PlaceOrderRequest {
	c := st.Checkout
	req := models.PlaceOrderRequest{
		Mobile:         c.Contact.Mobile,
		SubTotal:       st.Cart.SubTotal,
		TaxAmount:      st.Cart.TaxAmount,
		DeliveryCharge: decimal.Zero,
		DeliveryTip:    decimal.Zero,
		FinalTotal:     st.TotalPayable,
		PaymentMethod:  method,
		OrderNote:      c.Note,
		IsSelfPickup:   !c.Delivery.IsDelivery(),
		TransactionID:  transactionID,
	}
	for _, item := range st.Cart.CartItems {
		req.VariantIDs = append(req.VariantIDs, item.VariantID)
		req.Quantities = append(req.Quantities, item.Qty)
	}
	if c.Promo != nil {
		req.PromoCode = c.Promo.Code
		req.PromoDiscount = c.Promo.FinalDiscount
	}
	if c.Delivery.IsDelivery() {
		req.DeliveryTip = c.Delivery.Tip
		if !c.Delivery.IsFreeDelivery {
			req.DeliveryCharge = c.Delivery.DeliveryCharge
		}
		if c.Delivery.Address != nil {
			req.AddressID = c.Delivery.Address.ID
		}
	}
	return req
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, st *AppState, method models.PaymentMethod) (*models.PlacedOrder, error) {
	switch st.Checkout.Step {
	case models.StepCompleted:
		return nil, s.reject(st, terminalError())
	case models.StepPayment:
	default:
		return nil, s.reject(st, validationError("orders can only be placed from the payment step"))
	}
	if st.Cart.IsEmpty() {
		return nil, s.reject(st, &CheckoutError{Kind: KindValidation, Message: "your cart is empty", Cause: ErrEmptyCart})
	}

	s.pricing.Recompute(st)
	if !st.Availability.OK() {
		return nil, s.reject(st, availabilityError(st.Availability))
	}
	if st.Checkout.Delivery.IsDelivery() && st.Checkout.Delivery.Address == nil {
		return nil, s.reject(st, validationError("please select a delivery address"))
	}
	if err := s.payments.CheckMethod(st, method); err != nil {
		if ce := AsCheckoutError(err); ce != nil {
			return nil, s.reject(st, ce)
		}
		return nil, err
	}

	var transactionID string
	if method == models.PaymentMethodMidtrans {
		txID, err := s.payments.Confirm(ctx, st)
		if err != nil {
			return nil, err
		}
		transactionID = txID
	}

	order, err := s.backend.PlaceOrder(ctx, orderRequest(st, method, transactionID))
	if err != nil {
		s.metrics.OrderPlacement("failed")
		log.Error().Err(err).Str("session_id", st.ID).Str("method", string(method)).Msg("failed to place order")
		return nil, backendFailure("could not place the order", err)
	}

	// The order exists on the backend now, so Completed sticks even if the snapshot fails.
	s.metrics.OrderPlacement("success")
	s.metrics.StepTransition(st.Checkout.Step.String(), models.StepCompleted.String())
	st.Checkout.Step = models.StepCompleted
	st.Checkout.OrderID = order.OrderID
	st.Checkout.Celebrate = true
	st.Pending = nil
	if err := s.registry.Persist(ctx, st); err != nil {
		log.Error().Err(err).Str("session_id", st.ID).Msg("order placed but session snapshot failed")
	}
	log.Info().Str("session_id", st.ID).Str("order_id", order.OrderID).Str("total", st.TotalPayable.StringFixed(2)).Msg("order placed")

	s.refreshSettings(st, BearerToken(ctx))
	return order, nil
}

// refreshSettings runs in the background; the wallet balance changes after an order.
func (s *CheckoutService) refreshSettings(st *AppState, token string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(WithBearerToken(context.Background(), token), s.settingsTimeout)
		defer cancel()

		settings, err := s.backend.GetSettings(ctx)
		if err != nil {
			log.Warn().Err(err).Str("session_id", st.ID).Msg("settings refresh after order failed")
			return
		}
		st.Lock()
		st.Settings = settings
		st.Unlock()
	}()
}

// Wait blocks until background work started by the service has finished.
func (s *CheckoutService) Wait() {
	s.background.Wait()
}

// Abandon drops the session so the customer can start a new checkout.
// Quantity updates still pending for the session are cancelled.
func (s *CheckoutService) Abandon(ctx context.Context, id string) error {
	if s.debouncer != nil {
		s.debouncer.CancelPrefix(id + ":")
	}
	return s.registry.Forget(ctx, id)
}
