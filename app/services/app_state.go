package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/repositories"
	"github.com/shopspring/decimal"
)

type Notice struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// AppState is everything one customer session knows: cart, settings, checkout progress
// and the published payable. Callers hold Lock for the whole read-modify-write.
type AppState struct {
	mu sync.Mutex

	ID           string
	Token        string
	Cart         *models.Cart
	Settings     *models.UserSettings
	Checkout     models.CheckoutState
	Payable      decimal.Decimal
	TotalPayable decimal.Decimal
	Availability AvailabilityReport
	Pending      *models.PendingPayment
	// QuotedTotal is the order total the current delivery charge was quoted for.
	QuotedTotal  *decimal.Decimal

	notices []Notice
}

func NewAppState(id string) *AppState {
	return &AppState{
		ID:           id,
		Cart:         &models.Cart{},
		Checkout:     models.NewCheckoutState(),
		Payable:      decimal.Zero,
		TotalPayable: decimal.Zero,
	}
}

func (s *AppState) Lock()   { s.mu.Lock() }
func (s *AppState) Unlock() { s.mu.Unlock() }

func (s *AppState) AddNotice(kind ErrorKind, msg string) {
	s.notices = append(s.notices, Notice{Kind: kind, Message: msg, At: time.Now()})
}

func (s *AppState) DrainNotices() []Notice {
	notices := s.notices
	s.notices = nil
	return notices
}

func (s *AppState) Snapshot() *models.CheckoutSession {
	c := s.Checkout
	snap := &models.CheckoutSession{
		ID:             s.ID,
		Step:           int(c.Step),
		DeliveryMode:   string(c.Delivery.Mode),
		DeliveryCharge: c.Delivery.DeliveryCharge,
		IsFreeDelivery: c.Delivery.IsFreeDelivery,
		Tip:            c.Delivery.Tip,
		PromoDiscount:  decimal.Zero,
		Mobile:         c.Contact.Mobile,
		OrderNote:      c.Note,
		OrderID:        c.OrderID,
	}
	if c.Delivery.Address != nil {
		snap.AddressID = c.Delivery.Address.ID
		snap.AddressLabel = c.Delivery.Address.Label
	}
	if c.Promo != nil {
		snap.PromoCode = c.Promo.Code
		snap.PromoDiscount = c.Promo.FinalDiscount
	}
	return snap
}

func (s *AppState) Restore(snap *models.CheckoutSession) {
	c := models.NewCheckoutState()
	if step := models.Step(snap.Step); step.Valid() {
		c.Step = step
	}
	if mode, err := models.ParseDeliveryMode(snap.DeliveryMode); err == nil {
		c.Delivery.Mode = mode
	}
	if snap.AddressID != "" {
		c.Delivery.Address = &models.DeliveryAddress{ID: snap.AddressID, Label: snap.AddressLabel}
	}
	c.Delivery.DeliveryCharge = snap.DeliveryCharge
	c.Delivery.IsFreeDelivery = snap.IsFreeDelivery
	c.Delivery.Tip = snap.Tip
	if snap.PromoCode != "" {
		c.Promo = &models.PromoCode{Code: snap.PromoCode, FinalDiscount: snap.PromoDiscount}
	}
	c.Contact.Mobile = snap.Mobile
	c.Note = snap.OrderNote
	c.OrderID = snap.OrderID
	s.Checkout = c
}

// StateRegistry keeps live sessions in memory and snapshots them through the repository.
type StateRegistry struct {
	mu     sync.Mutex
	states map[string]*AppState
	repo   repositories.CheckoutSessionRepository
}

func NewStateRegistry(repo repositories.CheckoutSessionRepository) *StateRegistry {
	return &StateRegistry{
		states: make(map[string]*AppState),
		repo:   repo,
	}
}

func (r *StateRegistry) Get(ctx context.Context, id string) (*AppState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[id]; ok {
		return st, nil
	}

	st := NewAppState(id)
	if r.repo != nil {
		snap, err := r.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load checkout session %s: %w", id, err)
		}
		if snap != nil {
			st.Restore(snap)
		}
	}
	r.states[id] = st
	return st, nil
}

// Persist must be called with st locked. A state that was forgotten is not written back.
func (r *StateRegistry) Persist(ctx context.Context, st *AppState) error {
	if r.repo == nil || !r.registered(st) {
		return nil
	}
	if err := r.repo.Save(ctx, st.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist checkout session %s: %w", st.ID, err)
	}
	return nil
}

func (r *StateRegistry) registered(st *AppState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[st.ID] == st
}

func (r *StateRegistry) Forget(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.states, id)
	r.mu.Unlock()

	if r.repo == nil {
		return nil
	}
	return r.repo.Delete(ctx, id)
}
